package githubapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/naka-gawa/aero-stat/internal/gateway"
	"github.com/sirupsen/logrus"
)

// Container is an ordered collection of items fetched from a paginated listing.
type Container[T any] struct {
	src      source
	newItem  func(*Resource) T
	items    []T
	pages    int
	maxPages int
	logger   *logrus.Logger
}

// ContainerOption configures a Container.
type ContainerOption func(*containerConfig)

type containerConfig struct {
	maxPages int
	logger   *logrus.Logger
}

// WithMaxPages bounds the number of pages a Load may follow. Zero means unbounded.
func WithMaxPages(n int) ContainerOption {
	return func(c *containerConfig) { c.maxPages = n }
}

// WithContainerLogger sets the logger used to report each fetched page.
func WithContainerLogger(logger *logrus.Logger) ContainerOption {
	return func(c *containerConfig) { c.logger = logger }
}

// NewContainer returns an unfetched Container whose entries are built with newItem.
func NewContainer[T any](fetcher gateway.Fetcher, url string, creds *gateway.Credentials, newItem func(*Resource) T, opts ...ContainerOption) *Container[T] {
	cfg := containerConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logrus.New()
		cfg.logger.SetOutput(io.Discard)
	}
	return &Container[T]{
		src:      source{fetcher: fetcher, url: url, creds: creds},
		newItem:  newItem,
		maxPages: cfg.maxPages,
		logger:   cfg.logger,
	}
}

// URL returns the listing URL of the first page.
func (c *Container[T]) URL() string {
	return c.src.url
}

// Items returns the loaded items in arrival order.
func (c *Container[T]) Items() []T {
	return c.items
}

// Len returns the number of loaded items.
func (c *Container[T]) Len() int {
	return len(c.items)
}

// Pages returns how many pages the last successful Load fetched.
func (c *Container[T]) Pages() int {
	return c.pages
}

// At returns the i-th item.
func (c *Container[T]) At(i int) (T, error) {
	if i < 0 || i >= len(c.items) {
		var zero T
		return zero, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(c.items))
	}
	return c.items[i], nil
}

// Load fetches the first page and then follows rel="next" links until a
// response carries none. Items from all pages replace the current ones only
// when every page succeeded.
func (c *Container[T]) Load(ctx context.Context, opts ...LoadOption) (*Container[T], error) {
	src, err := c.src.resolve(opts)
	if err != nil {
		return c, err
	}

	items := make([]T, 0)
	pages := 0
	url := src.url
	for {
		if c.maxPages > 0 && pages >= c.maxPages {
			return c, fmt.Errorf("%w: %s has more than %d pages", ErrPageLimit, src.url, c.maxPages)
		}

		resp, err := src.fetcher.Fetch(ctx, url, src.creds)
		if err != nil {
			return c, err
		}
		entries, err := decodePage(resp)
		if err != nil {
			return c, err
		}
		for i, entry := range entries {
			obj, ok := entry.(map[string]any)
			if !ok {
				return c, fmt.Errorf("%w: %s: entry %d is %T, not an object", gateway.ErrDecode, url, i, entry)
			}
			res, err := ParseResource(itemURL(obj), obj)
			if err != nil {
				return c, err
			}
			res.src.fetcher, res.src.creds = src.fetcher, src.creds
			items = append(items, c.newItem(res))
		}
		pages++
		c.logger.WithFields(logrus.Fields{"page": pages, "items": len(entries)}).Debugf("fetched %s", url)

		links, err := resp.Links()
		if err != nil {
			return c, err
		}
		next, ok := links.Next()
		if !ok {
			break
		}
		url = next
	}

	c.src = src
	c.items = items
	c.pages = pages
	return c, nil
}

// decodePage returns the entries of one listing page. GitHub answers some
// listings of an empty repository with 204 and no body, which is an empty page.
func decodePage(resp *gateway.Response) ([]any, error) {
	if resp.StatusCode == http.StatusNoContent && len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil, nil
	}
	var raw any
	if err := resp.JSON(&raw); err != nil {
		return nil, err
	}
	entries, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s: expected a JSON array, got %T", gateway.ErrDecode, resp.URL, raw)
	}
	return entries, nil
}

// itemURL returns the API URL an entry reports for itself, if any.
func itemURL(obj map[string]any) string {
	url, _ := obj["url"].(string)
	return url
}
