// Package githubapi models GitHub REST resources: a single lazily fetched
// Resource, paginated Containers of them, and the Repository aggregate that
// owns its contributor, pull request and issue listings.
package githubapi

import (
	"context"
	"fmt"

	"github.com/naka-gawa/aero-stat/internal/gateway"
)

// LoadOption overrides the fetcher, URL or credentials used by a single Load call.
type LoadOption func(*source)

// WithFetcher overrides the fetcher.
func WithFetcher(f gateway.Fetcher) LoadOption {
	return func(s *source) { s.fetcher = f }
}

// WithURL overrides the URL.
func WithURL(url string) LoadOption {
	return func(s *source) { s.url = url }
}

// WithCredentials overrides the credentials. nil sends no Authorization header.
func WithCredentials(creds *gateway.Credentials) LoadOption {
	return func(s *source) { s.creds = creds }
}

// source is the fetch-and-decode capability shared by Resource and Container.
type source struct {
	fetcher gateway.Fetcher
	url     string
	creds   *gateway.Credentials
}

// resolve applies opts over s and validates the result before any network call.
func (s source) resolve(opts []LoadOption) (source, error) {
	for _, opt := range opts {
		opt(&s)
	}
	if s.fetcher == nil {
		return s, fmt.Errorf("%w: no fetcher", gateway.ErrInvalidArgument)
	}
	if s.url == "" {
		return s, fmt.Errorf("%w: no URL", gateway.ErrInvalidArgument)
	}
	return s, nil
}

// fetch performs one request against url and decodes its body into v.
func (s source) fetch(ctx context.Context, url string, v any) (*gateway.Response, error) {
	resp, err := s.fetcher.Fetch(ctx, url, s.creds)
	if err != nil {
		return nil, err
	}
	if err := resp.JSON(v); err != nil {
		return nil, err
	}
	return resp, nil
}

// Resource is a single remote JSON object fetched from one URL.
type Resource struct {
	Attributes
	src    source
	loaded bool
}

// NewResource returns an unfetched Resource. No request is made.
func NewResource(fetcher gateway.Fetcher, url string, creds *gateway.Credentials) *Resource {
	return &Resource{
		Attributes: Attributes{},
		src:        source{fetcher: fetcher, url: url, creds: creds},
	}
}

// ParseResource builds a Resource from an already decoded JSON object.
func ParseResource(url string, raw map[string]any) (*Resource, error) {
	attrs, err := parseAttributes(raw)
	if err != nil {
		return nil, err
	}
	return &Resource{
		Attributes: attrs,
		src:        source{url: url},
		loaded:     true,
	}, nil
}

// URL returns the endpoint the Resource was (or will be) fetched from.
func (r *Resource) URL() string {
	return r.src.url
}

// Loaded reports whether the Resource holds fetched data.
func (r *Resource) Loaded() bool {
	return r.loaded
}

// Load fetches the Resource and replaces all of its attributes. On error the
// previous attributes are kept unchanged.
func (r *Resource) Load(ctx context.Context, opts ...LoadOption) (*Resource, error) {
	src, err := r.src.resolve(opts)
	if err != nil {
		return r, err
	}

	var raw any
	if _, err := src.fetch(ctx, src.url, &raw); err != nil {
		return r, err
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return r, fmt.Errorf("%w: %s: expected a JSON object, got %T", gateway.ErrDecode, src.url, raw)
	}
	attrs, err := parseAttributes(obj)
	if err != nil {
		return r, err
	}

	r.src = src
	r.Attributes = attrs
	r.loaded = true
	return r, nil
}
