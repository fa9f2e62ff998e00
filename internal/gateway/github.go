// Package gateway provides a gateway to the GitHub REST API: a single-shot
// HTTP GET fetcher and the pagination Link header parser beneath it.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v62/github"
	"github.com/sirupsen/logrus"
)

const (
	mediaTypeGitHubJSON = "application/vnd.github+json"
	defaultUserAgent    = "aero-stat"
)

// Credentials is a login/secret pair sent as HTTP basic auth.
type Credentials struct {
	Login  string
	Secret string
}

// Fetcher defines the behavior of a gateway performing GET requests against the API.
type Fetcher interface {
	Fetch(ctx context.Context, url string, creds *Credentials) (*Response, error)
}

// Response holds the outcome of one GET request.
type Response struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// JSON decodes the body into v. Numbers are kept as json.Number when v is
// an interface value so that integer fields keep their precision. The body
// must hold exactly one JSON value.
func (r *Response) JSON(v any) error {
	dec := json.NewDecoder(bytes.NewReader(r.Body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecode, r.URL, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("%w: %s: trailing data after JSON value", ErrDecode, r.URL)
	}
	return nil
}

// String returns the body as text.
func (r *Response) String() string {
	return string(r.Body)
}

// Links parses the Link header of the response.
func (r *Response) Links() (Links, error) {
	return ParseLinkHeader(r.Header.Get("Link"))
}

// Options configures an HTTPFetcher.
type Options struct {
	// Timeout bounds a whole request including reading the body. Zero means no timeout.
	Timeout time.Duration
	// WaitRateLimit sleeps through GitHub secondary rate limits and then
	// repeats the request. Off by default so each Fetch is a single round trip.
	WaitRateLimit bool
	// UserAgent overrides the User-Agent header.
	UserAgent string
	// Transport overrides the base round tripper, mostly for tests.
	Transport http.RoundTripper
}

// HTTPFetcher is the concrete implementation of the Fetcher interface.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	logger    *logrus.Logger
}

// NewHTTPFetcher is a constructor that creates a new instance of HTTPFetcher.
func NewHTTPFetcher(opts Options, logger *logrus.Logger) (*HTTPFetcher, error) {
	transport := opts.Transport
	if opts.WaitRateLimit {
		rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(transport, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
		}
		transport = rateLimitWaiter
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &HTTPFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		userAgent: userAgent,
		logger:    logger,
	}, nil
}

// Fetch performs exactly one GET request against url. When creds is not nil
// an Authorization header with basic encoding is attached.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string, creds *Credentials) (*Response, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL", ErrInvalidArgument)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	req.Header.Set("Accept", mediaTypeGitHubJSON)
	req.Header.Set("User-Agent", f.userAgent)
	if creds != nil {
		req.SetBasicAuth(creds.Login, creds.Secret)
	}

	f.logger.Debugf("GET %s", url)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	f.logger.WithField("status", resp.StatusCode).Debugf("GET %s done", url)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// CheckResponse reads the body into a typed *github.ErrorResponse
		// (or *github.RateLimitError) that callers can inspect with errors.As.
		return nil, fmt.Errorf("%w: %w", ErrTransport, github.CheckResponse(resp))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body of %s: %w", ErrTransport, url, err)
	}
	return &Response{
		URL:        url,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
