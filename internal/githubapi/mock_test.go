package githubapi

import (
	"context"
	"net/http"

	"github.com/naka-gawa/aero-stat/internal/gateway"
	"github.com/stretchr/testify/mock"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(ctx context.Context, url string, creds *gateway.Credentials) (*gateway.Response, error) {
	args := m.Called(ctx, url, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Response), args.Error(1)
}

// jsonResponse builds a 200 response with body and an optional Link header.
func jsonResponse(url, body, link string) *gateway.Response {
	header := http.Header{}
	if link != "" {
		header.Set("Link", link)
	}
	return &gateway.Response{URL: url, StatusCode: http.StatusOK, Header: header, Body: []byte(body)}
}
