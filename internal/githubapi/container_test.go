package githubapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/naka-gawa/aero-stat/internal/gateway"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// contributorsPage renders n contributor entries numbered from start.
func contributorsPage(start, n int) string {
	entries := make([]string, n)
	for i := range entries {
		entries[i] = fmt.Sprintf(`{"login": "user-%d", "contributions": %d}`, start+i, start+i)
	}
	return "[" + strings.Join(entries, ",") + "]"
}

// pagedServer serves len(sizes) pages of contributors, linking each page to
// the next one the way the GitHub API does.
func pagedServer(t *testing.T, sizes []int) (*httptest.Server, *int) {
	requests := 0
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			var err error
			page, err = strconv.Atoi(p)
			assert.NoError(t, err)
		}
		start := 0
		for _, size := range sizes[:page-1] {
			start += size
		}
		if page < len(sizes) {
			w.Header().Set("Link", fmt.Sprintf(`<%s/contributors?per_page=100&page=%d>; rel="next", <%s/contributors?per_page=100&page=%d>; rel="last"`,
				server.URL, page+1, server.URL, len(sizes)))
		}
		fmt.Fprint(w, contributorsPage(start, sizes[page-1]))
	}))
	return server, &requests
}

func newTestFetcher(t *testing.T) *gateway.HTTPFetcher {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	fetcher, err := gateway.NewHTTPFetcher(gateway.Options{}, logger)
	require.NoError(t, err)
	return fetcher
}

func TestContainer_LoadFollowsNextLinks(t *testing.T) {
	server, requests := pagedServer(t, []int{100, 100, 37})
	defer server.Close()

	c := NewContainer(newTestFetcher(t), server.URL+"/contributors?per_page=100", nil, NewContributor)
	got, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, c, got)

	assert.Equal(t, 3, *requests)
	assert.Equal(t, 3, c.Pages())
	require.Equal(t, 237, c.Len())
	for i, contributor := range c.Items() {
		login, err := contributor.Login()
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("user-%d", i), login)
	}

	last, err := c.At(236)
	require.NoError(t, err)
	contributions, err := last.Contributions()
	require.NoError(t, err)
	assert.Equal(t, int64(236), contributions)
}

func TestContainer_LoadSinglePage(t *testing.T) {
	server, requests := pagedServer(t, []int{5})
	defer server.Close()

	c, err := NewContainer(newTestFetcher(t), server.URL+"/contributors?per_page=100", nil, NewContributor).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, *requests)
	assert.Equal(t, 5, c.Len())
}

func TestContainer_PageLimit(t *testing.T) {
	server, requests := pagedServer(t, []int{100, 100, 37})
	defer server.Close()

	c := NewContainer(newTestFetcher(t), server.URL+"/contributors?per_page=100", nil, NewContributor, WithMaxPages(2))
	_, err := c.Load(context.Background())
	assert.ErrorIs(t, err, ErrPageLimit)
	assert.Equal(t, 2, *requests)
	assert.Equal(t, 0, c.Len())
}

func TestContainer_CarriesCredentials(t *testing.T) {
	creds := &gateway.Credentials{Login: "l", Secret: "s"}
	fetcher := new(mockFetcher)
	fetcher.On("Fetch", mock.Anything, "http://gh.com/pulls", creds).
		Return(jsonResponse("http://gh.com/pulls", `[{"number": 1}]`, `<http://gh.com/pulls?page=2>; rel="next"`), nil)
	fetcher.On("Fetch", mock.Anything, "http://gh.com/pulls?page=2", creds).
		Return(jsonResponse("http://gh.com/pulls?page=2", `[{"number": 2}]`, ""), nil)

	c, err := NewContainer(fetcher, "http://gh.com/pulls", creds, NewPull).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())
	fetcher.AssertExpectations(t)
}

func TestContainer_LoadReplacesItems(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("Fetch", mock.Anything, "http://gh.com/a", mock.Anything).
		Return(jsonResponse("http://gh.com/a", `[{"number": 1}, {"number": 2}]`, ""), nil)
	fetcher.On("Fetch", mock.Anything, "http://gh.com/b", mock.Anything).
		Return(jsonResponse("http://gh.com/b", `[{"number": 3}]`, ""), nil)

	c := NewContainer(fetcher, "http://gh.com/a", nil, NewIssue)
	_, err := c.Load(context.Background())
	require.NoError(t, err)
	_, err = c.Load(context.Background(), WithURL("http://gh.com/b"))
	require.NoError(t, err)

	require.Equal(t, 1, c.Len())
	number, err := c.Items()[0].Number()
	require.NoError(t, err)
	assert.Equal(t, int64(3), number)
}

func TestContainer_NoContentIsEmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c, err := NewContainer(newTestFetcher(t), server.URL+"/contributors?per_page=100", nil, NewContributor).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 1, c.Pages())
	assert.NotNil(t, c.Items())
}

func TestContainer_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		link    string
		wantErr error
	}{
		{name: "object instead of array", body: `{"message": "x"}`, wantErr: gateway.ErrDecode},
		{name: "array of scalars", body: `[1, 2]`, wantErr: gateway.ErrDecode},
		{name: "invalid json", body: `[{`, wantErr: gateway.ErrDecode},
		{name: "trailing data", body: `[{"number": 1}] not json at all`, wantErr: gateway.ErrDecode},
		{name: "empty body with 200", body: ``, wantErr: gateway.ErrDecode},
		{name: "malformed link", body: `[]`, link: `<http://gh.com/x?page=2>`, wantErr: gateway.ErrMalformedLink},
		{name: "malformed timestamp", body: `[{"created_at": "yesterday"}]`, wantErr: ErrMalformedTimestamp},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := new(mockFetcher)
			fetcher.On("Fetch", mock.Anything, "http://gh.com/x", mock.Anything).
				Return(jsonResponse("http://gh.com/x", tc.body, tc.link), nil)

			c := NewContainer(fetcher, "http://gh.com/x", nil, NewIssue)
			_, err := c.Load(context.Background())
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, 0, c.Len())
		})
	}

	t.Run("missing url before fetching", func(t *testing.T) {
		fetcher := new(mockFetcher)
		_, err := NewContainer(fetcher, "", nil, NewIssue).Load(context.Background())
		assert.ErrorIs(t, err, gateway.ErrInvalidArgument)
		fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("index out of range", func(t *testing.T) {
		c := NewContainer[Issue](nil, "", nil, NewIssue)
		_, err := c.At(0)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
		assert.NotErrorIs(t, err, ErrMissingAttribute)
	})
}
