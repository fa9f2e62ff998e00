package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLinkHeader(t *testing.T) {
	const (
		next  = "https://api.github.com/repositories/1/pulls?per_page=100&page=2"
		last  = "https://api.github.com/repositories/1/pulls?per_page=100&page=5"
		first = "https://api.github.com/repositories/1/pulls?per_page=100&page=1"
		prev  = "https://api.github.com/repositories/1/pulls?per_page=100&page=1"
	)
	all := Links{"next": next, "last": last, "first": first, "prev": prev}

	testCases := []struct {
		name     string
		raw      string
		expected Links
	}{
		{
			name:     "empty header",
			raw:      "",
			expected: Links{},
		},
		{
			name:     "blank header",
			raw:      "   ",
			expected: Links{},
		},
		{
			name:     "single entry",
			raw:      `<` + next + `>; rel="next"`,
			expected: Links{"next": next},
		},
		{
			name:     "four relations",
			raw:      `<` + next + `>; rel="next", <` + last + `>; rel="last", <` + first + `>; rel="first", <` + prev + `>; rel="prev"`,
			expected: all,
		},
		{
			name:     "four relations in another order",
			raw:      `<` + prev + `>; rel="prev", <` + first + `>; rel="first", <` + last + `>; rel="last", <` + next + `>; rel="next"`,
			expected: all,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			links, err := ParseLinkHeader(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, links)
		})
	}
}

func TestParseLinkHeader_Malformed(t *testing.T) {
	for _, raw := range []string{
		`<https://example.com/?page=2>`,
		`<https://example.com/?page=2>; next`,
		`<>; rel="next"`,
		`<https://example.com/?page=2>; rel="next"; title="x"`,
		`<https://example.com/?page=2>; rel="next",`,
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseLinkHeader(raw)
			assert.ErrorIs(t, err, ErrMalformedLink)
		})
	}
}

func TestLinks_Next(t *testing.T) {
	_, ok := Links{"last": "x"}.Next()
	assert.False(t, ok)
}
