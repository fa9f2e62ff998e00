package githubapi

import (
	"fmt"
	"net/url"
	"regexp"

	"github.com/naka-gawa/aero-stat/internal/gateway"
)

// templateExpr matches an RFC 6570 expression such as "{/number}".
var templateExpr = regexp.MustCompile(`\{[^{}]*\}`)

// ExpandEmpty substitutes every template expression of a URL template with an
// empty value, turning "…/pulls{/number}" into the collection URL "…/pulls".
func ExpandEmpty(template string) string {
	return templateExpr.ReplaceAllString(template, "")
}

// MergeQuery overlays params on the query string of rawURL.
func MergeQuery(rawURL string, params url.Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", gateway.ErrInvalidArgument, err)
	}
	query := u.Query()
	for key, values := range params {
		query[key] = values
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}
