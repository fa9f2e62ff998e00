package gateway

import (
	"fmt"
	"strings"
)

// Links maps a Link header relation ("next", "last", "first", "prev") to its URL.
type Links map[string]string

// Next returns the URL of the next page, if any.
func (l Links) Next() (string, bool) {
	next, ok := l["next"]
	return next, ok
}

// linkCleaner removes the URL brackets and every space from a raw header.
var linkCleaner = strings.NewReplacer("<", "", ">", "", " ", "")

// ParseLinkHeader decodes a pagination Link header such as
//
//	<https://api.github.com/repositories/1/pulls?page=2>; rel="next", <https://api.github.com/repositories/1/pulls?page=5>; rel="last"
//
// into a Links mapping. An empty header yields an empty mapping. An entry
// without a URL or a rel parameter is reported as ErrMalformedLink rather
// than skipped, since a dropped "next" would silently truncate a listing.
func ParseLinkHeader(raw string) (Links, error) {
	links := Links{}
	if strings.TrimSpace(raw) == "" {
		return links, nil
	}

	for _, entry := range strings.Split(linkCleaner.Replace(raw), ",") {
		parts := strings.Split(entry, ";")
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: %q", ErrMalformedLink, entry)
		}
		url, param := parts[0], parts[1]
		rel, ok := strings.CutPrefix(param, "rel=")
		if !ok {
			return nil, fmt.Errorf("%w: missing rel in %q", ErrMalformedLink, entry)
		}
		rel = strings.Trim(rel, `"`)
		if url == "" || rel == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedLink, entry)
		}
		links[rel] = url
	}
	return links, nil
}
