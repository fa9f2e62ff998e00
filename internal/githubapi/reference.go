package githubapi

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseRepositoryReference extracts owner and repository name from a link such
// as "https://github.com/dm-logv/aero-stat/issues". Path segments after the
// name are ignored.
func ParseRepositoryReference(raw string) (owner, name string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q: %w", ErrInvalidURL, raw, err)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("%w: %q has no host", ErrInvalidURL, raw)
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return "", "", fmt.Errorf("%w: %q needs /owner/repository", ErrMissingPath, raw)
	}
	return segments[0], strings.TrimSuffix(segments[1], ".git"), nil
}
