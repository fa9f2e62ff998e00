package gateway

import "errors"

// Sentinel errors returned by the gateway. Callers branch on them with errors.Is.
var (
	// ErrInvalidArgument is returned before any network call when the request
	// cannot be built (empty URL, missing fetcher).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTransport wraps connection failures and responses the API rejected
	// with a non-2xx status.
	ErrTransport = errors.New("transport error")

	// ErrDecode is returned when a response body is not valid JSON or does not
	// have the expected shape.
	ErrDecode = errors.New("decode error")

	// ErrMalformedLink is returned for a Link header entry that cannot be parsed.
	ErrMalformedLink = errors.New("malformed link header")
)
