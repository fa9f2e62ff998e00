package githubapi

import "errors"

var (
	// ErrMissingAttribute is returned when a field was never part of the fetched payload.
	ErrMissingAttribute = errors.New("no such attribute")
	// ErrAttributeType is returned when a field is present with an unexpected JSON type.
	ErrAttributeType = errors.New("unexpected attribute type")
	// ErrMalformedTimestamp is returned when an "_at" field does not match TimestampLayout.
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	// ErrIndexOutOfRange is returned by Container.At.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrPageLimit is returned when a listing has more pages than the configured bound.
	ErrPageLimit = errors.New("page limit exceeded")
	// ErrPrecondition is returned when an operation needs state that was never established.
	ErrPrecondition = errors.New("precondition failed")
	// ErrInvalidURL is returned by ParseRepositoryReference for a URL without a host.
	ErrInvalidURL = errors.New("invalid URL")
	// ErrMissingPath is returned by ParseRepositoryReference when owner or name is missing.
	ErrMissingPath = errors.New("missing path")
)
