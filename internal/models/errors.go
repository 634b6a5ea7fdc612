package models

import "errors"

// Error kinds surfaced by the service. Lower layers wrap these with %w and
// the HTTP layer maps them to status codes with errors.Is.
var (
	// ErrNotFound means the requested user id is not in the directory,
	// or the requested attribute (location, push token) was never set.
	ErrNotFound = errors.New("user not found")

	// ErrConflict means a user with the same id already exists.
	ErrConflict = errors.New("user already exists")

	// ErrInvalidArgument means the caller sent a bad value, such as an
	// out-of-range coordinate or an empty search prefix.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnavailable means the downstream push transport failed or timed out.
	ErrUnavailable = errors.New("push transport unavailable")
)
