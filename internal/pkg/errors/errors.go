package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing students, instructors or courses.
	ErrNotFound = errors.New("not found")
	// ErrNoCandidates means a course filter matched a course that nobody teaches.
	ErrNoCandidates = errors.New("no candidate instructors")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict covers duplicate keys and deletes blocked by relationships.
	ErrConflict = errors.New("conflict")
	// ErrStoreUnavailable wraps graph store failures (driver errors, open breaker).
	ErrStoreUnavailable = errors.New("graph store unavailable")
)
