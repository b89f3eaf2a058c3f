package core

import "errors"

// The engine's error taxonomy. Persistence translates driver errors into
// these before anything above the store sees them.
var (
	// ErrNoSession means no external session identity could be resolved.
	// Write operations treat this as a silent no-op, never a failure.
	ErrNoSession = errors.New("no active session")

	// ErrUnauthorized means the resolved actor lacks permission for the
	// target. Nothing has been mutated when it is returned.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound means a referenced post or comment does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidOperation covers self-follow and empty-content violations.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrConflictRetry is a uniqueness race lost to a concurrent toggle.
	// The caller may safely retry; the retry will observe the winner's row.
	ErrConflictRetry = errors.New("conflict, retry")

	// ErrStoreUnavailable is a transport or storage failure. It is always
	// surfaced, never swallowed.
	ErrStoreUnavailable = errors.New("store unavailable")
)
