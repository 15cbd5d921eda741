package services

import "errors"

// Typed failures recovered at the HTTP boundary. Services wrap these with
// context via fmt.Errorf("...: %w", Err...); handlers translate with
// errors.Is. Nothing is retried internally.
var (
	// ErrNotFound means a referenced entity does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied means the principal is not the owner or lacks the
	// required role.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidState means the operation is not valid for the current
	// status: double-start, submit after a terminal state, delete after
	// start.
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation means the input payload is malformed.
	ErrValidation = errors.New("validation failed")
)
