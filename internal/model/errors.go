package model

import "errors"

var (
	// ErrNotFound is returned when a queried record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyReserved is returned when an email is owned by a different user.
	ErrAlreadyReserved = errors.New("email already reserved")
	// ErrInvalidState is returned when a command does not apply to the current state.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidArgument is returned for malformed input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrStepFailed signals a step failure left to the runtime retry policy.
	ErrStepFailed = errors.New("step failed")
	// ErrStaleTask is returned when a task lease was taken over by another worker.
	ErrStaleTask = errors.New("stale task")
)
