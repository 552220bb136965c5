package session

import (
	"errors"
	"fmt"
)

var (
	ErrCreateInProgress = errors.New("session: creation already in progress")
	ErrSessionActive    = errors.New("session: a session is already active")
	ErrNoSession        = errors.New("session: no active session")
)

// CreateError means the remote browser could not be provisioned.
type CreateError struct {
	Err error
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("create session: %v", e.Err)
}

func (e *CreateError) Unwrap() error { return e.Err }

// TerminateError means the host did not confirm teardown. The local handle
// is cleared regardless.
type TerminateError struct {
	Handle string
	Err    error
}

func (e *TerminateError) Error() string {
	return fmt.Sprintf("terminate session %s: %v", e.Handle, e.Err)
}

func (e *TerminateError) Unwrap() error { return e.Err }

// StatusError is a non-success response from the session API.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("unexpected status %d", e.Code)
}
