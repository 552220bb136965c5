package stream

import (
	"errors"
	"fmt"
)

// GenericFailure is the reason reported for every channel-level error; the
// transport does not say more than that.
const GenericFailure = "Error connecting to the server"

var (
	ErrNoHandle    = errors.New("stream: session handle required")
	ErrAlreadyOpen = errors.New("stream: channel already open")
	ErrNotLive     = errors.New("stream: channel not live")
)

// ConnectError is returned when the channel could not be opened.
type ConnectError struct {
	URL string
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.URL, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// RuntimeError is a transport failure on an open channel.
type RuntimeError struct {
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("channel error: %v", e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// CloseError records a close frame received from the host.
type CloseError struct {
	Code   int
	Reason string
}

func (e *CloseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("channel closed (%d)", e.Code)
	}
	return fmt.Sprintf("channel closed (%d): %s", e.Code, e.Reason)
}

// DecodeError is a frame payload that could not be decoded into an image.
type DecodeError struct {
	Size int
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode frame (%d bytes): %v", e.Size, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
