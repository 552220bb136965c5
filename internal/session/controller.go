package session

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Streamer is the streaming layer bound to a session handle.
type Streamer interface {
	Open(handle string) error
	Close()
}

// Controller holds at most one session handle and gates the streamer on it:
// the streamer is opened when a handle is acquired and torn down before the
// handle is released.
type Controller struct {
	api      API
	streamer Streamer
	logger   *zap.Logger

	mu       sync.Mutex
	handle   string
	creating bool
}

func NewController(api API, streamer Streamer, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{api: api, streamer: streamer, logger: logger}
}

// Handle returns the live session handle, or "" when there is none.
func (c *Controller) Handle() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle
}

// Creating reports whether a CreateSession call is pending.
func (c *Controller) Creating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.creating
}

// CreateSession provisions a remote browser and opens the streamer for it.
// Only one creation may be pending and only one session may be held.
func (c *Controller) CreateSession(ctx context.Context) (string, error) {
	c.mu.Lock()
	switch {
	case c.creating:
		c.mu.Unlock()
		return "", ErrCreateInProgress
	case c.handle != "":
		c.mu.Unlock()
		return "", ErrSessionActive
	}
	c.creating = true
	c.mu.Unlock()

	handle, err := c.api.Create(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.creating = false
	if err != nil {
		c.logger.Error("session create failed", zap.Error(err))
		return "", &CreateError{Err: err}
	}
	c.handle = handle
	c.logger.Info("session created", zap.String("session_id", handle))

	if c.streamer != nil {
		if err := c.streamer.Open(handle); err != nil {
			c.logger.Error("stream open failed", zap.String("session_id", handle), zap.Error(err))
		}
	}
	return handle, nil
}

// TerminateSession tears the streamer down and asks the host to release the
// session. The local handle is cleared even if the host call fails, in which
// case a *TerminateError is returned.
func (c *Controller) TerminateSession(ctx context.Context) error {
	c.mu.Lock()
	handle := c.handle
	if handle == "" {
		c.mu.Unlock()
		return ErrNoSession
	}
	if c.streamer != nil {
		c.streamer.Close()
	}
	c.handle = ""
	c.mu.Unlock()

	if err := c.api.Terminate(ctx, handle); err != nil {
		c.logger.Warn("session terminate failed", zap.String("session_id", handle), zap.Error(err))
		return &TerminateError{Handle: handle, Err: err}
	}
	c.logger.Info("session terminated", zap.String("session_id", handle))
	return nil
}
