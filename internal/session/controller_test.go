package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"browsercontrol/internal/stream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu           sync.Mutex
	createID     string
	createErr    error
	terminateErr error
	release      chan struct{}
	terminated   []string
}

func (f *fakeAPI) Create(ctx context.Context) (string, error) {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.createID, f.createErr
}

func (f *fakeAPI) Terminate(_ context.Context, handle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terminated = append(f.terminated, handle)
	return f.terminateErr
}

type fakeStreamer struct {
	opened []string
	closed int
}

func (s *fakeStreamer) Open(handle string) error {
	s.opened = append(s.opened, handle)
	return nil
}

func (s *fakeStreamer) Close() { s.closed++ }

func TestCreateSessionOpensStreamer(t *testing.T) {
	api := &fakeAPI{createID: "abc123"}
	st := &fakeStreamer{}
	c := NewController(api, st, nil)

	handle, err := c.CreateSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", handle)
	assert.Equal(t, "abc123", c.Handle())
	assert.Equal(t, []string{"abc123"}, st.opened)

	_, err = c.CreateSession(context.Background())
	assert.ErrorIs(t, err, ErrSessionActive)
}

func TestCreateSessionRejectsConcurrentCreate(t *testing.T) {
	api := &fakeAPI{createID: "abc123", release: make(chan struct{})}
	c := NewController(api, &fakeStreamer{}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := c.CreateSession(context.Background())
		done <- err
	}()
	require.Eventually(t, c.Creating, time.Second, time.Millisecond)

	_, err := c.CreateSession(context.Background())
	assert.ErrorIs(t, err, ErrCreateInProgress)

	close(api.release)
	require.NoError(t, <-done)
	assert.False(t, c.Creating())
}

func TestCreateSessionFailure(t *testing.T) {
	api := &fakeAPI{createErr: errors.New("connection refused")}
	st := &fakeStreamer{}
	c := NewController(api, st, nil)

	_, err := c.CreateSession(context.Background())
	var ce *CreateError
	require.ErrorAs(t, err, &ce)
	assert.Empty(t, c.Handle())
	assert.False(t, c.Creating())
	assert.Empty(t, st.opened)
}

func TestTerminateSession(t *testing.T) {
	api := &fakeAPI{createID: "abc123"}
	st := &fakeStreamer{}
	c := NewController(api, st, nil)

	assert.ErrorIs(t, c.TerminateSession(context.Background()), ErrNoSession)

	_, err := c.CreateSession(context.Background())
	require.NoError(t, err)
	require.NoError(t, c.TerminateSession(context.Background()))

	assert.Empty(t, c.Handle())
	assert.Equal(t, 1, st.closed)
	assert.Equal(t, []string{"abc123"}, api.terminated)
}

func TestTerminateFailureStillClearsHandle(t *testing.T) {
	api := &fakeAPI{createID: "abc123", terminateErr: errors.New("502 bad gateway")}
	st := &fakeStreamer{}
	c := NewController(api, st, nil)

	_, err := c.CreateSession(context.Background())
	require.NoError(t, err)

	err = c.TerminateSession(context.Background())
	var te *TerminateError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "abc123", te.Handle)
	assert.Empty(t, c.Handle())
	assert.Equal(t, 1, st.closed)

	// A fresh session can be started straight away.
	_, err = c.CreateSession(context.Background())
	assert.NoError(t, err)
}

func TestTerminateFromFailedStreamReturnsIdle(t *testing.T) {
	// Nothing listens here, so the channel fails to connect.
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := "ws" + dead.URL[len("http"):]
	dead.Close()

	client := stream.New(stream.Config{
		StreamURL: func(h string) (string, error) { return deadURL + "/stream/" + h, nil },
	}, &stream.MemorySurface{})
	api := &fakeAPI{createID: "abc123", terminateErr: errors.New("unreachable")}
	c := NewController(api, client, nil)

	_, err := c.CreateSession(context.Background())
	require.NoError(t, err)
	require.Eventually(t, func() bool { return client.Status().State == stream.StateFailed }, 2*time.Second, 5*time.Millisecond)

	err = c.TerminateSession(context.Background())
	assert.Error(t, err)
	assert.Empty(t, c.Handle())
	assert.Equal(t, stream.StateIdle, client.Status().State)
}
