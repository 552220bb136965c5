package server

import (
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerControlLifecycle(t *testing.T) {
	m := NewManager()
	m.Add("a", &fakeBackend{})

	first, second := &websocket.Conn{}, &websocket.Conn{}

	old, ok := m.SetControl("a", first)
	require.True(t, ok)
	assert.Nil(t, old)

	old, ok = m.SetControl("a", second)
	require.True(t, ok)
	assert.Same(t, first, old)

	// A replaced viewer detaching must not clear its successor.
	m.RemoveControl("a", first)
	s, ok := m.Get("a")
	require.True(t, ok)
	assert.Same(t, second, s.Control)

	_, ok = m.SetControl("missing", first)
	assert.False(t, ok)

	s, conn, ok := m.Remove("a")
	require.True(t, ok)
	assert.Equal(t, "a", s.ID)
	assert.Same(t, second, conn)
	assert.Nil(t, s.Control)
	assert.Zero(t, m.Len())

	_, _, ok = m.Remove("a")
	assert.False(t, ok)
}

func TestManagerIDs(t *testing.T) {
	m := NewManager()
	m.Add("a", &fakeBackend{})
	m.Add("b", &fakeBackend{})
	assert.ElementsMatch(t, []string{"a", "b"}, m.IDs())
	assert.Equal(t, 2, m.Len())
}
