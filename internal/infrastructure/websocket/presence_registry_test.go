package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterThenResolve(t *testing.T) {
	registry := NewPresenceRegistry()

	_, online := registry.Resolve("u1")
	assert.False(t, online, "unregistered user should be offline")

	registry.Register("u1", "conn-1")

	connectionID, online := registry.Resolve("u1")
	require.True(t, online)
	assert.Equal(t, "conn-1", connectionID)
}

func TestFirstRegistrationWins(t *testing.T) {
	registry := NewPresenceRegistry()

	registry.Register("u1", "conn-1")
	snapshot := registry.Register("u1", "conn-2")

	require.Len(t, snapshot, 1)
	assert.Equal(t, "conn-1", snapshot[0].ConnectionID)

	connectionID, online := registry.Resolve("u1")
	require.True(t, online)
	assert.Equal(t, "conn-1", connectionID, "duplicate registration must not replace the original connection")

	// Only dropping the original connection frees the user id again.
	registry.Unregister("conn-1")
	_, online = registry.Resolve("u1")
	assert.False(t, online)

	registry.Register("u1", "conn-2")
	connectionID, online = registry.Resolve("u1")
	require.True(t, online)
	assert.Equal(t, "conn-2", connectionID)
}

func TestUnregisterIsConnectionScoped(t *testing.T) {
	registry := NewPresenceRegistry()

	registry.Register("u1", "conn-1")
	registry.Register("u2", "conn-2")

	snapshot := registry.Unregister("conn-1")

	require.Len(t, snapshot, 1)
	assert.Equal(t, "u2", snapshot[0].UserID)

	_, online := registry.Resolve("u1")
	assert.False(t, online)

	connectionID, online := registry.Resolve("u2")
	require.True(t, online)
	assert.Equal(t, "conn-2", connectionID)
}

func TestUnregisterUnknownConnectionIsNoop(t *testing.T) {
	registry := NewPresenceRegistry()

	registry.Register("u1", "conn-1")
	snapshot := registry.Unregister("conn-404")

	require.Len(t, snapshot, 1)
	assert.Equal(t, "u1", snapshot[0].UserID)
	assert.Equal(t, "conn-1", snapshot[0].ConnectionID)
}

func TestSnapshotTracksMembership(t *testing.T) {
	registry := NewPresenceRegistry()

	assert.Empty(t, registry.Snapshot())

	registry.Register("u1", "conn-1")
	registry.Register("u2", "conn-2")
	registry.Register("u3", "conn-3")
	assert.Len(t, registry.Snapshot(), 3)

	registry.Unregister("conn-2")
	snapshot := registry.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "u1", snapshot[0].UserID)
	assert.Equal(t, "u3", snapshot[1].UserID)

	registry.Unregister("conn-1")
	registry.Unregister("conn-3")
	assert.Empty(t, registry.Snapshot())
}

func TestSnapshotIsACopy(t *testing.T) {
	registry := NewPresenceRegistry()
	registry.Register("u1", "conn-1")

	snapshot := registry.Snapshot()
	snapshot[0].UserID = "mutated"

	connectionID, online := registry.Resolve("u1")
	require.True(t, online)
	assert.Equal(t, "conn-1", connectionID)
}
