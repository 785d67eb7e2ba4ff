package websocket

import (
	"sync"

	"marketplace-backend/internal/domain"
)

// PresenceRegistry maps logical user ids to the live connection they
// registered on. It is in-memory only and scoped to the process lifetime;
// the Gateway is its only caller.
type PresenceRegistry struct {
	mu      sync.Mutex
	entries []domain.PresenceEntry
}

func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{}
}

// Register inserts the mapping unless the user is already present. A
// duplicate registration keeps the existing entry, so a user that reconnects
// before the old connection is unregistered stays pointed at the old
// connection until its disconnect arrives. Returns the current snapshot.
func (r *PresenceRegistry) Register(userID, connectionID string) []domain.PresenceEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range r.entries {
		if entry.UserID == userID {
			return r.snapshotLocked()
		}
	}

	r.entries = append(r.entries, domain.PresenceEntry{
		UserID:       userID,
		ConnectionID: connectionID,
	})
	return r.snapshotLocked()
}

// Unregister removes every entry held by the given connection and returns
// the updated snapshot. Unknown connection ids are a no-op.
func (r *PresenceRegistry) Unregister(connectionID string) []domain.PresenceEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.entries[:0]
	for _, entry := range r.entries {
		if entry.ConnectionID != connectionID {
			kept = append(kept, entry)
		}
	}
	r.entries = kept
	return r.snapshotLocked()
}

// Resolve reports the connection a user can currently be reached on. A false
// result means the user is offline, not an error.
func (r *PresenceRegistry) Resolve(userID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range r.entries {
		if entry.UserID == userID {
			return entry.ConnectionID, true
		}
	}
	return "", false
}

// Snapshot returns a copy of all entries in registration order.
func (r *PresenceRegistry) Snapshot() []domain.PresenceEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *PresenceRegistry) snapshotLocked() []domain.PresenceEntry {
	snapshot := make([]domain.PresenceEntry, len(r.entries))
	copy(snapshot, r.entries)
	return snapshot
}
