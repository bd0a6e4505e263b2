package feeds

import (
	"context"
	"time"
)

// Snapshot is the last good payload stored for a feed key.
type Snapshot struct {
	StoredAt time.Time
	Key      string
	Payload  []byte // JSON encoded display records
}

// SnapshotRepository persists the last good payload per feed key so a cold
// process can still serve real data when a provider is down.
type SnapshotRepository interface {
	// Get returns the snapshot for key.
	// Returns ErrSnapshotNotFound if nothing has been stored yet.
	Get(ctx context.Context, key string) (*Snapshot, error)

	// Set stores payload for key, replacing any previous snapshot.
	Set(ctx context.Context, key string, payload []byte, storedAt time.Time) error
}
