package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"Folio/internal/core/feeds"
)

// invalidTextRepresentation is the Postgres error code for a malformed JSONB literal
const invalidTextRepresentation = "22P02"

type postgresSnapshotRepo struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new PostgreSQL feed snapshot repository
func NewSnapshotRepository(db *sql.DB) feeds.SnapshotRepository {
	return &postgresSnapshotRepo{db: db}
}

// Get retrieves the last stored payload for a feed key
func (r *postgresSnapshotRepo) Get(ctx context.Context, key string) (*feeds.Snapshot, error) {
	snapshot := &feeds.Snapshot{}
	query := `SELECT key, payload, stored_at FROM feed_snapshots WHERE key = $1`

	err := r.db.QueryRowContext(ctx, query, key).
		Scan(&snapshot.Key, &snapshot.Payload, &snapshot.StoredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, feeds.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed snapshot %s: %w", key, err)
	}

	return snapshot, nil
}

// Set upserts the payload for a feed key. An older storedAt never replaces a newer one,
// so overlapping refreshes settle on the latest payload.
func (r *postgresSnapshotRepo) Set(ctx context.Context, key string, payload []byte, storedAt time.Time) error {
	query := `
		INSERT INTO feed_snapshots (key, payload, stored_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET payload = EXCLUDED.payload, stored_at = EXCLUDED.stored_at
		WHERE feed_snapshots.stored_at <= EXCLUDED.stored_at`

	_, err := r.db.ExecContext(ctx, query, key, string(payload), storedAt.UTC())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == invalidTextRepresentation {
			return fmt.Errorf("feed snapshot %s payload is not valid JSON: %w", key, err)
		}
		return fmt.Errorf("failed to store feed snapshot %s: %w", key, err)
	}

	return nil
}
