package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Folio/internal/core/feeds"
	"Folio/internal/db/migrations"
)

// setupSnapshotTestDB connects to TEST_DATABASE_URL and runs migrations
func setupSnapshotTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.FS)
	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(db, "."), "Failed to run migrations")

	return db
}

func cleanupSnapshot(t *testing.T, db *sql.DB, key string) {
	t.Cleanup(func() {
		_, err := db.Exec("DELETE FROM feed_snapshots WHERE key = $1", key)
		assert.NoError(t, err)
	})
}

func TestSnapshotRepo_GetMissing(t *testing.T) {
	db := setupSnapshotTestDB(t)
	repo := NewSnapshotRepository(db)

	_, err := repo.Get(context.Background(), "test:missing")
	assert.ErrorIs(t, err, feeds.ErrSnapshotNotFound)
}

func TestSnapshotRepo_SetAndGet(t *testing.T) {
	db := setupSnapshotTestDB(t)
	repo := NewSnapshotRepository(db)
	ctx := context.Background()
	key := "test:github:repos"
	cleanupSnapshot(t, db, key)

	storedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Set(ctx, key, []byte(`[{"name":"folio"}]`), storedAt))

	snapshot, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, key, snapshot.Key)
	assert.JSONEq(t, `[{"name":"folio"}]`, string(snapshot.Payload))
	assert.True(t, storedAt.Equal(snapshot.StoredAt))

	// newer payload replaces
	later := storedAt.Add(time.Hour)
	require.NoError(t, repo.Set(ctx, key, []byte(`[]`), later))
	snapshot, err = repo.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(snapshot.Payload))

	// older payload is ignored
	require.NoError(t, repo.Set(ctx, key, []byte(`[{"name":"stale"}]`), storedAt))
	snapshot, err = repo.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(snapshot.Payload))
	assert.True(t, later.Equal(snapshot.StoredAt))
}

func TestSnapshotRepo_RejectsInvalidJSON(t *testing.T) {
	db := setupSnapshotTestDB(t)
	repo := NewSnapshotRepository(db)

	err := repo.Set(context.Background(), "test:bad", []byte("not json"), time.Now())
	assert.ErrorContains(t, err, "not valid JSON")
}
