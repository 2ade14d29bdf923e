package session

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/BrasserTech/handluz/internal/client/models"
	"github.com/BrasserTech/handluz/internal/client/repositories/metadata"
	"github.com/BrasserTech/handluz/internal/logging"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL);`)
	require.NoError(t, err)

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewStore(metadata.NewSQLiteRepository(db), log), db
}

func testIdentity() *models.Identity {
	id := &models.Identity{ID: "u1", Email: "a@b.com", FullName: "Ana B"}
	id.ApplyRole(models.RoleBoard)
	return id
}

func TestStore_SaveLoad_RoundTrip(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	s.Save(ctx, testIdentity())

	got, ok := s.Load(ctx)
	require.True(t, ok)
	require.Equal(t, "u1", got.ID)
	require.Equal(t, "a@b.com", got.Email)
	require.Equal(t, models.RoleBoard, got.Role)
	require.True(t, got.IsBoard)
}

func TestStore_Load_NothingSaved(t *testing.T) {
	s, _ := setupStore(t)

	got, ok := s.Load(context.Background())
	require.False(t, ok)
	require.Nil(t, got)
}

func TestStore_Load_CorruptBlobReportsAbsent(t *testing.T) {
	s, db := setupStore(t)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO metadata(key,value) VALUES(?,?)`, Key, []byte("{not json"))
	require.NoError(t, err)

	got, ok := s.Load(ctx)
	require.False(t, ok)
	require.Nil(t, got)
}

func TestStore_Save_OverwritesPrevious(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	s.Save(ctx, testIdentity())

	next := &models.Identity{ID: "u2", Email: "c@d.com"}
	next.ApplyRole(models.RoleUser)
	s.Save(ctx, next)

	got, ok := s.Load(ctx)
	require.True(t, ok)
	require.Equal(t, "u2", got.ID)
	require.Equal(t, models.RoleUser, got.Role)
}

func TestStore_Clear_RemovesAndIsIdempotent(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	s.Save(ctx, testIdentity())
	s.Clear(ctx)

	_, ok := s.Load(ctx)
	require.False(t, ok)

	s.Clear(ctx) // second clear is a no-op
}

// A dead backing store must not surface errors through the façade.
func TestStore_BestEffortOnStorageFailure(t *testing.T) {
	s, db := setupStore(t)
	ctx := context.Background()

	require.NoError(t, db.Close())

	require.NotPanics(t, func() { s.Save(ctx, testIdentity()) })
	require.NotPanics(t, func() { s.Clear(ctx) })

	got, ok := s.Load(ctx)
	require.False(t, ok)
	require.Nil(t, got)
}
