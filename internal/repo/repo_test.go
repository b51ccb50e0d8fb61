package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/galasaui/internal/config"
	"github.com/xxxsen/galasaui/internal/model"
	appErr "github.com/xxxsen/galasaui/internal/pkg/errors"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, ApplyMigrations(db))
	// applying twice is harmless
	require.NoError(t, ApplyMigrations(db))
	return db
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "mysql"})
	require.Error(t, err)
}

func TestSavedQueryRepo(t *testing.T) {
	ctx := context.Background()
	r := NewSavedQueryRepo(openTestDB(t))

	first := &model.SavedQuery{ID: "q1", OwnerID: "alice", Name: "failures", Query: "status=Failed", Ctime: 10, Mtime: 10}
	second := &model.SavedQuery{ID: "q2", OwnerID: "alice", Name: "mine", Query: "requestor=alice", Ctime: 20, Mtime: 20}
	other := &model.SavedQuery{ID: "q3", OwnerID: "bob", Name: "failures", Query: "status=Failed", Ctime: 30, Mtime: 30}
	require.NoError(t, r.Create(ctx, first))
	require.NoError(t, r.Create(ctx, second))
	require.NoError(t, r.Create(ctx, other))

	dup := &model.SavedQuery{ID: "q4", OwnerID: "alice", Name: "failures", Query: "x=y", Ctime: 40, Mtime: 40}
	require.ErrorIs(t, r.Create(ctx, dup), appErr.ErrConflict)

	items, err := r.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "q2", items[0].ID)
	require.Equal(t, "q1", items[1].ID)

	require.NoError(t, r.UpdateQuery(ctx, "alice", "q1", "status=Hung", 50))
	got, err := r.Get(ctx, "alice", "q1")
	require.NoError(t, err)
	require.Equal(t, "status=Hung", got.Query)
	require.EqualValues(t, 50, got.Mtime)

	_, err = r.Get(ctx, "bob", "q1")
	require.ErrorIs(t, err, appErr.ErrNotFound)

	require.ErrorIs(t, r.Delete(ctx, "bob", "q1"), appErr.ErrNotFound)
	require.NoError(t, r.Delete(ctx, "alice", "q1"))
	items, err = r.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestExportRepo(t *testing.T) {
	ctx := context.Background()
	r := NewExportRepo(openTestDB(t))

	require.NoError(t, r.Create(ctx, "alice", &model.Export{Key: "a.csv", Rows: 3, Ctime: 100}))
	require.NoError(t, r.Create(ctx, "alice", &model.Export{Key: "b.csv", Rows: 1, Ctime: 200}))
	require.NoError(t, r.Create(ctx, "bob", &model.Export{Key: "c.csv", Rows: 7, Ctime: 300}))

	got, err := r.Get(ctx, "alice", "a.csv")
	require.NoError(t, err)
	require.Equal(t, 3, got.Rows)
	_, err = r.Get(ctx, "bob", "a.csv")
	require.ErrorIs(t, err, appErr.ErrNotFound)

	keys, err := r.ListBefore(ctx, 250, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"a.csv", "b.csv"}, keys)

	keys, err = r.ListBefore(ctx, 250, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"a.csv"}, keys)

	require.NoError(t, r.Delete(ctx, "a.csv"))
	keys, err = r.ListBefore(ctx, 250, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"b.csv"}, keys)
}
