package service

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/galasaui/internal/model"
	appErr "github.com/xxxsen/galasaui/internal/pkg/errors"
)

type memExportRepo struct {
	items map[string]model.Export
	owner map[string]string
}

func newMemExportRepo() *memExportRepo {
	return &memExportRepo{items: map[string]model.Export{}, owner: map[string]string{}}
}

func (r *memExportRepo) Create(ctx context.Context, ownerID string, item *model.Export) error {
	r.items[item.Key] = *item
	r.owner[item.Key] = ownerID
	return nil
}

func (r *memExportRepo) Get(ctx context.Context, ownerID, key string) (*model.Export, error) {
	item, ok := r.items[key]
	if !ok || r.owner[key] != ownerID {
		return nil, appErr.ErrNotFound
	}
	return &item, nil
}

func (r *memExportRepo) ListBefore(ctx context.Context, cutoff int64, limit uint) ([]string, error) {
	var keys []string
	for k, v := range r.items {
		if v.Ctime < cutoff && uint(len(keys)) < limit {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (r *memExportRepo) Delete(ctx context.Context, key string) error {
	delete(r.items, key)
	return nil
}

type memFileStore map[string][]byte

func (m memFileStore) Save(ctx context.Context, key string, r io.ReadSeeker, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m[key] = data
	return nil
}

func (m memFileStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := m[key]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m memFileStore) Delete(ctx context.Context, key string) error {
	delete(m, key)
	return nil
}

type staticRuns []model.Run

func (s staticRuns) Fetch(ctx context.Context, values url.Values) ([]model.Run, error) {
	return s, nil
}

func TestExportServiceCreateAndOpen(t *testing.T) {
	runs := staticRuns{{
		RunID: "r1",
		TestStructure: &model.TestStructure{
			RunName:  "U1",
			TestName: "dev.galasa.Simbank",
			Status:   "finished",
			Result:   "Passed",
		},
	}}
	repo := newMemExportRepo()
	store := memFileStore{}
	svc := NewExportService(runs, repo, store, time.UTC)

	values := url.Values{"columnsOrder": {"runName,result"}, "visibleColumns": {"runName,result"}}
	item, err := svc.Create(context.Background(), "alice", values)
	require.NoError(t, err)
	require.Equal(t, 1, item.Rows)
	require.Equal(t, "/api/v1/exports/"+item.Key, item.URL)

	rc, err := svc.Open(context.Background(), "alice", item.Key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "Test Run Name,Result\nU1,Passed\n", string(data))

	_, err = svc.Open(context.Background(), "bob", item.Key)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestExportServiceCleanup(t *testing.T) {
	repo := newMemExportRepo()
	store := memFileStore{"old.csv": []byte("x"), "new.csv": []byte("y")}
	repo.items["old.csv"] = model.Export{Key: "old.csv", Ctime: time.Now().Add(-48 * time.Hour).Unix()}
	repo.items["new.csv"] = model.Export{Key: "new.csv", Ctime: time.Now().Unix()}
	svc := NewExportService(staticRuns{}, repo, store, nil)

	removed, err := svc.Cleanup(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	require.Equal(t, 1, removed)
	require.NotContains(t, store, "old.csv")
	require.Contains(t, store, "new.csv")
}
