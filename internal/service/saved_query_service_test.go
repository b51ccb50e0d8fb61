package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/galasaui/internal/model"
	appErr "github.com/xxxsen/galasaui/internal/pkg/errors"
)

type memSavedQueryRepo struct {
	items []model.SavedQuery
}

func (r *memSavedQueryRepo) List(ctx context.Context, ownerID string) ([]model.SavedQuery, error) {
	var out []model.SavedQuery
	for _, item := range r.items {
		if item.OwnerID == ownerID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memSavedQueryRepo) Create(ctx context.Context, item *model.SavedQuery) error {
	r.items = append(r.items, *item)
	return nil
}

func (r *memSavedQueryRepo) Delete(ctx context.Context, ownerID, id string) error {
	for i, item := range r.items {
		if item.ID == id && item.OwnerID == ownerID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return appErr.ErrNotFound
}

func TestSavedQueryServiceCreate(t *testing.T) {
	repo := &memSavedQueryRepo{}
	svc := NewSavedQueryService(repo)
	ctx := context.Background()

	item, err := svc.Create(ctx, "alice", SavedQueryCreateInput{Name: " failures ", Query: "?status=Failed&page=4"})
	require.NoError(t, err)
	require.Equal(t, "failures", item.Name)
	require.Equal(t, "status=Failed", item.Query)
	require.Len(t, item.ID, 32)

	_, err = svc.Create(ctx, "alice", SavedQueryCreateInput{Name: "", Query: "a=b"})
	require.ErrorIs(t, err, appErr.ErrInvalid)
	_, err = svc.Create(ctx, "alice", SavedQueryCreateInput{Name: "bad", Query: "%zz"})
	require.ErrorIs(t, err, appErr.ErrInvalid)

	items, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.ErrorIs(t, svc.Delete(ctx, "alice", ""), appErr.ErrInvalid)
	require.NoError(t, svc.Delete(ctx, "alice", item.ID))
}
