package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/xxxsen/galasaui/internal/model"
	appErr "github.com/xxxsen/galasaui/internal/pkg/errors"
	"github.com/xxxsen/galasaui/internal/pkg/timeutil"
)

type SavedQueryRepo interface {
	List(ctx context.Context, ownerID string) ([]model.SavedQuery, error)
	Create(ctx context.Context, item *model.SavedQuery) error
	Delete(ctx context.Context, ownerID, id string) error
}

type SavedQueryService struct {
	repo SavedQueryRepo
}

func NewSavedQueryService(repo SavedQueryRepo) *SavedQueryService {
	return &SavedQueryService{repo: repo}
}

func (s *SavedQueryService) List(ctx context.Context, ownerID string) ([]model.SavedQuery, error) {
	return s.repo.List(ctx, ownerID)
}

type SavedQueryCreateInput struct {
	Name  string
	Query string
}

// Create stores a query string under a name. The page number is not part of
// a saved query.
func (s *SavedQueryService) Create(ctx context.Context, ownerID string, input SavedQueryCreateInput) (*model.SavedQuery, error) {
	name := strings.TrimSpace(input.Name)
	if ownerID == "" || name == "" || len([]rune(name)) > 64 {
		return nil, appErr.ErrInvalid
	}
	values, err := url.ParseQuery(strings.TrimPrefix(strings.TrimSpace(input.Query), "?"))
	if err != nil {
		return nil, appErr.ErrInvalid
	}
	values.Del("page")
	now := timeutil.NowUnix()
	item := &model.SavedQuery{
		ID:      newID(),
		OwnerID: ownerID,
		Name:    name,
		Query:   values.Encode(),
		Ctime:   now,
		Mtime:   now,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *SavedQueryService) Delete(ctx context.Context, ownerID, id string) error {
	if strings.TrimSpace(id) == "" {
		return appErr.ErrInvalid
	}
	return s.repo.Delete(ctx, ownerID, id)
}
