package repo

import (
	"context"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/galasaui/internal/model"
	"github.com/xxxsen/galasaui/internal/pkg/dbutil"
	appErr "github.com/xxxsen/galasaui/internal/pkg/errors"
)

var savedQueryFields = []string{"id", "owner_id", "name", "query", "ctime", "mtime"}

type SavedQueryRepo struct {
	db *DB
}

func NewSavedQueryRepo(db *DB) *SavedQueryRepo {
	return &SavedQueryRepo{db: db}
}

func (r *SavedQueryRepo) List(ctx context.Context, ownerID string) ([]model.SavedQuery, error) {
	where := map[string]interface{}{
		"owner_id": ownerID,
		"_orderby": "mtime desc",
	}
	sqlStr, args, err := builder.BuildSelect("saved_queries", where, savedQueryFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(r.db.Dialect, sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := make([]model.SavedQuery, 0)
	for rows.Next() {
		var item model.SavedQuery
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.Name, &item.Query, &item.Ctime, &item.Mtime); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *SavedQueryRepo) Get(ctx context.Context, ownerID, id string) (*model.SavedQuery, error) {
	where := map[string]interface{}{"owner_id": ownerID, "id": id}
	sqlStr, args, err := builder.BuildSelect("saved_queries", where, savedQueryFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(r.db.Dialect, sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	var item model.SavedQuery
	if err := rows.Scan(&item.ID, &item.OwnerID, &item.Name, &item.Query, &item.Ctime, &item.Mtime); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *SavedQueryRepo) Create(ctx context.Context, item *model.SavedQuery) error {
	data := map[string]interface{}{
		"id":       item.ID,
		"owner_id": item.OwnerID,
		"name":     item.Name,
		"query":    item.Query,
		"ctime":    item.Ctime,
		"mtime":    item.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("saved_queries", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(r.db.Dialect, sqlStr, args)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *SavedQueryRepo) UpdateQuery(ctx context.Context, ownerID, id, query string, mtime int64) error {
	where := map[string]interface{}{"owner_id": ownerID, "id": id}
	update := map[string]interface{}{"query": query, "mtime": mtime}
	sqlStr, args, err := builder.BuildUpdate("saved_queries", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(r.db.Dialect, sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *SavedQueryRepo) Delete(ctx context.Context, ownerID, id string) error {
	sqlStr, args, err := builder.BuildDelete("saved_queries", map[string]interface{}{
		"id":       id,
		"owner_id": ownerID,
	})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(r.db.Dialect, sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}
