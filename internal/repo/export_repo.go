package repo

import (
	"context"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/galasaui/internal/model"
	"github.com/xxxsen/galasaui/internal/pkg/dbutil"
	appErr "github.com/xxxsen/galasaui/internal/pkg/errors"
)

type ExportRepo struct {
	db *DB
}

func NewExportRepo(db *DB) *ExportRepo {
	return &ExportRepo{db: db}
}

func (r *ExportRepo) Create(ctx context.Context, ownerID string, item *model.Export) error {
	data := map[string]interface{}{
		"file_key":  item.Key,
		"owner_id":  ownerID,
		"row_count": item.Rows,
		"ctime":     item.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("exports", []map[string]interface{}{data})
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

func (r *ExportRepo) Get(ctx context.Context, ownerID, key string) (*model.Export, error) {
	where := map[string]interface{}{"owner_id": ownerID, "file_key": key}
	sqlStr, args, err := builder.BuildSelect("exports", where, []string{"file_key", "row_count", "ctime"})
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
	var item model.Export
	if err := rows.Scan(&item.Key, &item.Rows, &item.Ctime); err != nil {
		return nil, err
	}
	return &item, nil
}

// ListBefore returns the keys of exports created before cutoff.
func (r *ExportRepo) ListBefore(ctx context.Context, cutoff int64, limit uint) ([]string, error) {
	where := map[string]interface{}{
		"ctime <":  cutoff,
		"_orderby": "ctime asc",
		"_limit":   []uint{0, limit},
	}
	sqlStr, args, err := builder.BuildSelect("exports", where, []string{"file_key"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(r.db.Dialect, sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (r *ExportRepo) Delete(ctx context.Context, key string) error {
	sqlStr, args, err := builder.BuildDelete("exports", map[string]interface{}{"file_key": key})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(r.db.Dialect, sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}
