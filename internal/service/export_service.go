package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"net/url"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/galasaui/internal/columns"
	"github.com/xxxsen/galasaui/internal/model"
	"github.com/xxxsen/galasaui/internal/pkg/timeutil"
	"github.com/xxxsen/galasaui/internal/runtable"
)

const cleanupBatch = 100

type ExportRepo interface {
	Create(ctx context.Context, ownerID string, item *model.Export) error
	Get(ctx context.Context, ownerID, key string) (*model.Export, error)
	ListBefore(ctx context.Context, cutoff int64, limit uint) ([]string, error)
	Delete(ctx context.Context, key string) error
}

// FileStore is where export files end up.
type FileStore interface {
	Save(ctx context.Context, key string, r io.ReadSeeker, size int64) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// RunFetcher loads every run matching a query.
type RunFetcher interface {
	Fetch(ctx context.Context, values url.Values) ([]model.Run, error)
}

type ExportService struct {
	runs  RunFetcher
	repo  ExportRepo
	store FileStore
	loc   *time.Location
}

func NewExportService(runs RunFetcher, repo ExportRepo, store FileStore, loc *time.Location) *ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ExportService{runs: runs, repo: repo, store: store, loc: loc}
}

// Create writes the runs matching values as CSV, one column per visible
// column of the table design carried in values.
func (s *ExportService) Create(ctx context.Context, ownerID string, values url.Values) (*model.Export, error) {
	runs, err := s.runs.Fetch(ctx, values)
	if err != nil {
		return nil, err
	}
	rows := runtable.Flatten(runs, s.loc)
	data, err := WriteCSV(rows, columns.DesignFromQuery(values).Visible())
	if err != nil {
		return nil, err
	}
	key := newID() + ".csv"
	if err := s.store.Save(ctx, key, bytes.NewReader(data), int64(len(data))); err != nil {
		return nil, err
	}
	item := &model.Export{Key: key, Rows: len(rows), Ctime: timeutil.NowUnix()}
	if err := s.repo.Create(ctx, ownerID, item); err != nil {
		_ = s.store.Delete(ctx, key)
		return nil, err
	}
	item.URL = "/api/v1/exports/" + key
	logutil.GetLogger(ctx).Info("export created", zap.String("key", key), zap.Int("rows", item.Rows))
	return item, nil
}

// Open returns the export file if it belongs to ownerID.
func (s *ExportService) Open(ctx context.Context, ownerID, key string) (io.ReadCloser, error) {
	if _, err := s.repo.Get(ctx, ownerID, key); err != nil {
		return nil, err
	}
	return s.store.Open(ctx, key)
}

// Cleanup removes exports older than maxAge and reports how many went.
func (s *ExportService) Cleanup(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge).Unix()
	removed := 0
	for {
		keys, err := s.repo.ListBefore(ctx, cutoff, cleanupBatch)
		if err != nil {
			return removed, err
		}
		for _, key := range keys {
			if err := s.store.Delete(ctx, key); err != nil {
				return removed, err
			}
			if err := s.repo.Delete(ctx, key); err != nil {
				return removed, err
			}
			removed++
		}
		if len(keys) < cleanupBatch {
			return removed, nil
		}
	}
}

func WriteCSV(rows []runtable.Row, cols []columns.Column) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := make([]string, 0, len(cols))
	for _, col := range cols {
		header = append(header, col.Header)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := make([]string, 0, len(cols))
		for _, col := range cols {
			record = append(record, row.Value(col.Key))
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
