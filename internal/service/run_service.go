package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xxxsen/galasaui/internal/criteria"
	"github.com/xxxsen/galasaui/internal/galasaapi"
	"github.com/xxxsen/galasaui/internal/model"
	"github.com/xxxsen/galasaui/internal/optcache"
	appErr "github.com/xxxsen/galasaui/internal/pkg/errors"
	"github.com/xxxsen/galasaui/internal/runtable"
)

const (
	ParamFrom = "from"
	ParamTo   = "to"

	DefaultTimeFrame = 24 * time.Hour
	MaxRangeMonths   = 3

	optionRequestors  = "requestors"
	optionResultNames = "resultnames"
)

type RunService struct {
	api        RunsAPI
	options    *optcache.Cache
	feed       *runtable.Feed
	maxRecords int
	now        func() time.Time
}

func NewRunService(api RunsAPI, options *optcache.Cache, maxRecords int) *RunService {
	return &RunService{
		api:        api,
		options:    options,
		feed:       runtable.NewFeed(),
		maxRecords: maxRecords,
		now:        time.Now,
	}
}

// Query turns URL parameters into a run query. Without from/to the last 24
// hours are searched; a window longer than three months is rejected.
func (s *RunService) Query(values url.Values) (galasaapi.RunQuery, error) {
	now := s.now()
	q := galasaapi.RunQuery{
		From:         now.Add(-DefaultTimeFrame),
		RunName:      strings.TrimSpace(values.Get(criteria.KeyRunName)),
		Requestor:    strings.TrimSpace(values.Get(criteria.KeyRequestor)),
		Group:        strings.TrimSpace(values.Get(criteria.KeyGroup)),
		Bundle:       strings.TrimSpace(values.Get(criteria.KeyBundle)),
		SubmissionID: strings.TrimSpace(values.Get(criteria.KeySubmissionID)),
		TestName:     strings.TrimSpace(values.Get(criteria.KeyTestName)),
		Tags:         strings.TrimSpace(values.Get(criteria.KeyTags)),
		Statuses:     lower(criteria.SplitList(values.Get(criteria.KeyStatus))),
		Results:      criteria.SplitList(values.Get(criteria.KeyResult)),
		Size:         100,
	}
	if raw := values.Get(ParamFrom); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return q, fmt.Errorf("parse from: %w", appErr.ErrInvalid)
		}
		q.From = from
	}
	if raw := values.Get(ParamTo); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return q, fmt.Errorf("parse to: %w", appErr.ErrInvalid)
		}
		q.To = to
	}
	end := q.To
	if end.IsZero() {
		end = now
	}
	if q.From.After(end) {
		return q, fmt.Errorf("from is after to: %w", appErr.ErrInvalid)
	}
	if q.From.Before(end.AddDate(0, -MaxRangeMonths, 0)) {
		return q, fmt.Errorf("time frame exceeds three months: %w", appErr.ErrInvalid)
	}
	return q, nil
}

// IsDefaultQuery reports whether values carry no search criteria, in which
// case the shared feed answers.
func IsDefaultQuery(values url.Values) bool {
	if values.Get(ParamFrom) != "" || values.Get(ParamTo) != "" {
		return false
	}
	for _, key := range criteria.Keys() {
		if strings.TrimSpace(values.Get(key)) != "" {
			return false
		}
	}
	return true
}

func (s *RunService) Fetch(ctx context.Context, values url.Values) ([]model.Run, error) {
	q, err := s.Query(values)
	if err != nil {
		return nil, err
	}
	return s.api.GetAllRuns(ctx, q, s.maxRecords)
}

// Load returns the run list for values as a snapshot. A failed fetch is a
// Failed snapshot, not an error, so the page can show it.
func (s *RunService) Load(ctx context.Context, values url.Values) runtable.Snapshot {
	if IsDefaultQuery(values) {
		if snap := s.feed.Snapshot(); snap.State == runtable.StateReady {
			return snap
		}
	}
	runs, err := s.Fetch(ctx, values)
	if err != nil {
		logutil.GetLogger(ctx).Error("fetch test runs failed", zap.Error(err))
		return runtable.Snapshot{State: runtable.StateFailed, Err: err, UpdatedAt: s.now()}
	}
	return runtable.Snapshot{State: runtable.StateReady, Runs: runs, UpdatedAt: s.now()}
}

type PageData struct {
	Snapshot    runtable.Snapshot
	Requestors  []string
	ResultNames []string
}

// LoadPage fetches the runs and both option lists in parallel. Option
// failures leave the lists empty and never fail the page.
func (s *RunService) LoadPage(ctx context.Context, values url.Values) PageData {
	var data PageData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data.Snapshot = s.Load(gctx, values)
		return nil
	})
	g.Go(func() error {
		items, err := s.Requestors(gctx)
		if err != nil {
			logutil.GetLogger(ctx).Warn("load requestors failed", zap.Error(err))
			return nil
		}
		data.Requestors = items
		return nil
	})
	g.Go(func() error {
		items, err := s.ResultNames(gctx)
		if err != nil {
			logutil.GetLogger(ctx).Warn("load result names failed", zap.Error(err))
			return nil
		}
		data.ResultNames = items
		return nil
	})
	_ = g.Wait()
	return data
}

func (s *RunService) Get(ctx context.Context, runID string) (*model.Run, error) {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return nil, appErr.ErrInvalid
	}
	return s.api.GetRunByID(ctx, runID)
}

func (s *RunService) Requestors(ctx context.Context) ([]string, error) {
	return s.options.Get(ctx, optionRequestors, s.api.GetRequestors)
}

func (s *RunService) ResultNames(ctx context.Context) ([]string, error) {
	return s.options.Get(ctx, optionResultNames, s.api.GetResultNames)
}

// Sources binds the criteria option lists to the cache.
func (s *RunService) Sources() criteria.Sources {
	return criteria.Sources{
		Requestors:  s.Requestors,
		ResultNames: s.ResultNames,
	}
}

// RefreshFeed reloads the shared run list for the default time frame.
func (s *RunService) RefreshFeed(ctx context.Context) error {
	return s.feed.Refresh(ctx, func(ctx context.Context) ([]model.Run, error) {
		return s.Fetch(ctx, url.Values{})
	})
}

// WarmOptions reloads both option lists.
func (s *RunService) WarmOptions(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.options.Refresh(gctx, optionRequestors, s.api.GetRequestors)
	})
	g.Go(func() error {
		return s.options.Refresh(gctx, optionResultNames, s.api.GetResultNames)
	})
	return g.Wait()
}

func lower(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, strings.ToLower(item))
	}
	return out
}
