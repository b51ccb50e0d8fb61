package runtable

import (
	"context"
	"sync"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/galasaui/internal/model"
)

type LoadState int

const (
	StateLoading LoadState = iota
	StateFailed
	StateReady
)

func (s LoadState) String() string {
	switch s {
	case StateFailed:
		return "failed"
	case StateReady:
		return "ready"
	default:
		return "loading"
	}
}

type FetchFunc func(ctx context.Context) ([]model.Run, error)

type Snapshot struct {
	State     LoadState
	Runs      []model.Run
	Err       error
	UpdatedAt time.Time
}

// Feed holds the most recently fetched run list. Refreshes run one at a
// time, so a result is never overwritten by one that was requested earlier.
type Feed struct {
	refreshMu sync.Mutex

	mu      sync.Mutex
	current Snapshot
}

func NewFeed() *Feed {
	return &Feed{current: Snapshot{State: StateLoading}}
}

// Refresh fetches synchronously and publishes the outcome. A failure
// replaces the list with a Failed snapshot.
func (f *Feed) Refresh(ctx context.Context, fetch FetchFunc) error {
	f.refreshMu.Lock()
	defer f.refreshMu.Unlock()

	runs, err := fetch(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		logutil.GetLogger(ctx).Error("refresh run list failed", zap.Error(err))
		f.current = Snapshot{State: StateFailed, Err: err, UpdatedAt: time.Now()}
		return err
	}
	if runs == nil {
		runs = []model.Run{}
	}
	f.current = Snapshot{State: StateReady, Runs: runs, UpdatedAt: time.Now()}
	return nil
}

func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.current
	if s.Runs != nil {
		runs := make([]model.Run, len(s.Runs))
		copy(runs, s.Runs)
		s.Runs = runs
	}
	return s
}
