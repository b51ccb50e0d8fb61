package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

type stubTokens struct {
	err error
}

func (s stubTokens) Context(ctx context.Context) (context.Context, error) {
	if s.err != nil {
		return nil, s.err
	}
	return context.WithValue(ctx, ctxKey{}, "bearer"), nil
}

type stubRuns struct {
	refreshed bool
	warmed    bool
	bearer    interface{}
}

func (s *stubRuns) RefreshFeed(ctx context.Context) error {
	s.refreshed = true
	s.bearer = ctx.Value(ctxKey{})
	return nil
}

func (s *stubRuns) WarmOptions(ctx context.Context) error {
	s.warmed = true
	s.bearer = ctx.Value(ctxKey{})
	return nil
}

type stubCleaner struct {
	maxAge time.Duration
}

func (s *stubCleaner) Cleanup(ctx context.Context, maxAge time.Duration) (int, error) {
	s.maxAge = maxAge
	return 2, nil
}

func TestRunsRefreshJob(t *testing.T) {
	runs := &stubRuns{}
	job := NewRunsRefreshJob(runs, stubTokens{})
	require.Equal(t, "runs_refresh", job.Name())
	require.NoError(t, job.Run(context.Background()))
	require.True(t, runs.refreshed)
	require.Equal(t, "bearer", runs.bearer)

	failing := NewRunsRefreshJob(&stubRuns{}, stubTokens{err: errors.New("expired")})
	require.Error(t, failing.Run(context.Background()))

	require.NoError(t, NewRunsRefreshJob(runs, nil).Run(context.Background()))
}

func TestOptionsWarmupJob(t *testing.T) {
	runs := &stubRuns{}
	require.NoError(t, NewOptionsWarmupJob(runs, stubTokens{}).Run(context.Background()))
	require.True(t, runs.warmed)
}

func TestExportCleanupJobDefaultsMaxAge(t *testing.T) {
	cleaner := &stubCleaner{}
	require.NoError(t, NewExportCleanupJob(cleaner, 0).Run(context.Background()))
	require.Equal(t, 24*time.Hour, cleaner.maxAge)
}
