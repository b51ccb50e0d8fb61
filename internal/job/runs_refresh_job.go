package job

import (
	"context"
)

type FeedRefresher interface {
	RefreshFeed(ctx context.Context) error
}

type ContextSource interface {
	Context(ctx context.Context) (context.Context, error)
}

// RunsRefreshJob reloads the shared run list with the service account.
type RunsRefreshJob struct {
	runs   FeedRefresher
	tokens ContextSource
}

func NewRunsRefreshJob(runs FeedRefresher, tokens ContextSource) *RunsRefreshJob {
	return &RunsRefreshJob{runs: runs, tokens: tokens}
}

func (j *RunsRefreshJob) Name() string {
	return "runs_refresh"
}

func (j *RunsRefreshJob) Run(ctx context.Context) error {
	if j.runs == nil || j.tokens == nil {
		return nil
	}
	ctx, err := j.tokens.Context(ctx)
	if err != nil {
		return err
	}
	return j.runs.RefreshFeed(ctx)
}
