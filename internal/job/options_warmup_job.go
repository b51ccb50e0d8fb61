package job

import (
	"context"
)

type OptionWarmer interface {
	WarmOptions(ctx context.Context) error
}

type OptionsWarmupJob struct {
	runs   OptionWarmer
	tokens ContextSource
}

func NewOptionsWarmupJob(runs OptionWarmer, tokens ContextSource) *OptionsWarmupJob {
	return &OptionsWarmupJob{runs: runs, tokens: tokens}
}

func (j *OptionsWarmupJob) Name() string {
	return "options_warmup"
}

func (j *OptionsWarmupJob) Run(ctx context.Context) error {
	if j.runs == nil || j.tokens == nil {
		return nil
	}
	ctx, err := j.tokens.Context(ctx)
	if err != nil {
		return err
	}
	return j.runs.WarmOptions(ctx)
}
