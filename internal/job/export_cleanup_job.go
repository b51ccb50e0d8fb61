package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type ExportCleaner interface {
	Cleanup(ctx context.Context, maxAge time.Duration) (int, error)
}

type ExportCleanupJob struct {
	exports ExportCleaner
	maxAge  time.Duration
}

func NewExportCleanupJob(exports ExportCleaner, maxAge time.Duration) *ExportCleanupJob {
	return &ExportCleanupJob{exports: exports, maxAge: maxAge}
}

func (j *ExportCleanupJob) Name() string {
	return "export_cleanup"
}

func (j *ExportCleanupJob) Run(ctx context.Context) error {
	if j.exports == nil {
		return nil
	}
	maxAge := j.maxAge
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	removed, err := j.exports.Cleanup(ctx, maxAge)
	if removed > 0 {
		logutil.GetLogger(ctx).Info("expired exports removed", zap.Int("count", removed))
	}
	return err
}
