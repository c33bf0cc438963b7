package jobs

import (
	"context"
	"time"

	"github.com/investimentigrugno/screener/pkg/logger"
)

// RunPruner deletes persisted runs older than a cutoff
type RunPruner interface {
	DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RunRetentionJob removes old screener runs from the database
type RunRetentionJob struct {
	pruner    RunPruner
	retention time.Duration
	logger    *logger.Logger
	now       func() time.Time
}

// NewRunRetentionJob creates a new retention job
func NewRunRetentionJob(pruner RunPruner, retention time.Duration, log *logger.Logger) *RunRetentionJob {
	return &RunRetentionJob{
		pruner:    pruner,
		retention: retention,
		logger:    log,
		now:       time.Now,
	}
}

// Name returns the job name
func (j *RunRetentionJob) Name() string {
	return "run_retention"
}

// Schedule returns the cron schedule (daily at 03:30)
func (j *RunRetentionJob) Schedule() string {
	return "0 30 3 * * *"
}

// Run executes the cleanup
func (j *RunRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().Add(-j.retention)

	removed, err := j.pruner.DeleteRunsBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	if removed > 0 {
		j.logger.WithFields(map[string]interface{}{
			"removed": removed,
			"cutoff":  cutoff.Format(time.RFC3339),
		}).Info("Old screener runs removed")
	}

	return nil
}
