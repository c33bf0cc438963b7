package jobs

import (
	"context"
	"fmt"

	"github.com/investimentigrugno/screener/internal/dashboard"
	"github.com/investimentigrugno/screener/pkg/logger"
)

// RefreshJob rebuilds the dashboard snapshot on a schedule
// ⭐ SSOT: the refresh schedule is driven by this job only
type RefreshJob struct {
	orchestrator *dashboard.Orchestrator
	schedule     string
	logger       *logger.Logger
}

// NewRefreshJob creates a new refresh job
func NewRefreshJob(orchestrator *dashboard.Orchestrator, schedule string, log *logger.Logger) *RefreshJob {
	return &RefreshJob{
		orchestrator: orchestrator,
		schedule:     schedule,
		logger:       log,
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "screener_refresh"
}

// Schedule returns the cron schedule (REFRESH_SCHEDULE)
func (j *RefreshJob) Schedule() string {
	return j.schedule
}

// Run executes one refresh
func (j *RefreshJob) Run(ctx context.Context) error {
	snap, err := j.orchestrator.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id": snap.RunID,
		"picks":  len(snap.Picks),
	}).Debug("Scheduled refresh done")

	return nil
}
