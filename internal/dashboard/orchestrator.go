package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/investimentigrugno/screener/internal/contracts"
	"github.com/investimentigrugno/screener/internal/scoring"
	"github.com/investimentigrugno/screener/internal/selection"
	"github.com/investimentigrugno/screener/pkg/logger"
)

// ErrNoSnapshot is returned before the first successful refresh
var ErrNoSnapshot = errors.New("no snapshot available yet")

// NewsCollector gathers news for a set of picks
type NewsCollector interface {
	Collect(ctx context.Context, picks []contracts.Pick) ([]contracts.NewsItem, error)
}

// SnapshotStore persists published snapshots
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snap *contracts.Snapshot) error
}

// Options holds per-run settings
type Options struct {
	Market      string
	TopN        int
	ProfileHash string
}

// Orchestrator runs the refresh pipeline and holds the latest snapshot
// fetch → score → screen → rank → news → persist → publish
// ⭐ SSOT: refresh coordination lives here only
type Orchestrator struct {
	source   contracts.MarketDataSource
	scorer   *scoring.Scorer
	screener *selection.Screener
	ranker   *selection.Ranker
	news     NewsCollector // optional
	store    SnapshotStore // optional
	options  Options
	logger   *logger.Logger
	now      func() time.Time

	refreshMu sync.Mutex // one refresh at a time
	mu        sync.RWMutex
	latest    *contracts.Snapshot
}

// NewOrchestrator creates a new orchestrator. news and store may be nil.
func NewOrchestrator(
	source contracts.MarketDataSource,
	scorer *scoring.Scorer,
	screener *selection.Screener,
	ranker *selection.Ranker,
	news NewsCollector,
	store SnapshotStore,
	options Options,
	logger *logger.Logger,
) *Orchestrator {
	if options.TopN <= 0 {
		options.TopN = selection.DefaultTopN
	}

	return &Orchestrator{
		source:   source,
		scorer:   scorer,
		screener: screener,
		ranker:   ranker,
		news:     news,
		store:    store,
		options:  options,
		logger:   logger,
		now:      time.Now,
	}
}

// Refresh builds a new snapshot from scratch and publishes it.
// When fetching or scoring fails and an earlier snapshot exists, that
// snapshot is republished marked stale and returned together with the error.
func (o *Orchestrator) Refresh(ctx context.Context) (*contracts.Snapshot, error) {
	o.refreshMu.Lock()
	defer o.refreshMu.Unlock()

	startTime := o.now()
	runID := uuid.NewString()

	o.logger.WithFields(map[string]interface{}{
		"run_id": runID,
		"market": o.options.Market,
	}).Info("Starting refresh")

	snap, err := o.build(ctx, runID, startTime)
	if err != nil {
		return o.markStale(runID, err)
	}

	if o.store != nil {
		if err := o.store.SaveSnapshot(ctx, snap); err != nil {
			o.logger.WithFields(map[string]interface{}{
				"run_id": runID,
				"error":  err.Error(),
			}).Warn("Failed to persist snapshot")
		}
	}

	o.publish(snap)

	o.logger.WithFields(map[string]interface{}{
		"run_id":   runID,
		"scored":   len(snap.Scored),
		"passed":   len(snap.Ranked),
		"picks":    len(snap.Picks),
		"news":     len(snap.News),
		"duration": o.now().Sub(startTime).String(),
	}).Info("Refresh completed")

	return snap, nil
}

// build runs the pipeline without touching the published snapshot
func (o *Orchestrator) build(ctx context.Context, runID string, createdAt time.Time) (*contracts.Snapshot, error) {
	records, err := o.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}

	scored, err := o.scorer.ScoreAll(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("scoring failed: %w", err)
	}

	passed, filtered := o.screener.Screen(scored)
	ranked := o.ranker.Rank(passed)
	picks := o.ranker.TopN(passed, o.options.TopN)

	items := []contracts.NewsItem{}
	if o.news != nil {
		collected, err := o.news.Collect(ctx, picks)
		if err != nil {
			o.logger.WithFields(map[string]interface{}{
				"run_id": runID,
				"error":  err.Error(),
			}).Warn("News unavailable")
		} else {
			items = collected
		}
	}

	return &contracts.Snapshot{
		RunID:       runID,
		CreatedAt:   createdAt,
		Market:      o.options.Market,
		ProfileHash: o.options.ProfileHash,
		Scored:      scored,
		Ranked:      ranked,
		Picks:       picks,
		News:        items,
		Filtered:    filtered,
		TotalInput:  len(records),
	}, nil
}

// markStale republishes the previous snapshot flagged stale
func (o *Orchestrator) markStale(runID string, cause error) (*contracts.Snapshot, error) {
	o.logger.WithFields(map[string]interface{}{
		"run_id": runID,
		"error":  cause.Error(),
	}).Error("Refresh failed")

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.latest == nil {
		return nil, cause
	}

	stale := *o.latest
	stale.Stale = true
	stale.StaleReason = cause.Error()
	o.latest = &stale

	return &stale, cause
}

func (o *Orchestrator) publish(snap *contracts.Snapshot) {
	o.mu.Lock()
	o.latest = snap
	o.mu.Unlock()
}

// Latest returns the current snapshot
func (o *Orchestrator) Latest() (*contracts.Snapshot, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.latest == nil {
		return nil, ErrNoSnapshot
	}
	return o.latest, nil
}

// Top returns the best k screened equities of the current snapshot
func (o *Orchestrator) Top(k int) ([]contracts.Pick, error) {
	snap, err := o.Latest()
	if err != nil {
		return nil, err
	}
	return o.TopOf(snap, k), nil
}

// TopOf returns the best k screened equities of snap
func (o *Orchestrator) TopOf(snap *contracts.Snapshot, k int) []contracts.Pick {
	if snap == nil {
		return []contracts.Pick{}
	}
	passed := make([]contracts.ScoredEquity, len(snap.Ranked))
	for i, re := range snap.Ranked {
		passed[i] = re.ScoredEquity
	}
	return o.ranker.TopN(passed, k)
}

// Options returns the run settings
func (o *Orchestrator) Options() Options {
	return o.options
}
