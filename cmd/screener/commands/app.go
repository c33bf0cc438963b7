package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/investimentigrugno/screener/internal/api/handlers"
	"github.com/investimentigrugno/screener/internal/contracts"
	"github.com/investimentigrugno/screener/internal/dashboard"
	"github.com/investimentigrugno/screener/internal/external/finnhub"
	"github.com/investimentigrugno/screener/internal/external/tradingview"
	"github.com/investimentigrugno/screener/internal/external/translate"
	"github.com/investimentigrugno/screener/internal/news"
	"github.com/investimentigrugno/screener/internal/scheduler"
	"github.com/investimentigrugno/screener/internal/scheduler/jobs"
	"github.com/investimentigrugno/screener/internal/scoring"
	"github.com/investimentigrugno/screener/internal/selection"
	"github.com/investimentigrugno/screener/internal/strategyconfig"
	"github.com/investimentigrugno/screener/migrations"
	"github.com/investimentigrugno/screener/pkg/config"
	"github.com/investimentigrugno/screener/pkg/database"
	"github.com/investimentigrugno/screener/pkg/httputil"
	"github.com/investimentigrugno/screener/pkg/logger"
	"github.com/investimentigrugno/screener/pkg/redis"
)

// refreshTimeout bounds a refresh started from the command line
const refreshTimeout = 5 * time.Minute

// app holds every wired dependency shared by the subcommands
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	db      *database.DB  // nil when DATABASE_URL is empty
	redis   *redis.Client // disabled client falls back to go-cache
	profile *strategyconfig.Config

	newsSource   contracts.NewsSource // nil without FINNHUB_API_KEY
	newsService  *news.Service        // nil without FINNHUB_API_KEY
	repo         *selection.Repository
	orchestrator *dashboard.Orchestrator
}

// newApp loads config and wires the refresh pipeline.
// Persistence and news are optional and stay unset when not configured.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg)
	a := &app{cfg: cfg, log: log}

	// 1. Screen profile
	if cfg.ProfilePath != "" {
		profile, _, err := strategyconfig.Load(cfg.ProfilePath)
		if err != nil {
			return nil, fmt.Errorf("load profile %s: %w", cfg.ProfilePath, err)
		}
		for _, w := range strategyconfig.Warn(profile) {
			log.WithFields(map[string]interface{}{
				"code": w.Code,
			}).Warn(w.Message)
		}
		a.profile = profile
	}

	// 2. Redis (optional)
	a.redis, err = redis.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	cache := redis.NewCache(a.redis, "screener")

	// 3. Database (optional)
	db, err := database.New(ctx, cfg)
	switch {
	case errors.Is(err, database.ErrNotConfigured):
		log.Info("DATABASE_URL not set, runs will not be persisted")
	case err != nil:
		a.close()
		return nil, fmt.Errorf("connect to database: %w", err)
	default:
		a.db = db
		applied, err := migrations.Apply(ctx, db.Pool)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		log.WithField("migrations", applied).Info("Connected to database")
		a.repo = selection.NewRepository(db.Pool)
	}

	// 4. External clients
	httpClient := httputil.New(log, cfg.TradingView.Timeout)
	scanHTTP := httputil.New(log, cfg.TradingView.Timeout).
		WithRateLimiter(redis.NewRateLimiter(a.redis, "screener"), redis.TradingViewRateLimit(cfg.TradingView.RatePerMin))
	tv := tradingview.NewClient(scanHTTP, cache, cfg, log)

	var source contracts.MarketDataSource = tv
	market := tv.Market()
	if a.profile != nil {
		q := a.profile.ScanQuery()
		source = tv.Source(q)
		market = q.Market
	}

	if cfg.Finnhub.APIKey != "" {
		a.newsSource = finnhub.NewClient(httpClient, cache, cfg, log)
	} else {
		log.Info("FINNHUB_API_KEY not set, news disabled")
	}

	// 5. Scoring and selection
	weights := scoring.DefaultWeights()
	screenerConfig := selection.DefaultScreenerConfig()
	newsConfig := news.Config{
		MarketCount:     cfg.Refresh.NewsCount,
		PerPick:         news.DefaultConfig().PerPick,
		CompanyNewsDays: cfg.Refresh.CompanyNewsDays,
		Language:        cfg.Translate.Language,
	}
	options := dashboard.Options{
		Market: market,
		TopN:   cfg.Refresh.TopN,
	}

	if a.profile != nil {
		weights = a.profile.Weights()
		screenerConfig = a.profile.ScreenerConfig()
		newsConfig = a.profile.NewsConfig()
		if newsConfig.Language == "" {
			newsConfig.Language = cfg.Translate.Language
		}
		options.TopN = a.profile.Selection.TopN
		if options.ProfileHash, err = strategyconfig.Hash(a.profile); err != nil {
			a.close()
			return nil, fmt.Errorf("hash profile: %w", err)
		}
	}

	scorer, err := scoring.NewScorer(weights, log)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("create scorer: %w", err)
	}

	// nil interfaces, not typed nils, when the optional parts are missing
	var collector dashboard.NewsCollector
	if a.newsSource != nil {
		a.newsService = news.NewService(a.newsSource, newsConfig, log)
		if cfg.Translate.Enabled && newsConfig.Language != "" {
			a.newsService.WithTranslator(translate.NewClient(httpClient, cache, cfg, log))
			log.WithField("language", newsConfig.Language).Info("News translation enabled")
		}
		collector = a.newsService
	}
	var store dashboard.SnapshotStore
	if a.repo != nil {
		store = a.repo
	}

	a.orchestrator = dashboard.NewOrchestrator(
		source,
		scorer,
		selection.NewScreener(screenerConfig, log),
		selection.NewRanker(log),
		collector,
		store,
		options,
		log,
	)

	return a, nil
}

// runHistory returns the run store for the API, or nil without a database
func (a *app) runHistory() handlers.RunHistory {
	if a.repo == nil {
		return nil
	}
	return a.repo
}

// newScheduler registers the refresh job and, with a database, run retention
func (a *app) newScheduler() (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log, scheduler.DefaultOptions())

	if err := sched.AddJob(jobs.NewRefreshJob(a.orchestrator, a.cfg.Refresh.Schedule, a.log)); err != nil {
		return nil, fmt.Errorf("add refresh job: %w", err)
	}

	if a.repo != nil && a.cfg.Refresh.RunRetention > 0 {
		if err := sched.AddJob(jobs.NewRunRetentionJob(a.repo, a.cfg.Refresh.RunRetention, a.log)); err != nil {
			return nil, fmt.Errorf("add retention job: %w", err)
		}
	}

	return sched, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
