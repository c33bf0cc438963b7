package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/investimentigrugno/screener/internal/contracts"
)

// ErrNoRuns is returned when no refresh run has been persisted yet
var ErrNoRuns = errors.New("no screener runs found")

// Repository handles screener run persistence
// ⭐ SSOT: screener run storage/retrieval lives here only
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new selection repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveSnapshot stores a run with its scored equities and picks in one transaction
func (r *Repository) SaveSnapshot(ctx context.Context, snap *contracts.Snapshot) error {
	filteredJSON, err := json.Marshal(snap.Filtered)
	if err != nil {
		return fmt.Errorf("failed to marshal filtered: %w", err)
	}

	var topScore float64
	if len(snap.Ranked) > 0 {
		topScore = snap.Ranked[0].InvestmentScore
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO screener.runs (
			run_id, created_at, market, profile_hash,
			total_input, total_scored, total_passed, top_score, filtered
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, snap.RunID, snap.CreatedAt, snap.Market, snap.ProfileHash,
		snap.TotalInput, len(snap.Scored), len(snap.Ranked), topScore, filteredJSON)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	batch := &pgx.Batch{}
	for _, se := range snap.Scored {
		recordJSON, err := json.Marshal(se.Record)
		if err != nil {
			return fmt.Errorf("failed to marshal record %s: %w", se.Record.Symbol, err)
		}
		batch.Queue(`
			INSERT INTO screener.scored_equities (
				run_id, symbol, investment_score,
				rsi_score, macd_score, trend_score, tech_rating_score,
				volatility_score, market_cap_score, record
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, snap.RunID, se.Record.Symbol, se.InvestmentScore,
			se.Scores.RSI, se.Scores.MACD, se.Scores.Trend, se.Scores.TechRating,
			se.Scores.Volatility, se.Scores.MarketCap, recordJSON)
	}

	for _, p := range snap.Picks {
		equityJSON, err := json.Marshal(p.Equity)
		if err != nil {
			return fmt.Errorf("failed to marshal pick %s: %w", p.Equity.Record.Symbol, err)
		}
		batch.Queue(`
			INSERT INTO screener.top_picks (
				run_id, rank, symbol, investment_score, reasons, rationale, equity
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, snap.RunID, p.Rank, p.Equity.Record.Symbol, p.Equity.InvestmentScore,
			p.Reasons, p.Rationale, equityJSON)
	}

	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert run rows: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetLatestPicks retrieves the picks of the most recent run
func (r *Repository) GetLatestPicks(ctx context.Context, limit int) ([]contracts.Pick, error) {
	query := `
		SELECT p.rank, p.reasons, p.rationale, p.equity
		FROM screener.top_picks p
		WHERE p.run_id = (
			SELECT run_id FROM screener.runs ORDER BY created_at DESC LIMIT 1
		)
		ORDER BY p.rank ASC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top picks: %w", err)
	}
	defer rows.Close()

	picks := make([]contracts.Pick, 0)

	for rows.Next() {
		var p contracts.Pick
		var equityJSON []byte
		if err := rows.Scan(&p.Rank, &p.Reasons, &p.Rationale, &equityJSON); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if err := json.Unmarshal(equityJSON, &p.Equity); err != nil {
			return nil, fmt.Errorf("failed to unmarshal equity: %w", err)
		}
		picks = append(picks, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return picks, nil
}

// GetRunHistory retrieves the most recent runs, newest first
func (r *Repository) GetRunHistory(ctx context.Context, limit int) ([]contracts.RunSummary, error) {
	query := `
		SELECT run_id::text, created_at, market, profile_hash,
		       total_input, total_scored, total_passed, top_score
		FROM screener.runs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}

	runs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (contracts.RunSummary, error) {
		var s contracts.RunSummary
		err := row.Scan(&s.RunID, &s.CreatedAt, &s.Market, &s.ProfileHash,
			&s.TotalInput, &s.TotalScored, &s.TotalPassed, &s.TopScore)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan runs: %w", err)
	}

	return runs, nil
}

// GetRun retrieves a single run summary
func (r *Repository) GetRun(ctx context.Context, runID string) (*contracts.RunSummary, error) {
	query := `
		SELECT run_id::text, created_at, market, profile_hash,
		       total_input, total_scored, total_passed, top_score
		FROM screener.runs
		WHERE run_id = $1
	`

	var s contracts.RunSummary
	err := r.pool.QueryRow(ctx, query, runID).Scan(
		&s.RunID, &s.CreatedAt, &s.Market, &s.ProfileHash,
		&s.TotalInput, &s.TotalScored, &s.TotalPassed, &s.TopScore,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", runID, ErrNoRuns)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return &s, nil
}

// DeleteRunsBefore removes runs created before cutoff. Rows cascade.
func (r *Repository) DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM screener.runs WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old runs: %w", err)
	}
	return tag.RowsAffected(), nil
}
