package selection

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investimentigrugno/screener/internal/contracts"
	"github.com/investimentigrugno/screener/migrations"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" || testing.Short() {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err, "database connection failed")
	t.Cleanup(pool.Close)

	_, err = migrations.Apply(ctx, pool)
	require.NoError(t, err)

	return pool
}

func TestRepository_SaveAndRead(t *testing.T) {
	pool := testPool(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	aapl := scoredWith("AAPL", 82.5)
	msft := scoredWith("MSFT", 71)
	snap := &contracts.Snapshot{
		RunID:       uuid.NewString(),
		CreatedAt:   time.Now().UTC().Add(time.Hour).Truncate(time.Microsecond),
		Market:      "america",
		ProfileHash: "test",
		Scored:      []contracts.ScoredEquity{aapl, msft},
		Ranked: []contracts.RankedEquity{
			{Rank: 1, ScoredEquity: aapl},
			{Rank: 2, ScoredEquity: msft},
		},
		Picks: []contracts.Pick{
			{Rank: 1, Equity: aapl, Reasons: []string{ReasonTrend}, Rationale: ReasonTrend},
			{Rank: 2, Equity: msft, Reasons: []string{}, Rationale: ""},
		},
		Filtered:   map[string]int{},
		TotalInput: 3,
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DELETE FROM screener.runs WHERE run_id = $1", snap.RunID)
	})

	require.NoError(t, repo.SaveSnapshot(ctx, snap))

	run, err := repo.GetRun(ctx, snap.RunID)
	require.NoError(t, err)
	assert.Equal(t, 3, run.TotalInput)
	assert.Equal(t, 2, run.TotalScored)
	assert.Equal(t, 2, run.TotalPassed)
	assert.Equal(t, 82.5, run.TopScore)

	picks, err := repo.GetLatestPicks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, picks, 2)
	assert.Equal(t, "AAPL", picks[0].Equity.Record.Symbol)
	assert.Equal(t, []string{ReasonTrend}, picks[0].Reasons)

	history, err := repo.GetRunHistory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, snap.RunID, history[0].RunID)
}

func TestRepository_GetRun_Unknown(t *testing.T) {
	repo := NewRepository(testPool(t))

	_, err := repo.GetRun(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNoRuns)
}
