package commands

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/investimentigrugno/screener/internal/presentation"
)

// refreshCmd represents the refresh command
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Run one refresh and print the results",
	Long: `Runs the full pipeline once (fetch → score → screen → rank → news)
and prints the ranked table and the top picks.

Example:
  go run ./cmd/screener refresh
  go run ./cmd/screener refresh --rows 50 --top 10
  go run ./cmd/screener refresh --csv ranked.csv`,
	RunE: runRefresh,
}

var (
	refreshRows   int
	refreshTop    int
	refreshCSV    string
	refreshNoNews bool
)

func init() {
	rootCmd.AddCommand(refreshCmd)

	refreshCmd.Flags().IntVar(&refreshRows, "rows", 20, "ranked rows to print (0 = all)")
	refreshCmd.Flags().IntVar(&refreshTop, "top", 0, "number of picks (0 = configured TOP_N)")
	refreshCmd.Flags().StringVar(&refreshCSV, "csv", "", "write the ranked table to this CSV file")
	refreshCmd.Flags().BoolVar(&refreshNoNews, "no-news", false, "do not print news")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	opts := a.orchestrator.Options()
	PrintHeader("Screener Refresh", map[string]string{
		"Market":  opts.Market,
		"Top N":   fmt.Sprintf("%d", opts.TopN),
		"Profile": a.cfg.ProfilePath,
		"Started": time.Now().Format(time.RFC3339),
	}, []string{"Market", "Top N", "Profile", "Started"})

	start := time.Now()
	refreshCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	snap, err := a.orchestrator.Refresh(refreshCtx)
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	fmt.Printf("\nFetched %d, scored %d, passed %d\n", snap.TotalInput, len(snap.Scored), len(snap.Ranked))
	if len(snap.Filtered) > 0 {
		names := make([]string, 0, len(snap.Filtered))
		for name := range snap.Filtered {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  filtered by %-16s %d\n", name+":", snap.Filtered[name])
		}
	}
	fmt.Println()

	rows := presentation.Rows(snap.Ranked)
	if refreshRows > 0 && len(rows) > refreshRows {
		rows = rows[:refreshRows]
	}
	PrintRankedTable(rows)

	picks := snap.Picks
	if refreshTop > 0 {
		if picks, err = a.orchestrator.Top(refreshTop); err != nil {
			return err
		}
	}
	PrintPicks(picks)

	if !refreshNoNews && a.newsSource != nil {
		PrintNews(snap.News)
	}

	if refreshCSV != "" {
		if err := writeCSV(refreshCSV, presentation.Rows(snap.Ranked)); err != nil {
			return err
		}
		PrintInfo(fmt.Sprintf("Ranked table written to %s", refreshCSV))
	}

	PrintCompletion("Refresh "+snap.RunID, time.Since(start))
	return nil
}

func writeCSV(path string, rows []presentation.DisplayRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := presentation.WriteCSV(f, rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
