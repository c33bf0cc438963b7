package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/investimentigrugno/screener/internal/api"
	"github.com/investimentigrugno/screener/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server together with the refresh scheduler.

This command:
- runs an initial refresh so the dashboard has data
- schedules periodic refreshes (REFRESH_SCHEDULE)
- serves the latest snapshot over HTTP

Endpoints:
  GET  /health               - Health check
  GET  /api/screener         - Ranked equities (?limit=&min_score=)
  GET  /api/top              - Top picks with rationale (?k=)
  GET  /api/news             - News for the current picks
  GET  /api/export.csv       - Ranked equities as CSV
  GET  /api/runs             - Persisted run history
  GET  /api/runs/{id}        - One persisted run
  POST /api/refresh          - Trigger a refresh

Example:
  go run ./cmd/screener api
  go run ./cmd/screener api --port 9090`,
	RunE: runAPIServer,
}

var (
	apiPort      string
	apiNoRefresh bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
	apiCmd.Flags().BoolVar(&apiNoRefresh, "no-initial-refresh", false, "skip the refresh at startup")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Screener API Server ===")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// 1. Wire dependencies
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	// 2. Scheduler
	sched, err := a.newScheduler()
	if err != nil {
		return err
	}

	// 3. Initial refresh; a failure leaves the API answering 503 until the next run
	if !apiNoRefresh {
		refreshCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
		if _, err := a.orchestrator.Refresh(refreshCtx); err != nil {
			a.log.WithError(err).Warn("Initial refresh failed")
		}
		cancel()
	}

	// 4. Router and server
	screenerHandler := handlers.NewScreenerHandler(a.orchestrator, a.runHistory(), a.log)
	router := api.NewRouter(screenerHandler, a.log)
	server := api.New(a.cfg, a.log, router)

	sched.Start()

	go func() {
		if err := server.Start(); err != nil {
			a.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	a.log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nRegistered jobs:")
	for _, name := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", name)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	a.log.Info("Shutting down server...")
	sched.Stop()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
