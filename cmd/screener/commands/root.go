package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/investimentigrugno/screener/pkg/config"
)

var (
	// Global flags
	configFile  string
	profilePath string
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "Stock screener and investment dashboard",
	Long: `Screener Unified CLI

Fetches a market universe from the TradingView scanner, scores every
equity on six technical factors, ranks them and collects news for the
top picks.

Usage:
  go run ./cmd/screener [command]

Examples:
  go run ./cmd/screener api
  go run ./cmd/screener refresh --top 10
  go run ./cmd/screener news --count 5
  go run ./cmd/screener scheduler start
  go run ./cmd/screener test-db`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "env file to load before the environment (default is .env)")
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "screen profile YAML (overrides SCREEN_PROFILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig applies the global flags on top of the environment
func loadConfig() (*config.Config, error) {
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", configFile, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if profilePath != "" {
		cfg.ProfilePath = profilePath
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, nil
}
