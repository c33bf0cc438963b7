package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (optional: persistence is skipped when URL is empty)
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External data sources
	TradingView TradingViewConfig
	Finnhub     FinnhubConfig

	// News translation
	Translate TranslateConfig

	// Refresh cycle
	Refresh RefreshConfig

	// Screen profile (YAML)
	ProfilePath string

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether a database URL was configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// TradingViewConfig holds the scanner endpoint used as the market-data source
type TradingViewConfig struct {
	BaseURL    string
	Market     string // america, italy, germany, ...
	Limit      int
	Timeout    time.Duration
	RatePerMin int // shared across processes when Redis is enabled
}

// FinnhubConfig holds Finnhub news API configuration
type FinnhubConfig struct {
	APIKey     string
	BaseURL    string
	RatePerMin int
}

// TranslateConfig holds the news translation endpoint
type TranslateConfig struct {
	Enabled  bool
	BaseURL  string
	Language string // target language code, empty keeps the source text
}

// RefreshConfig controls how often and how much the dashboard recomputes
type RefreshConfig struct {
	Schedule        string        // cron expression with seconds
	CacheTTL        time.Duration // upstream response cache
	TopN            int
	NewsCount       int
	CompanyNewsDays int
	RunRetention    time.Duration // persisted runs older than this are pruned
}

// Load reads configuration from environment variables
// ⭐ SSOT: the only function that calls os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		TradingView: TradingViewConfig{
			BaseURL:    getEnv("TRADINGVIEW_BASE_URL", "https://scanner.tradingview.com"),
			Market:     getEnv("SCREENER_MARKET", "america"),
			Limit:      getEnvAsInt("SCREENER_LIMIT", 200),
			Timeout:    getEnvAsDuration("SCREENER_TIMEOUT", "20s"),
			RatePerMin: getEnvAsInt("TRADINGVIEW_RATE_PER_MIN", 30),
		},

		Finnhub: FinnhubConfig{
			APIKey:     getEnv("FINNHUB_API_KEY", ""),
			BaseURL:    getEnv("FINNHUB_BASE_URL", "https://finnhub.io/api/v1"),
			RatePerMin: getEnvAsInt("FINNHUB_RATE_PER_MIN", 60),
		},

		Translate: TranslateConfig{
			Enabled:  getEnvAsBool("TRANSLATE_ENABLED", true),
			BaseURL:  getEnv("TRANSLATE_BASE_URL", "https://translate.googleapis.com"),
			Language: getEnv("NEWS_LANGUAGE", "it"),
		},

		Refresh: RefreshConfig{
			Schedule:        getEnv("REFRESH_SCHEDULE", "0 */15 * * * *"),
			CacheTTL:        getEnvAsDuration("CACHE_TTL", "5m"),
			TopN:            getEnvAsInt("TOP_N", 5),
			NewsCount:       getEnvAsInt("NEWS_COUNT", 8),
			CompanyNewsDays: getEnvAsInt("COMPANY_NEWS_DAYS", 7),
			RunRetention:    getEnvAsDuration("RUN_RETENTION", "720h"),
		},

		ProfilePath: getEnv("SCREEN_PROFILE", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// ValidationError is returned when a configuration value is unusable
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// validate checks if configuration values are usable
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return ValidationError{"ENV", "must be one of: development, staging, production"}
	}
	if c.Refresh.TopN < 1 {
		return ValidationError{"TOP_N", "must be >= 1"}
	}
	if c.Refresh.CacheTTL <= 0 {
		return ValidationError{"CACHE_TTL", "must be > 0"}
	}
	if c.TradingView.Limit < 1 {
		return ValidationError{"SCREENER_LIMIT", "must be >= 1"}
	}
	if c.TradingView.RatePerMin < 1 {
		return ValidationError{"TRADINGVIEW_RATE_PER_MIN", "must be >= 1"}
	}
	if c.Finnhub.RatePerMin < 1 {
		return ValidationError{"FINNHUB_RATE_PER_MIN", "must be >= 1"}
	}
	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
