package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int    `validate:"min=1,max=65535"`
	LogLevel    string `validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
	LogFormat   string `validate:"oneof=text json"`
	LogDir      string `validate:"required"`
	Environment string `validate:"required"`
	Version     string

	// HTTP access. An empty APIKey leaves the API open.
	APIKey         string
	TrustedProxies []string
	RateLimitRPS   float64 `validate:"gt=0"`
	RateLimitBurst int     `validate:"min=1"`

	// Snapshot storage
	DataDir          string `validate:"required"`
	SnapshotBackend  string `validate:"oneof=file sqlite postgres"`
	SnapshotCompress bool
	SQLitePath       string `validate:"required_if=SnapshotBackend sqlite"`

	// Database (postgres backend)
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int `validate:"min=1"`
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	// Market
	WorldID       int `validate:"min=1"`
	SellerID      string
	RevenuePolicy string `validate:"oneof=unit velocity"`

	// Remote providers
	XIVAPIBaseURL          string        `validate:"url"`
	UniversalisBaseURL     string        `validate:"url"`
	XIVAPIMinInterval      time.Duration `validate:"gte=0"`
	UniversalisMinInterval time.Duration `validate:"gte=0"`
	FetchMaxRetries        int           `validate:"min=0,max=50"`
	FetchWorkers           int           `validate:"min=1,max=64"`

	// Freshness
	CatalogTTL          time.Duration `validate:"gt=0"`
	ListingsTTL         time.Duration `validate:"gt=0"`
	FreshListingsTTL    time.Duration `validate:"gt=0,ltefield=ListingsTTL"`
	RefreshInterval     time.Duration `validate:"gt=0"`
	AutoRefresh         bool
	RequestDedupeWindow time.Duration `validate:"gte=0"`

	// Profit alerts
	DiscordWebhookID     string
	DiscordWebhookToken  string `validate:"required_with=DiscordWebhookID"`
	ProfitAlertThreshold float64
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:   getEnv("LOG_FORMAT", DefaultLogFormat),
		LogDir:      getEnv("LOG_DIR", DefaultLogDir),
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
		Version:     getEnv("VERSION", DefaultVersion),

		APIKey:         getEnv("API_KEY", ""),
		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),
		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", DefaultRateLimitRPS),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", DefaultRateLimitBurst),

		DataDir:          getEnv("DATA_DIR", DefaultDataDir),
		SnapshotBackend:  getEnv("SNAPSHOT_BACKEND", BackendFile),
		SnapshotCompress: getEnvAsBool("SNAPSHOT_COMPRESS", false),
		SQLitePath:       getEnv("SQLITE_PATH", DefaultSQLitePath),

		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "marketcrafter"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),

		WorldID:       getEnvAsInt("WORLD_ID", DefaultWorldID),
		SellerID:      getEnv("SELLER_ID", ""),
		RevenuePolicy: getEnv("REVENUE_POLICY", DefaultRevenuePolicy),

		XIVAPIBaseURL:          getEnv("XIVAPI_BASE_URL", DefaultXIVAPIBaseURL),
		UniversalisBaseURL:     getEnv("UNIVERSALIS_BASE_URL", DefaultUniversalisBaseURL),
		XIVAPIMinInterval:      getEnvAsDuration("XIVAPI_MIN_INTERVAL", DefaultXIVAPIMinInterval),
		UniversalisMinInterval: getEnvAsDuration("UNIVERSALIS_MIN_INTERVAL", DefaultUniversalisInterval),
		FetchMaxRetries:        getEnvAsInt("FETCH_MAX_RETRIES", DefaultFetchMaxRetries),
		FetchWorkers:           getEnvAsInt("FETCH_WORKERS", DefaultFetchWorkers),

		CatalogTTL:          getEnvAsDuration("CATALOG_TTL", DefaultCatalogTTL),
		ListingsTTL:         getEnvAsDuration("LISTINGS_TTL", DefaultListingsTTL),
		FreshListingsTTL:    getEnvAsDuration("FRESH_LISTINGS_TTL", DefaultFreshListingsTTL),
		RefreshInterval:     getEnvAsDuration("REFRESH_INTERVAL", DefaultRefreshInterval),
		AutoRefresh:         getEnvAsBool("AUTO_REFRESH", false),
		RequestDedupeWindow: getEnvAsDuration("REQUEST_DEDUPE_WINDOW", DefaultRequestDedupeWindow),

		DiscordWebhookID:     getEnv("DISCORD_WEBHOOK_ID", ""),
		DiscordWebhookToken:  getEnv("DISCORD_WEBHOOK_TOKEN", ""),
		ProfitAlertThreshold: getEnvAsFloat("PROFIT_ALERT_THRESHOLD", DefaultProfitAlertThreshold),
	}

	portStr := getEnv("PORT", strconv.Itoa(DefaultPort))
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// AlertsEnabled reports whether a Discord webhook is configured.
func (c *Config) AlertsEnabled() bool {
	return c.DiscordWebhookID != "" && c.DiscordWebhookToken != ""
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping empty entries.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvAsInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvAsBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}
