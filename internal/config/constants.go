package config

import "time"

// Snapshot backends
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Defaults
const (
	DefaultPort                 = 8080
	DefaultLogLevel             = "info"
	DefaultLogFormat            = "text"
	DefaultLogDir               = "logs"
	DefaultEnvironment          = "dev"
	DefaultVersion              = "dev"
	DefaultDataDir              = "data"
	DefaultSQLitePath           = "data/snapshots.db"
	DefaultWorldID              = 55
	DefaultXIVAPIBaseURL        = "https://xivapi.com"
	DefaultUniversalisBaseURL   = "https://universalis.app"
	DefaultXIVAPIMinInterval    = 50 * time.Millisecond
	DefaultUniversalisInterval  = 100 * time.Millisecond
	DefaultFetchMaxRetries      = 10
	DefaultCatalogTTL           = 30 * 24 * time.Hour
	DefaultListingsTTL          = 10 * time.Minute
	DefaultFreshListingsTTL     = 30 * time.Second
	DefaultRefreshInterval      = 5 * time.Minute
	DefaultRequestDedupeWindow  = 30 * time.Second
	DefaultFetchWorkers         = 4
	DefaultRevenuePolicy        = "unit"
	DefaultDBMaxConns           = 5
	DefaultDBMaxConnIdleTime    = 5 * time.Minute
	DefaultDBMaxConnLifetime    = 30 * time.Minute
	DefaultProfitAlertThreshold = 0
	DefaultRateLimitRPS         = 10
	DefaultRateLimitBurst       = 50
)

// ExamplePassword is the DB_PASSWORD value shipped in .env.example.
const ExamplePassword = "change_this_secure_password"
