package logger

import (
	"log/slog"
	"strings"
)

// Config describes how the default logger is built.
type Config struct {
	Level       string // debug | info | warn | error
	Format      string // json | text
	ServiceName string
	Version     string
	Environment string
	AddSource   bool

	// WorldID tags every record with the market world prices come from.
	// Zero leaves the attribute off.
	WorldID int
}

// NewConfig builds a Config from explicit values. Empty fields fall back to
// the package defaults.
func NewConfig(level, format, serviceName, version, environment string, addSource bool) Config {
	return Config{
		Level:       level,
		Format:      format,
		ServiceName: serviceName,
		Version:     version,
		Environment: environment,
		AddSource:   addSource,
	}.withDefaults()
}

// ForWorld returns a copy of c tagged with worldID.
func (c Config) ForWorld(worldID int) Config {
	c.WorldID = worldID
	return c
}

func (c Config) withDefaults() Config {
	if c.Level == "" {
		c.Level = LogLevelInfo
	}
	if c.Format == "" {
		c.Format = LogFormatText
	}
	if c.ServiceName == "" {
		c.ServiceName = DefaultServiceName
	}
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.Environment == "" {
		c.Environment = EnvironmentDev
	}
	return c
}

// LogLevel converts Level to a slog.Level, defaulting to info.
func (c Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn, LogLevelWarning:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsJSON reports whether records are written as JSON.
func (c Config) IsJSON() bool {
	return strings.EqualFold(c.Format, LogFormatJSON)
}

// BaseAttributes are attached to every record.
func (c Config) BaseAttributes() []slog.Attr {
	attrs := []slog.Attr{
		slog.String(AttrKeyService, c.ServiceName),
		slog.String(AttrKeyVersion, c.Version),
		slog.String(AttrKeyEnvironment, c.Environment),
	}
	if c.WorldID != 0 {
		attrs = append(attrs, slog.Int(AttrKeyWorldID, c.WorldID))
	}
	return attrs
}
