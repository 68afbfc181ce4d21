package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Host     string `mapstructure:"host"      validate:"required"`
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// MaxBodyBytes caps the size of JSON request bodies.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" validate:"gt=0"`

	// ShutdownTimeoutSeconds bounds graceful shutdown.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// Addr returns the host:port the HTTP server binds to.
func (c ServerConfig) Addr() string {
	return joinHostPort(c.Host, c.Port)
}

// ShutdownTimeout returns ShutdownTimeoutSeconds as a duration.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// Driver selects the SQL engine: postgres, mysql or sqlite.
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres mysql sqlite"`
	URL    string `mapstructure:"url"    validate:"required"`

	MaxOpenConns           int `mapstructure:"max_connections"             validate:"gt=0"`
	MaxIdleConns           int `mapstructure:"max_idle_connections"        validate:"gte=0"`
	ConnMaxLifetimeMinutes int `mapstructure:"conn_max_lifetime_minutes"   validate:"gte=0"`
	ConnectTimeoutSeconds  int `mapstructure:"connect_timeout_seconds"     validate:"gt=0"`
	QueryTimeoutSeconds    int `mapstructure:"query_timeout_seconds"       validate:"gt=0"`

	// AutoMigrate applies pending migrations on startup.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// ConnectTimeout returns ConnectTimeoutSeconds as a duration.
func (c DatabaseConfig) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutSeconds) * time.Second
}

// QueryTimeout returns QueryTimeoutSeconds as a duration.
func (c DatabaseConfig) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutSeconds) * time.Second
}

// ConnMaxLifetime returns ConnMaxLifetimeMinutes as a duration.
func (c DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeMinutes) * time.Minute
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret        string `mapstructure:"jwt_secret"         validate:"required,min=32"`
	TokenExpiryHours int    `mapstructure:"token_expiry_hours" validate:"gt=0"`
	BcryptCost       int    `mapstructure:"bcrypt_cost"        validate:"gte=4,lte=31"`

	// SessionPurgeIntervalMinutes controls how often expired sessions are removed.
	SessionPurgeIntervalMinutes int `mapstructure:"session_purge_interval_minutes" validate:"gt=0"`
}

// TokenExpiry returns TokenExpiryHours as a duration.
func (c AuthConfig) TokenExpiry() time.Duration {
	return time.Duration(c.TokenExpiryHours) * time.Hour
}

// SessionPurgeInterval returns SessionPurgeIntervalMinutes as a duration.
func (c AuthConfig) SessionPurgeInterval() time.Duration {
	return time.Duration(c.SessionPurgeIntervalMinutes) * time.Minute
}
