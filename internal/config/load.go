package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ConfigFileEnv names the environment variable that points at an optional
// YAML config file. When unset, ./config.yaml is read if it exists.
const ConfigFileEnv = "TASKS_CONFIG_FILE"

// envBindings maps config keys to the environment variable names used by
// existing deployments.
var envBindings = map[string]string{
	"server.host":                         "SERVER_HOST",
	"server.port":                         "SERVER_PORT",
	"server.log_level":                    "LOG_LEVEL",
	"server.max_body_bytes":               "SERVER_MAX_BODY_BYTES",
	"server.shutdown_timeout_seconds":     "SERVER_SHUTDOWN_TIMEOUT",
	"database.driver":                     "DATABASE_DRIVER",
	"database.url":                        "DATABASE_URL",
	"database.max_connections":            "DATABASE_MAX_CONNECTIONS",
	"database.max_idle_connections":       "DATABASE_MAX_IDLE_CONNECTIONS",
	"database.conn_max_lifetime_minutes":  "DATABASE_CONN_MAX_LIFETIME_MINUTES",
	"database.connect_timeout_seconds":    "DATABASE_CONNECT_TIMEOUT",
	"database.query_timeout_seconds":      "DATABASE_QUERY_TIMEOUT",
	"database.auto_migrate":               "DATABASE_AUTO_MIGRATE",
	"auth.jwt_secret":                     "JWT_SECRET",
	"auth.token_expiry_hours":             "TOKEN_EXPIRY_HOURS",
	"auth.bcrypt_cost":                    "BCRYPT_COST",
	"auth.session_purge_interval_minutes": "SESSION_PURGE_INTERVAL_MINUTES",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_connections", 5)
	v.SetDefault("database.conn_max_lifetime_minutes", 5)
	v.SetDefault("database.connect_timeout_seconds", 5)
	v.SetDefault("database.query_timeout_seconds", 5)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("auth.token_expiry_hours", 24)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.session_purge_interval_minutes", 60)
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	configFile := os.Getenv(ConfigFileEnv)
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicitly named file must exist; the implicit one is optional.
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
