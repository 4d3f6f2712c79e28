package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	MetricsPort int    `toml:"metrics_port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// fitness backend
	BackendURL            string `toml:"backend_url"`
	BackendTimeoutSeconds int    `toml:"backend_timeout_seconds"`

	// redis - sessions and rate limiting
	RedisHost              string `toml:"redis_host"`
	RedisPort              string `toml:"redis_port"`
	SessionTTLHours        int    `toml:"session_ttl_hours"`
	LoginRequestsPerMinute int    `toml:"login_requests_per_minute"`

	// postgres - activity log
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	// workout list cache
	WorkoutCacheSizeMB     int `toml:"workout_cache_size_mb"`
	WorkoutCacheTTLSeconds int `toml:"workout_cache_ttl_seconds"`

	AllowedOrigins []string `toml:"allowed_origins"`
}

func (c *Config) BackendTimeout() time.Duration {
	if c.BackendTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.BackendTimeoutSeconds) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	if c.SessionTTLHours <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func (c *Config) LoginRateLimit() int {
	if c.LoginRequestsPerMinute <= 0 {
		return 15
	}
	return c.LoginRequestsPerMinute
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

// Load reads the TOML file at path and returns the section for env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return t.Get(env)
}
