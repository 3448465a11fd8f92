// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() builds a Config with defaults; Load layers file and env on top.
// - External errors are wrapped with ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"time"
	_ "time/tzdata" // zone database for minimal container images
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RequestTimeoutSec bounds each API request.
	RequestTimeoutSec int `koanf:"request_timeout_sec"`

	// DBDriver is "postgres" or "sqlite".
	DBDriver string `koanf:"db_driver"`

	// DBDSN is the driver-specific data source name.
	DBDSN string `koanf:"db_dsn"`

	DBMaxOpenConns       int `koanf:"db_max_open_conns"`
	DBMaxIdleConns       int `koanf:"db_max_idle_conns"`
	DBConnMaxLifetimeSec int `koanf:"db_conn_max_lifetime_sec"`
	DBSlowQueryMS        int `koanf:"db_slow_query_ms"`

	// Timezone is the IANA zone whose calendar days drive streaks.
	Timezone string `koanf:"timezone"`

	// JWTSecret signs and verifies bearer tokens.
	JWTSecret string `koanf:"jwt_secret"`

	// AuthDisabled trusts the X-Student-ID header instead of a token. Dev only.
	AuthDisabled bool `koanf:"auth_disabled"`

	// TokenTTLHours is the lifetime of tokens minted by the token command.
	TokenTTLHours int `koanf:"token_ttl_hours"`

	// CORSAllowedOrigins lists browser origins allowed to call the API.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// BaseTaskXP is the XP of a medium task when the generator gives none.
	BaseTaskXP int `koanf:"base_task_xp"`

	// DifficultyWeights scales BaseTaskXP per plan difficulty.
	DifficultyWeights map[string]float64 `koanf:"difficulty_weights"`

	// LLMProvider is "openai", "mock" or "none".
	LLMProvider    string `koanf:"llm_provider"`
	LLMAPIKey      string `koanf:"llm_api_key"`
	LLMModel       string `koanf:"llm_model"`
	LLMBaseURL     string `koanf:"llm_base_url"`
	LLMTimeoutSec  int    `koanf:"llm_timeout_sec"`
	LLMMaxAttempts int    `koanf:"llm_max_attempts"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		RequestTimeoutSec:    15,
		DBDriver:             "sqlite",
		DBDSN:                "file:careertrack.db",
		DBMaxOpenConns:       10,
		DBMaxIdleConns:       5,
		DBConnMaxLifetimeSec: 300,
		DBSlowQueryMS:        200,
		Timezone:             "UTC",
		TokenTTLHours:        24,
		CORSAllowedOrigins:   []string{"http://localhost:3000"},
		BaseTaskXP:           100,
		DifficultyWeights: map[string]float64{
			"easy":   0.5,
			"medium": 1.0,
			"hard":   1.5,
		},
		LLMProvider:    "none",
		LLMModel:       "gpt-4o-mini",
		LLMTimeoutSec:  60,
		LLMMaxAttempts: 3,
	}
}

// RequestTimeout returns RequestTimeoutSec as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// ConnMaxLifetime returns DBConnMaxLifetimeSec as a duration.
func (c *Config) ConnMaxLifetime() time.Duration {
	return time.Duration(c.DBConnMaxLifetimeSec) * time.Second
}

// SlowQueryThreshold returns DBSlowQueryMS as a duration.
func (c *Config) SlowQueryThreshold() time.Duration {
	return time.Duration(c.DBSlowQueryMS) * time.Millisecond
}

// LLMTimeout returns LLMTimeoutSec as a duration.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeoutSec) * time.Second
}

// TokenTTL returns TokenTTLHours as a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// Location resolves Timezone. Load has already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
