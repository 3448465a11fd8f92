package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix      = "CAREER_"
	envConfigFile  = "CAREER_CONFIG"
	envDotenvFile  = "CAREER_ENV_FILE"
	defaultEnvFile = ".env"
)

// listKeys are env keys whose values are comma-separated lists.
var listKeys = map[string]bool{
	"cors_allowed_origins": true,
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if CAREER_CONFIG is set
//  3. dotenv file (CAREER_ENV_FILE, default .env) folded into the process env
//  4. env (prefix CAREER_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	if err := loadDotenv(); err != nil {
		return nil, err
	}

	// CAREER_DB_DSN -> db_dsn. Underscores are kept to match koanf tags.
	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(envPrefix))
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotenv() error {
	path := os.Getenv(envDotenvFile)
	if path == "" {
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: dotenv %s: %w", ErrLoadConfig, path, err)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case c.DBDriver != "postgres" && c.DBDriver != "sqlite":
		return invalid("unsupported db_driver %q", c.DBDriver)
	case c.DBDSN == "":
		return invalid("db_dsn must not be empty")
	case !c.AuthDisabled && c.JWTSecret == "":
		return invalid("jwt_secret is required unless auth_disabled is set")
	case c.BaseTaskXP <= 0:
		return invalid("base_task_xp must be positive")
	case c.RequestTimeoutSec <= 0:
		return invalid("request_timeout_sec must be positive")
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return invalid("timezone %q: %v", c.Timezone, err)
	}

	for name, w := range c.DifficultyWeights {
		if w <= 0 {
			return invalid("difficulty weight for %q must be positive", name)
		}
	}

	switch c.LLMProvider {
	case "none", "mock":
	case "openai":
		if c.LLMAPIKey == "" {
			return invalid("llm_api_key is required for the openai provider")
		}
	default:
		return invalid("unsupported llm_provider %q", c.LLMProvider)
	}
	return nil
}
