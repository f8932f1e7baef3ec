package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load applies the first .env file found among envFiles (searched upward
// from the working directory), falls back to ./.env, then reads the
// environment into App. Variables already set in the environment win over
// file values.
func Load(envFiles ...string) (*App, error) {
	logger := slog.Default()

	if path, ok := firstEnvFile(envFiles); ok {
		if err := godotenv.Load(path); err != nil {
			logger.Warn("Could not read env file", "path", path, "error", err)
		} else {
			logger.Info("Loaded env file", "path", path)
		}
	} else if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file, using process environment")
	}

	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Server.Port = platformPort(cfg.Server.Port)

	logger.Info("Config loaded",
		"env", cfg.Env,
		"port", cfg.Server.Port,
		"db", maskValue(cfg.DB.Url),
		"supabase_url", cfg.Supabase.Url,
		"supabase_anon_key", maskValue(cfg.Supabase.AnonKey),
		"auth_strategy", cfg.Auth.Strategy,
		"stripe_secret_key", maskValue(cfg.Stripe.SecretKey),
		"stripe_currency", cfg.Stripe.Currency,
		"cors_allow_origins", cfg.Cors.AllowOrigins,
		"rate_limit", fmt.Sprintf("%d/%s", cfg.RateLimit.MaxRequests, cfg.RateLimit.Window),
		"event_bus_driver", cfg.EventBus.Driver,
		"sentry", cfg.Sentry.DSN != "",
	)
	return &cfg, nil
}

func firstEnvFile(names []string) (string, bool) {
	for _, name := range names {
		if path, err := findUp(name); err == nil {
			return path, true
		}
	}
	return "", false
}

// findUp looks for name in the working directory and each of its parents.
func findUp(name string) (string, error) {
	if name == "" {
		name = ".env"
	}
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			return "", err
		}
		return name, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("config: " + name + " not found")
		}
		dir = parent
	}
}

func maskValue(v string) string {
	if len(v) <= 6 {
		return "****"
	}
	return v[:2] + "****" + v[len(v)-4:]
}
