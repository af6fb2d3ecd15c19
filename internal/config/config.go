// Package config reads the assistant's settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Backends accepted in GEMINI_BACKEND.
const (
	BackendREST  = "rest"
	BackendGenAI = "genai"
	BackendADK   = "adk"
)

const (
	defaultAddr           = ":8080"
	defaultModel          = "gemini-2.5-flash-preview-05-20"
	defaultBaseURL        = "https://generativelanguage.googleapis.com"
	defaultAttemptTimeout = 60 * time.Second
	defaultRequestTimeout = 6 * time.Minute
)

// Config holds process configuration.
type Config struct {
	Addr             string
	APIKey           string
	Model            string
	BaseURL          string
	Backend          string
	AttemptTimeout   time.Duration // 0 disables the per-attempt deadline.
	RequestTimeout   time.Duration
	FirebaseConfig   string
	InitialAuthToken string
	IdentityEndpoint string // Empty keeps the public Identity Toolkit host.
	LogLevel         slog.Level
}

func env(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	return lo.Ternary(v != "", v, fallback)
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := env(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative", key)
	}
	return d, nil
}

// Load reads the environment. A .env file, if any, must already be loaded.
func Load() (Config, error) {
	cfg := Config{
		Addr:             env("ADDR", defaultAddr),
		APIKey:           env("GOOGLE_API_KEY", env("GEMINI_API_KEY", "")),
		Model:            env("GEMINI_MODEL", defaultModel),
		BaseURL:          env("GEMINI_BASE_URL", defaultBaseURL),
		Backend:          strings.ToLower(env("GEMINI_BACKEND", BackendREST)),
		FirebaseConfig:   os.Getenv("FIREBASE_CONFIG"),
		InitialAuthToken: os.Getenv("INITIAL_AUTH_TOKEN"),
		IdentityEndpoint: env("IDENTITY_ENDPOINT", ""),
	}

	var err error
	if cfg.AttemptTimeout, err = envDuration("ATTEMPT_TIMEOUT", defaultAttemptTimeout); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout, err = envDuration("REQUEST_TIMEOUT", defaultRequestTimeout); err != nil {
		return Config{}, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(env("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate checks values that can also be set from flags.
func (c Config) Validate() error {
	if !lo.Contains([]string{BackendREST, BackendGenAI, BackendADK}, c.Backend) {
		return fmt.Errorf("GEMINI_BACKEND: unknown backend %q", c.Backend)
	}
	if c.Model == "" {
		return fmt.Errorf("GEMINI_MODEL is not set")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT: must be positive")
	}
	return nil
}
