// Package identity performs the optional Firebase session bootstrap run at
// startup. Nothing in the request path consumes the resulting session.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultEndpoint is the Identity Toolkit base URL.
	DefaultEndpoint = "https://identitytoolkit.googleapis.com"

	// DefaultTimeout bounds the whole token exchange.
	DefaultTimeout = 10 * time.Second
)

// FirebaseConfig is the subset of the web app config the bootstrap needs.
type FirebaseConfig struct {
	APIKey     string `json:"apiKey"`
	AuthDomain string `json:"authDomain,omitempty"`
	ProjectID  string `json:"projectId,omitempty"`
}

// Config configures Bootstrap.
type Config struct {
	FirebaseConfig string // Raw JSON; empty means "{}".
	CustomToken    string
	Endpoint       string        // Defaults to DefaultEndpoint.
	HTTPClient     *http.Client  // Defaults to http.DefaultClient.
	Timeout        time.Duration // Defaults to DefaultTimeout.
	Logger         *slog.Logger
}

// Session is the result of a successful token exchange.
type Session struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

// Bootstrap exchanges cfg.CustomToken for a Firebase session. Without a token
// it logs and returns (nil, nil).
func Bootstrap(ctx context.Context, cfg Config) (*Session, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	raw := strings.TrimSpace(cfg.FirebaseConfig)
	if raw == "" {
		raw = "{}"
	}
	var fc FirebaseConfig
	if err := json.Unmarshal([]byte(raw), &fc); err != nil {
		return nil, fmt.Errorf("parse firebase config: %w", err)
	}

	if cfg.CustomToken == "" {
		log.Warn("No custom auth token available.")
		return nil, nil
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(map[string]any{
		"token":             cfg.CustomToken,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal sign-in request: %w", err)
	}

	u := strings.TrimRight(endpoint, "/") + "/v1/accounts:signInWithCustomToken?key=" + url.QueryEscape(fc.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sign in with custom token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read sign-in response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sign in with custom token: status %d: %s", resp.StatusCode, string(respBody))
	}

	var sess Session
	if err := json.Unmarshal(respBody, &sess); err != nil {
		return nil, fmt.Errorf("decode sign-in response: %w", err)
	}

	log.Info("identity session established", "project", fc.ProjectID)
	return &sess, nil
}
