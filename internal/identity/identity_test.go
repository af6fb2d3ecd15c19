package identity_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgesriver/spydus-assistant/internal/identity"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBootstrap_NoTokenIsNoop(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	defer srv.Close()

	sess, err := identity.Bootstrap(context.Background(), identity.Config{
		FirebaseConfig: `{"apiKey":"abc"}`,
		Endpoint:       srv.URL,
		Logger:         discardLogger(),
	})
	require.NoError(t, err)
	assert.Nil(t, sess)
	assert.False(t, called)
}

func TestBootstrap_InvalidConfig(t *testing.T) {
	_, err := identity.Bootstrap(context.Background(), identity.Config{
		FirebaseConfig: `{not json`,
		CustomToken:    "tok",
		Logger:         discardLogger(),
	})
	require.Error(t, err)
}

func TestBootstrap_ExchangesToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/accounts:signInWithCustomToken", r.URL.Path)
		assert.Equal(t, "abc", r.URL.Query().Get("key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "custom-token", body["token"])
		assert.Equal(t, true, body["returnSecureToken"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"idToken":"id","refreshToken":"refresh","expiresIn":"3600"}`))
	}))
	defer srv.Close()

	sess, err := identity.Bootstrap(context.Background(), identity.Config{
		FirebaseConfig: `{"apiKey":"abc","projectId":"spydus"}`,
		CustomToken:    "custom-token",
		Endpoint:       srv.URL,
		HTTPClient:     srv.Client(),
		Logger:         discardLogger(),
	})
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "id", sess.IDToken)
	assert.Equal(t, "refresh", sess.RefreshToken)
}

func TestBootstrap_RejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"INVALID_CUSTOM_TOKEN"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	sess, err := identity.Bootstrap(context.Background(), identity.Config{
		CustomToken: "bad",
		Endpoint:    srv.URL,
		Logger:      discardLogger(),
	})
	require.Error(t, err)
	assert.Nil(t, sess)
	assert.Contains(t, err.Error(), "INVALID_CUSTOM_TOKEN")
}

func TestBootstrap_StalledEndpointTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	sess, err := identity.Bootstrap(context.Background(), identity.Config{
		CustomToken: "tok",
		Endpoint:    srv.URL,
		Timeout:     100 * time.Millisecond,
		Logger:      discardLogger(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, sess)
	assert.Less(t, time.Since(start), 3*time.Second)
}
