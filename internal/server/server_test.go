package server_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgesriver/spydus-assistant/internal/config"
	"github.com/georgesriver/spydus-assistant/internal/handler"
	"github.com/georgesriver/spydus-assistant/internal/mcptools"
	"github.com/georgesriver/spydus-assistant/internal/model"
	"github.com/georgesriver/spydus-assistant/internal/server"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeGemini answers generateContent calls with text and records the API key.
func fakeGemini(t *testing.T, text string, gotKey *string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotKey = r.URL.Query().Get("key")
		assert.Equal(t, "/v1beta/models/test-model:generateContent", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"`+text+`"}]}}]}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T, baseURL string) *httptest.Server {
	t.Helper()

	cfg := config.Config{
		Addr:           ":0",
		APIKey:         "secret",
		Model:          "test-model",
		BaseURL:        baseURL,
		Backend:        config.BackendREST,
		AttemptTimeout: 5 * time.Second,
		RequestTimeout: 10 * time.Second,
	}
	log := discardLogger()

	srv, err := server.NewServer(context.Background(), cfg, log)
	require.NoError(t, err)

	h := handler.NewHandler(srv.Cataloguer, log)
	srv.SetupRouter(server.Routes{
		Index:        h.HandleIndex,
		GenerateForm: h.HandleGenerateForm,
		AskForm:      h.HandleAskForm,
		Download:     h.HandleDownload,
		Print:        h.HandlePrint,
		Health:       h.HandleHealth,
		Info:         h.HandleInfo,
		Generate:     h.HandleGenerate,
		Ask:          h.HandleAsk,
		Export:       h.HandleExport,
		MCP:          mcptools.Handler(mcptools.New(srv.Cataloguer, "test")),
	})

	ts := httptest.NewServer(srv.Router)
	t.Cleanup(ts.Close)
	return ts
}

func TestServer_GenerateEndToEnd(t *testing.T) {
	var gotKey string
	gemini := fakeGemini(t, "=245 10$aTest", &gotKey)
	ts := newTestServer(t, gemini.URL)

	resp, err := http.Post(ts.URL+"/api/generate", "application/json", strings.NewReader(`{"item_details":"Title: Test"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body model.TextResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "=245 10$aTest", body.Text)
	assert.Equal(t, "secret", gotKey)
}

func TestServer_Routes(t *testing.T) {
	var gotKey string
	gemini := fakeGemini(t, "answer", &gotKey)
	ts := newTestServer(t, gemini.URL)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/?tab=ask")
	require.NoError(t, err)
	page, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(page), "Ask the Expert")

	resp, err = http.PostForm(ts.URL+"/ask", map[string][]string{"question": {"Q"}})
	require.NoError(t, err)
	page, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(page), "answer")

	resp, err = http.Get(ts.URL + "/api/info")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/generate")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestNewServer_DoesNotWaitForIdentity(t *testing.T) {
	release := make(chan struct{})
	stalled := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(stalled.Close)
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := config.Config{
		Model:            "test-model",
		BaseURL:          "http://127.0.0.1:1",
		Backend:          config.BackendREST,
		RequestTimeout:   time.Second,
		InitialAuthToken: "tok",
		IdentityEndpoint: stalled.URL,
	}

	done := make(chan error, 1)
	go func() {
		_, err := server.NewServer(ctx, cfg, discardLogger())
		done <- err
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("NewServer waited on the identity endpoint")
	}
}

func TestNewTransport_UnknownBackend(t *testing.T) {
	_, err := server.NewTransport(context.Background(), config.Config{Backend: "grpc"}, discardLogger())
	assert.ErrorContains(t, err, `unknown backend "grpc"`)
}

func TestStart_StopsOnCancel(t *testing.T) {
	cfg := config.Config{
		Addr:           "127.0.0.1:0",
		Model:          "test-model",
		BaseURL:        "http://127.0.0.1:1",
		Backend:        config.BackendREST,
		RequestTimeout: time.Second,
	}
	srv, err := server.NewServer(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	srv.SetupRouter(server.Routes{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
