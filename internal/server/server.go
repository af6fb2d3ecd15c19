package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/georgesriver/spydus-assistant/internal/config"
	"github.com/georgesriver/spydus-assistant/internal/genclient"
	"github.com/georgesriver/spydus-assistant/internal/identity"
	"github.com/georgesriver/spydus-assistant/internal/service"
)

// Server holds the HTTP server and its dependencies
type Server struct {
	Cataloguer *service.Cataloguer
	Router     chi.Router

	cfg config.Config
	log *slog.Logger
}

// NewTransport builds the single-attempt transport selected by cfg.Backend.
func NewTransport(ctx context.Context, cfg config.Config, log *slog.Logger) (genclient.Transport, error) {
	switch cfg.Backend {
	case config.BackendREST:
		httpClient := &http.Client{
			Transport: &genclient.AuthenticatedTransport{
				Base:   http.DefaultTransport,
				APIKey: cfg.APIKey,
				Logger: log,
			},
		}
		return genclient.NewRESTTransport(cfg.BaseURL, cfg.Model, httpClient), nil
	case config.BackendGenAI:
		return genclient.NewGenAITransport(ctx, genclient.SDKConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
	case config.BackendADK:
		return genclient.NewADKTransport(ctx, genclient.SDKConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// BuildCataloguer wires the transport, the retrying client and the cataloguer.
func BuildCataloguer(ctx context.Context, cfg config.Config, log *slog.Logger) (*service.Cataloguer, error) {
	if cfg.APIKey == "" {
		log.Warn("GOOGLE_API_KEY is not set - generation requests will be rejected")
	}

	transport, err := NewTransport(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	client := genclient.New(transport, genclient.Options{
		AttemptTimeout: cfg.AttemptTimeout,
		Logger:         log,
	})
	return service.NewCataloguer(client, log), nil
}

// NewServer creates the server. The identity bootstrap runs in the background;
// its failure is logged and never delays or stops startup.
func NewServer(ctx context.Context, cfg config.Config, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}

	cataloguer, err := BuildCataloguer(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	log.Info("🔌 Gemini backend ready", "backend", cfg.Backend, "model", cfg.Model)

	go func() {
		if _, err := identity.Bootstrap(ctx, identity.Config{
			FirebaseConfig: cfg.FirebaseConfig,
			CustomToken:    cfg.InitialAuthToken,
			Endpoint:       cfg.IdentityEndpoint,
			Logger:         log,
		}); err != nil {
			log.Error("Firebase initialization or authentication error", "error", err)
		}
	}()

	return &Server{
		Cataloguer: cataloguer,
		cfg:        cfg,
		log:        log,
	}, nil
}

// Routes are the handlers mounted by SetupRouter
type Routes struct {
	Index        http.HandlerFunc
	GenerateForm http.HandlerFunc
	AskForm      http.HandlerFunc
	Download     http.HandlerFunc
	Print        http.HandlerFunc
	Health       http.HandlerFunc
	Info         http.HandlerFunc
	Generate     http.HandlerFunc
	Ask          http.HandlerFunc
	Export       http.HandlerFunc
	MCP          http.Handler // Optional.
}

// SetupRouter configures the Chi routes and middlewares
func (s *Server) SetupRouter(routes Routes) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// The MCP stream is long-lived and stays outside the request timeout.
	if routes.MCP != nil {
		r.Handle("/mcp", routes.MCP)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))

		r.Get("/", routes.Index)
		r.Get("/health", routes.Health)

		r.Post("/generate", routes.GenerateForm)
		r.Route("/ask", func(r chi.Router) {
			r.Post("/", routes.AskForm)
			r.Post("/download", routes.Download)
			r.Post("/print", routes.Print)
		})

		r.Route("/api", func(r chi.Router) {
			r.Get("/info", routes.Info)
			r.Post("/generate", routes.Generate)
			r.Post("/ask", routes.Ask)
			r.Post("/ask/export", routes.Export)
		})
	})

	s.Router = r
}

// Start runs the HTTP server until ctx is done, then shuts it down gracefully.
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:        s.cfg.Addr,
		Handler:     s.Router,
		ReadTimeout: 15 * time.Second,
		// A request may spend the whole retry schedule waiting on Gemini.
		WriteTimeout: s.cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("╔════════════════════════════════════════════════════╗")
		s.log.Info("║   Spydus Cataloguing Assistant                     ║")
		s.log.Info("╚════════════════════════════════════════════════════╝")
		s.log.Info("🚀 HTTP server started", "addr", s.cfg.Addr)
		s.log.Info("📌 Endpoints",
			"page", "GET /",
			"generate", "POST /api/generate",
			"ask", "POST /api/ask",
			"export", "POST /api/ask/export",
			"mcp", "/mcp",
			"health", "GET /health",
		)
		s.log.Info("⚠️  Press Ctrl+C to stop the server")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("❌ Server shutdown error", "error", err)
		return err
	}
	s.log.Info("✅ Server stopped gracefully")
	return nil
}
