package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/khawaidev/koye-ai-cli-start/internal/auth"
	"github.com/khawaidev/koye-ai-cli-start/internal/config"
	"github.com/khawaidev/koye-ai-cli-start/internal/http/handlers"
	"github.com/khawaidev/koye-ai-cli-start/internal/identity"
	"github.com/khawaidev/koye-ai-cli-start/internal/middleware"
	"github.com/khawaidev/koye-ai-cli-start/internal/scripts"
)

// ServiceName identifies this process in health responses and logs.
const ServiceName = "koye-start-server"

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, provider identity.Provider) (*Server, error) {
	bundle, err := scripts.Render(scripts.Params{
		StartServerURL: cfg.StartServerURL,
		MainServerURL:  cfg.MainServerURL,
		WebURL:         cfg.WebURL,
		CLIVersion:     cfg.CLIVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("render scripts: %w", err)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret)
	serverURLs := handlers.ServerURLs{
		Start: cfg.StartServerURL,
		Main:  cfg.MainServerURL,
		Web:   cfg.WebURL,
	}

	mux := http.NewServeMux()
	handlers.NewHealthHandler(ServiceName, cfg.CLIVersion).Register(mux)
	handlers.NewScriptsHandler(bundle, cfg.CLIVersion, serverURLs).Register(mux)
	handlers.NewAuthHandler(provider, tokens, cfg.WebURL, nil).Register(mux)

	profile := handlers.NewProfileHandler(provider, nil)
	requireAuth := middleware.RequireAuth(tokens)
	mux.Handle("GET /user/profile", requireAuth(http.HandlerFunc(profile.Profile)))
	mux.Handle("GET /auth/validate", requireAuth(http.HandlerFunc(profile.Validate)))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	})
	handler := corsHandler.Handler(middleware.Logging(mux))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}, nil
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
