// Copyright (c) 2026 Maktaba. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/maktaba/internal/catalog/book"
	"github.com/taibuivan/maktaba/internal/catalog/category"
	"github.com/taibuivan/maktaba/internal/platform/apperr"
	"github.com/taibuivan/maktaba/internal/platform/config"
	"github.com/taibuivan/maktaba/internal/platform/constants"
	"github.com/taibuivan/maktaba/internal/platform/middleware"
	"github.com/taibuivan/maktaba/internal/platform/respond"
	"github.com/taibuivan/maktaba/internal/users/account"
	"github.com/taibuivan/maktaba/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. It answers 200 while the process runs.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It answers 200 when postgres and redis respond.
	Readiness http.HandlerFunc

	// Auth handles registration, login and password flows.
	Auth *auth.Handler

	// Users serves the user directory.
	Users *account.Handler

	// Categories manages the category taxonomy.
	Categories *category.Handler

	// Books serves the catalog, including the tag routes under /books/tags.
	Books *book.Handler
}

// Info is the body of GET {API_PREFIX}.
type Info struct {
	Name      string            `json:"name"`
	Title     string            `json:"title"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups. The rate limiter's cleanup loop stops with context.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.CORS(cfg, cfg.CORSOrigins))
	r.Use(chimw.CleanPath)
	r.Use(middleware.Locale())
	r.Use(middleware.Authenticate(verifier))

	r.NotFound(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.NotFound("Route"))
	})

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route(cfg.APIPrefix, func(api chi.Router) {
		api.Get("/", serviceInfo(cfg.APIPrefix))
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/users", h.Users.Routes())
		api.Mount("/categories", h.Categories.Routes())
		api.Mount("/books", h.Books.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

func serviceInfo(prefix string) http.HandlerFunc {
	info := Info{
		Name:    constants.AppName,
		Title:   constants.AppTitle,
		Version: constants.AppVersion,
		Endpoints: map[string]string{
			"auth":       prefix + "/auth",
			"users":      prefix + "/users",
			"categories": prefix + "/categories",
			"books":      prefix + "/books",
			"tags":       prefix + "/books/tags",
			"health":     "/health",
			"ready":      "/ready",
		},
	}

	return func(writer http.ResponseWriter, _ *http.Request) {
		respond.OK(writer, constants.AppTitle+" is running", info)
	}
}

// Handler exposes the routed middleware chain.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
