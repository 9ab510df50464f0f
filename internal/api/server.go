// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api is the composition root of the HTTP surface.

Request path, outermost first: tracing and logging, panic recovery, CORS,
the per-IP budget, the request deadline, then either the probes or the
/api/v1 tree, where every request is authenticated once before the domain
routers see it.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/xcalibur215/mmhub/internal/admin"
	"github.com/xcalibur215/mmhub/internal/listing/property"
	"github.com/xcalibur215/mmhub/internal/moderation"
	"github.com/xcalibur215/mmhub/internal/platform/config"
	"github.com/xcalibur215/mmhub/internal/platform/constants"
	"github.com/xcalibur215/mmhub/internal/platform/middleware"
	"github.com/xcalibur215/mmhub/internal/users/account"
	"github.com/xcalibur215/mmhub/internal/users/auth"
)

// Server owns the router and the listening [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Handlers are the route sets mounted by [NewServer].
type Handlers struct {
	// Liveness is the /health handler. It answers 200 while the process runs.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It answers 503 when a dependency is down.
	Readiness http.HandlerFunc

	// Auth handles registration, login, refresh and /auth/me.
	Auth *auth.Handler

	// Accounts handles the /users surface.
	Accounts *account.Handler

	// Properties handles listing search and management.
	Properties *property.Handler

	// Moderation handles content flags and their review.
	Moderation *moderation.Handler

	// Admin handles the administrator console.
	Admin *admin.Handler
}

// NewServer builds the router. Anonymous requests and requests with a failed
// bearer pass authentication as anonymous; each mounted router applies its own
// gates, which report the bearer failure. ctx stops the rate
// limiter's sweeper.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, authenticator middleware.Authenticator, h Handlers) *Server {
	r := chi.NewRouter()

	// Load has already validated the proxy list.
	proxies, _ := cfg.ProxyPrefixes()
	r.Use(middleware.TrustProxies(proxies))
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.RateLimit(context))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(chimw.CleanPath)

	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Authenticate(authenticator))

		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/users", h.Accounts.Routes())
		api.Mount("/properties", h.Properties.Routes())
		api.Mount("/flags", h.Moderation.FlagRoutes())
		api.Mount("/moderation", h.Moderation.ReviewRoutes())
		api.Mount("/admin", h.Admin.Routes())
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

// Handler exposes the configured router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Lifecycle

// ListenAndServe blocks until the listener fails or [Server.Shutdown] runs.
func (s *Server) ListenAndServe() error {
	s.log.Info("http_server_listening", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and drains in-flight requests for at
// most drain.
func (s *Server) Shutdown(drain time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
