// package server contains middleware & handlers for the mixtape playlist API
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 10 * time.Second

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, authentication, CORS, rate limiting, etc.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for self-routing HTTP handlers.
// Implementations serve a fixed set of mux patterns, such as the uploads file server.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Deps are the collaborators of a [Server].
type Deps struct {
	Accounts  Accounts
	Playlists Playlists
	Metrics   *Metrics
	Limiter   *LoginLimiter
	Logger    *log.Logger
}

// Server is the mixtape HTTP API.
type Server struct {
	cfg     shared.ServerConfig
	router  *BasicRouter
	handler http.Handler
	logger  *log.Logger
}

// New wires every route of the API onto a fresh [BasicRouter].
//
// Metrics and Limiter are created from cfg defaults when nil.
func New(cfg shared.ServerConfig, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics()
	}
	if deps.Limiter == nil {
		deps.Limiter = NewLoginLimiter(0, 0)
	}

	router := NewBasicRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		RequestLogger(logger),
		middleware.Recoverer,
		deps.Metrics.Middleware,
	)

	router.Handler(HealthHandler{})
	router.Handler(NewUploadsHandler(cfg.UploadDir))
	router.Handle(http.MethodGet, "/metrics", deps.Metrics.Handler())

	accounts := NewAccountHandler(deps.Accounts, logger)
	router.HandleFunc(http.MethodPost, "/api/register", accounts.Register)
	router.With(deps.Limiter.Middleware).HandleFunc(http.MethodPost, "/api/login", accounts.Login)

	authed := router.With(RequireAuth(deps.Accounts, logger))
	authed.HandleFunc(http.MethodPost, "/api/logout", accounts.Logout)

	playlists := NewPlaylistHandler(deps.Playlists, NewUploadStore(cfg.UploadDir, cfg.MaxUploadBytes()), logger)
	authed.HandleFunc(http.MethodGet, "/api/playlists", playlists.List)
	authed.HandleFunc(http.MethodPost, "/api/playlists", playlists.Create)
	authed.HandleFunc(http.MethodDelete, "/api/playlists/{name}", playlists.Delete)
	authed.HandleFunc(http.MethodPost, "/api/playlists/{name}/videos", playlists.AddVideo)
	authed.HandleFunc(http.MethodDelete, "/api/playlists/{name}/videos/{videoId}", playlists.RemoveVideo)
	authed.HandleFunc(http.MethodPut, "/api/playlists/{name}/videos/{videoId}/rating", playlists.Rate)
	authed.HandleFunc(http.MethodPost, "/api/playlists/{name}/upload", playlists.Upload)

	return &Server{cfg: cfg, router: router, handler: CORS(cfg.AllowedOrigin)(router), logger: logger}
}

// Handler returns the root handler, for use with httptest.
//
// CORS wraps the whole router so preflight requests are answered for every path without a mux pattern.
func (s *Server) Handler() http.Handler { return s.handler }

// Run listens on the configured address until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout(),
		WriteTimeout: s.cfg.WriteTimeout(),
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errs
}
