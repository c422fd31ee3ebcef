// Package server wires the application together: router, middleware, gate,
// handlers, and the HTTP server lifecycle.
//
// This is the composition root — every dependency is constructed and
// connected in New/setupRoutes, nowhere else. main.go only builds a Config
// and calls Start.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/vulncamp/vulnworld/internal/gate"
	"github.com/vulncamp/vulnworld/internal/handler"
	"github.com/vulncamp/vulnworld/internal/middleware"
	sqliteRepo "github.com/vulncamp/vulnworld/internal/repository/sqlite"
	"github.com/vulncamp/vulnworld/internal/service"
	"github.com/vulncamp/vulnworld/internal/session"
)

// Config holds everything the server needs from the environment.
type Config struct {
	Port        int
	TemplateDir string
	StaticDir   string
	DBPath      string

	// SessionSecret signs the session cookie. The shipped default is the
	// deliberately weak "VulnCamp"; see internal/session.
	SessionSecret string

	// SecretFile is the path the admin page reads and discloses.
	SecretFile string

	// Debug turns on verbose 500 pages (error text + stack trace).
	Debug bool
}

// Server owns the router and the database connection.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database, seeds the fixture data, and wires all routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Seed(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("seeding database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes builds the dependency graph and registers every route.
//
// MIDDLEWARE ORDER:
// RequestID → RealIP → Recoverer → request logger → gate. The gate comes
// last so its decisions are logged like any other response, and because it
// must run on every request — chi applies Use-middleware to unmatched
// paths too, so even 404s pass through the gate (a logged-out client never
// sees a 404, only the /register redirect).
func (s *Server) setupRoutes() error {
	sessions := session.NewCookieStore(s.config.SessionSecret)

	render, err := handler.NewRenderer(s.config.TemplateDir, s.config.Debug, s.logger)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	authService := service.NewAuthService(s.db.Users(), s.logger)
	postService := service.NewPostService(s.db.Users(), s.db.Posts(), s.logger)

	authHandler := handler.NewAuthHandler(authService, sessions, render, s.logger)
	contentHandler := handler.NewContentHandler(
		authService, postService, sessions, render, s.config.SecretFile, s.logger,
	)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// The one and only access-control point in the application.
	g := gate.New(sessions, s.logger, render.ServerError)
	s.router.Use(g.Middleware)

	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	s.router.Get("/", contentHandler.HandleIndex)
	s.router.Get("/register", authHandler.HandleRegister)
	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Get("/login", authHandler.HandleLogin)
	s.router.Post("/login", authHandler.HandleLogin)
	s.router.Get("/logout", authHandler.HandleLogout)
	s.router.Get("/admin", contentHandler.HandleAdmin)

	return nil
}

// Handler exposes the composed router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
			slog.Bool("debug", s.config.Debug),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
