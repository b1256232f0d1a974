// Package server wires the dependency graph and the routes, and owns the
// HTTP serving loop including graceful shutdown. This is the composition
// root: directories, stores, services and handlers are all constructed
// here and nowhere else.
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

	"github.com/sakif/taskdeck/internal/auth"
	"github.com/sakif/taskdeck/internal/config"
	"github.com/sakif/taskdeck/internal/handler"
	"github.com/sakif/taskdeck/internal/metrics"
	"github.com/sakif/taskdeck/internal/middleware"
	"github.com/sakif/taskdeck/internal/repository/memory"
	"github.com/sakif/taskdeck/internal/service"
)

// Server holds the router and its dependencies. All state lives in the
// in-memory stores created in New, so restarting the process empties the
// service.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
}

// New builds the full dependency chain:
//
//	UserDirectory, TaskStore (memory) -> AuthService, TaskService
//	TokenService -> RequireAuth middleware and AuthService
//	services -> handlers -> routes
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	users := memory.NewUserDirectory()
	tasks := memory.NewTaskStore()
	collector := metrics.NewCollector()

	authService := service.NewAuthService(users, tokens, logger)
	taskService := service.NewTaskService(users, tasks, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	taskHandler := handler.NewTaskHandler(taskService, logger)

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
	}
	s.setupRoutes(tokens, collector, authHandler, taskHandler)
	return s, nil
}

// setupRoutes configures the middleware stack and the route table.
//
//	POST   /users       register
//	POST   /auth        login, returns a bearer token
//	POST   /tasks       create task            (bearer)
//	GET    /tasks       list own tasks         (bearer)
//	PUT    /tasks/{id}  update task            (bearer)
//	DELETE /tasks/{id}  delete task            (bearer)
//	GET    /healthz     liveness probe
//	GET    /metrics     Prometheus metrics
func (s *Server) setupRoutes(
	tokens *auth.TokenService,
	collector *metrics.Collector,
	authHandler *handler.AuthHandler,
	taskHandler *handler.TaskHandler,
) {
	s.router.Use(middleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger, collector))

	s.router.Post("/users", authHandler.HandleRegister)
	s.router.Post("/auth", authHandler.HandleLogin)

	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens, collector))
		r.Post("/tasks", taskHandler.HandleCreate)
		r.Get("/tasks", taskHandler.HandleList)
		r.Put("/tasks/{id}", taskHandler.HandleUpdate)
		r.Delete("/tasks/{id}", taskHandler.HandleDelete)
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	s.router.Handle("/metrics", collector.Handler())
}

// Handler exposes the configured router, mainly for tests that drive the
// server through httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests within the configured shutdown timeout.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", slog.String("addr", s.cfg.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
