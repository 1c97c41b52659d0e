// Package api serves the task REST API and mounts the browser UI.
package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amonks/tasktree/internal/metrics"
	"github.com/amonks/tasktree/todo"
)

// ServerOptions configures a Server.
type ServerOptions struct {
	// Store is required.
	Store *todo.Store

	// Web serves /web/. Optional.
	Web http.Handler

	// Metrics records request counts and serves /metrics. Optional.
	Metrics *metrics.PrometheusRecorder

	// PaddingDays is the timeline padding used when a request does not set one.
	PaddingDays int

	Logger *log.Logger
}

// Server handles API requests.
type Server struct {
	store       *todo.Store
	web         http.Handler
	metrics     *metrics.PrometheusRecorder
	paddingDays int
	logger      *log.Logger
	router      *gin.Engine
}

const shutdownTimeout = 5 * time.Second

// NewServer creates an API server.
func NewServer(opts ServerOptions) (*Server, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "tt: ", log.LstdFlags)
	}

	s := &Server{
		store:       opts.Store,
		web:         opts.Web,
		metrics:     opts.Metrics,
		paddingDays: min(max(opts.PaddingDays, 0), todo.MaxPaddingDays),
		logger:      logger,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(
		gin.LoggerWithWriter(s.logger.Writer()),
		gin.CustomRecoveryWithWriter(s.logger.Writer(), s.recoverPanic),
		corsMiddleware(),
	)
	if s.metrics != nil {
		router.Use(metricsMiddleware(s.metrics))
		router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := router.Group("/api")
	{
		api.GET("/health", s.handleHealth)

		api.GET("/todos", s.handleListTodos)
		api.POST("/todos", s.handleCreateTodo)
		api.GET("/todos/:id", s.handleGetTodo)
		api.PATCH("/todos/:id", s.handleUpdateTodo)
		api.DELETE("/todos/:id", s.handleDeleteTodo)
		api.PATCH("/todos/:id/toggle", s.handleToggleTodo)

		api.GET("/tree", s.handleTree)
		api.GET("/timeline", s.handleTimeline)

		api.GET("/categories", s.handleListCategories)
		api.POST("/categories", s.handleCreateCategory)
		api.GET("/categories/:id", s.handleGetCategory)
		api.PATCH("/categories/:id", s.handleUpdateCategory)
		api.DELETE("/categories/:id", s.handleDeleteCategory)

		api.GET("/tags", s.handleListTags)
		api.POST("/tags", s.handleCreateTag)
		api.GET("/tags/:id", s.handleGetTag)
		api.PATCH("/tags/:id", s.handleUpdateTag)
		api.DELETE("/tags/:id", s.handleDeleteTag)
	}

	if s.web != nil {
		router.Any("/web/*path", gin.WrapH(s.web))
		router.GET("/web", func(c *gin.Context) {
			c.Redirect(http.StatusFound, "/web/")
		})
		router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusFound, "/web/")
		})
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	return router
}

// Handler returns the HTTP handler for the API and UI.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve runs the server on addr until ctx is done or an interrupt arrives,
// then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.ServeListener(ctx, listener)
}

// ServeListener is Serve on an existing listener.
func (s *Server) ServeListener(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           s.router,
		ErrorLog:          s.logger,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logf("listening on http://%s", listener.Addr())
	listenErrs := make(chan error, 1)
	go func() {
		listenErrs <- server.Serve(listener)
	}()

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	select {
	case err := <-listenErrs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logf("server stopped: %v", err)
			return err
		}
		return nil
	case <-interrupts:
		s.logf("interrupt received, shutting down")
	case <-ctx.Done():
		s.logf("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	shutdownErr := server.Shutdown(shutdownCtx)
	cancel()
	listenErr := <-listenErrs
	if errors.Is(listenErr, http.ErrServerClosed) {
		listenErr = nil
	}
	return errors.Join(shutdownErr, listenErr)
}

func (s *Server) recoverPanic(c *gin.Context, recovered any) {
	s.logf("panic handling request %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func (s *Server) logf(format string, args ...any) {
	if s == nil || s.logger == nil {
		return
	}
	s.logger.Printf(format, args...)
}
