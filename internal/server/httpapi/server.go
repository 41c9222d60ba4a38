// Package httpapi exposes the exception and auth services over a JSON REST
// API built on echo.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/trainpi/internal/common"
	"github.com/dmitrijs2005/trainpi/internal/logging"
	"github.com/dmitrijs2005/trainpi/internal/server/services"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address    string
	echo       *echo.Echo
	exceptions services.Exceptions
	users      services.Users
	logger     logging.Logger
	jwtSecret  []byte
}

func NewServer(address string, l logging.Logger, us services.Users, es services.Exceptions, secretKey string) *Server {
	s := &Server{
		address:    address,
		echo:       echo.New(),
		exceptions: es,
		users:      us,
		logger:     l.With("module", "http_server"),
		jwtSecret:  []byte(secretKey),
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.HTTPErrorHandler = s.errorHandler
	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator:    uuid.NewString,
		TargetHeader: common.RequestIDHeaderName,
	}))
	e.Use(s.requestLogger)

	e.GET("/health", s.health)
	e.POST("/auth/register", s.register)
	e.POST("/auth/login", s.login)

	g := e.Group("/exceptions", s.requireAuth)
	g.GET("", s.listExceptions)
	g.POST("", s.createException)
	g.POST("/:id/clear", s.clearException)
}

// ServeHTTP lets tests drive the router without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		started := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		req := c.Request()
		s.logger.Info(req.Context(), "request",
			"method", req.Method,
			"path", c.Path(),
			"status", c.Response().Status,
			"duration_ms", time.Since(started).Milliseconds(),
			"request_id", c.Response().Header().Get(common.RequestIDHeaderName),
		)
		return nil
	}
}
