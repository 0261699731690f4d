// Package server exposes the view pipeline and aggregation engine over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/studioops/reelflow/internal/core/logging"
	"github.com/studioops/reelflow/internal/engine"
)

// Server wraps the gin engine with the application services.
type Server struct {
	app  *engine.App
	log  zerolog.Logger
	http *http.Server
}

// New builds the HTTP server and its routes.
func New(app *engine.App) *Server {
	s := &Server{
		app: app,
		log: logging.Component("http"),
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	api := router.Group("/api")
	{
		api.GET("/tasks", s.listTasks)
		api.POST("/tasks", s.createTask)
		api.POST("/tasks/:id/status", s.updateStatus)
		api.POST("/tasks/:id/assign", s.assignTask)
		api.POST("/tasks/:id/approval", s.routeToApproval)
		api.POST("/tasks/:id/revision", s.requestRevision)

		api.GET("/reports/:dimension", s.reportByDimension)
		api.GET("/trend", s.trend)
	}

	s.http = &http.Server{
		Addr:              app.Config.Listen,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.log.Info().Str("addr", s.http.Addr).Msg("http server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}
