package server

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/vladimiradmaev/diatrack/internal/config"
	"github.com/vladimiradmaev/diatrack/internal/logger"
	"github.com/vladimiradmaev/diatrack/internal/server/handlers"
)

const shutdownTimeout = 30 * time.Second

// NewRouter wires middleware and routes onto a gin engine.
func NewRouter(cfg config.ServerConfig, tokens TokenParser, deps handlers.Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(), recovery(deps.Errors), cors.New(corsConfig(cfg.AllowedOrigins)))

	r.GET("/", handlers.Root)
	r.GET("/healthz", handlers.Health)

	api := r.Group("/api")
	{
		authHandler := handlers.NewAuthHandler(deps)
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		protected := api.Group("")
		protected.Use(RequireAuth(tokens))

		protected.GET("/auth/me", authHandler.Me)

		readings := handlers.NewReadingHandler(deps)
		protected.POST("/readings", readings.Create)
		protected.GET("/readings", readings.List)
		protected.GET("/data/trend", readings.Trend)

		riskHandler := handlers.NewRiskHandler(deps)
		protected.GET("/data/risk-score", riskHandler.Score)
		protected.POST("/data/risk-score", riskHandler.Score)
		protected.GET("/data/risk-score/last", riskHandler.Last)
		protected.POST("/ai/predict", riskHandler.Score)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	// Credentials cannot be combined with a wildcard origin.
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

// Server runs the HTTP API until its context is cancelled.
type Server struct {
	http *http.Server
}

func New(cfg config.ServerConfig, handler http.Handler) *Server {
	return &Server{
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server gracefully stopped")
	return nil
}
