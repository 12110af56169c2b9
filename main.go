package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/vladimiradmaev/diatrack/internal/auth"
	"github.com/vladimiradmaev/diatrack/internal/cache"
	"github.com/vladimiradmaev/diatrack/internal/config"
	"github.com/vladimiradmaev/diatrack/internal/database"
	apperrors "github.com/vladimiradmaev/diatrack/internal/errors"
	"github.com/vladimiradmaev/diatrack/internal/logger"
	"github.com/vladimiradmaev/diatrack/internal/repository"
	"github.com/vladimiradmaev/diatrack/internal/risk"
	"github.com/vladimiradmaev/diatrack/internal/server"
	"github.com/vladimiradmaev/diatrack/internal/server/handlers"
	"github.com/vladimiradmaev/diatrack/internal/services"
)

type predictionCache interface {
	risk.PredictionCache
	io.Closer
}

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}

	if err := logger.InitWithConfig(cfg.LoggerSettings()); err != nil {
		logger.Fatal("Failed to initialize logger", "error", err)
	}
	logger.Info("Starting risk scoring service",
		"port", cfg.Server.Port,
		"gin_mode", cfg.Server.GinMode,
		"predictor_url", cfg.Predictor.URL,
	)

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	var predictions predictionCache
	if cfg.Redis.Host != "" {
		predictions, err = cache.NewRedisCache(cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", "error", err)
		}
		logger.Info("Using Redis for last risk score", "host", cfg.Redis.Host)
	} else {
		predictions = cache.NewMemoryCache(cfg.Redis.TTL)
		logger.Info("REDIS_HOST not set, keeping last risk score in memory")
	}
	defer predictions.Close()

	users := repository.NewUserRepository(db)
	readings := repository.NewReadingRepository(db)

	deps := handlers.Dependencies{
		UserService:    services.NewUserService(users),
		ReadingService: services.NewReadingService(readings),
		RiskService:    risk.NewService(readings, risk.NewClient(cfg.Predictor), predictions),
		Errors:         apperrors.NewHandler(logger.GetLogger()),
	}
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	deps.Tokens = tokens

	gin.SetMode(cfg.Server.GinMode)
	router := server.NewRouter(cfg.Server, tokens, deps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(cfg.Server, router).Start(ctx); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}
