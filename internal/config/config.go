package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vladimiradmaev/diatrack/internal/logger"
)

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Redis     RedisConfig
	Predictor PredictorConfig
	Auth      AuthConfig
	Logger    LoggerConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AllowedOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig is optional. An empty Host disables Redis and the last risk
// score is kept in process memory instead.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type PredictorConfig struct {
	URL     string
	Timeout time.Duration
}

type AuthConfig struct {
	JWTSecret   string
	TokenExpiry time.Duration
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

func parseOrigins(value string) []string {
	var origins []string
	for _, o := range strings.Split(value, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Load reads the configuration from the environment and collects every
// problem it finds instead of stopping at the first one.
func Load() (*Config, error) {
	var errs []error

	predictorTimeout, err := time.ParseDuration(getEnvOrDefault("PREDICTOR_TIMEOUT", "8s"))
	if err != nil || predictorTimeout <= 0 {
		errs = append(errs, fmt.Errorf("PREDICTOR_TIMEOUT must be a positive duration"))
	}

	cacheTTL, err := time.ParseDuration(getEnvOrDefault("RISK_CACHE_TTL", "24h"))
	if err != nil || cacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("RISK_CACHE_TTL must be a positive duration"))
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		errs = append(errs, fmt.Errorf("REDIS_DB must be an integer"))
	}

	expireHours, err := strconv.Atoi(getEnvOrDefault("JWT_EXPIRE_HOURS", "72"))
	if err != nil || expireHours <= 0 {
		errs = append(errs, fmt.Errorf("JWT_EXPIRE_HOURS must be a positive integer"))
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvOrDefault("PORT", "5000"),
			GinMode:        getEnvOrDefault("GIN_MODE", "release"),
			AllowedOrigins: parseOrigins(getEnvOrDefault("ALLOWED_ORIGINS", "*")),
		},
		DB: DBConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "diatrack"),
			SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
			TTL:      cacheTTL,
		},
		Predictor: PredictorConfig{
			URL:     os.Getenv("PREDICTOR_URL"),
			Timeout: predictorTimeout,
		},
		Auth: AuthConfig{
			JWTSecret:   os.Getenv("JWT_SECRET"),
			TokenExpiry: time.Duration(expireHours) * time.Hour,
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	if cfg.Predictor.URL == "" {
		errs = append(errs, fmt.Errorf("PREDICTOR_URL is required"))
	} else if !strings.HasPrefix(cfg.Predictor.URL, "http://") && !strings.HasPrefix(cfg.Predictor.URL, "https://") {
		errs = append(errs, fmt.Errorf("PREDICTOR_URL must be an http(s) URL"))
	}
	if cfg.Auth.JWTSecret == "" {
		errs = append(errs, fmt.Errorf("JWT_SECRET is required"))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// LoggerSettings converts the logger section into the logger package's own config.
func (c *Config) LoggerSettings() logger.Config {
	return logger.Config{
		Level:      c.Logger.Level,
		OutputPath: c.Logger.OutputPath,
		Format:     c.Logger.Format,
	}
}
