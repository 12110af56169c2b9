package config

import (
	"strings"
	"testing"
	"time"

	"github.com/vladimiradmaev/diatrack/internal/logger"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("PREDICTOR_URL", "http://localhost:5001/predict_risk")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Predictor.Timeout != 8*time.Second {
		t.Errorf("Predictor.Timeout = %v, want 8s", cfg.Predictor.Timeout)
	}
	if cfg.Server.Port != "5000" {
		t.Errorf("Server.Port = %q, want 5000", cfg.Server.Port)
	}
	if cfg.Redis.Host != "" {
		t.Errorf("Redis.Host = %q, want empty", cfg.Redis.Host)
	}
	if cfg.Redis.TTL != 24*time.Hour {
		t.Errorf("Redis.TTL = %v, want 24h", cfg.Redis.TTL)
	}
	if cfg.Auth.TokenExpiry != 72*time.Hour {
		t.Errorf("Auth.TokenExpiry = %v, want 72h", cfg.Auth.TokenExpiry)
	}
	if cfg.Logger.Level != logger.LevelInfo {
		t.Errorf("Logger.Level = %v, want info", cfg.Logger.Level)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PREDICTOR_TIMEOUT", "2s")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Predictor.Timeout != 2*time.Second {
		t.Errorf("Predictor.Timeout = %v, want 2s", cfg.Predictor.Timeout)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Logger.Level != logger.LevelDebug {
		t.Errorf("Logger.Level = %v, want debug", cfg.Logger.Level)
	}
}

func TestLoad_CollectsAllErrors(t *testing.T) {
	t.Setenv("PREDICTOR_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PREDICTOR_TIMEOUT", "soon")

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error")
	}

	msg := err.Error()
	for _, want := range []string{"PREDICTOR_URL", "JWT_SECRET", "PREDICTOR_TIMEOUT"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %s", msg, want)
		}
	}
}

func TestLoad_RejectsNonHTTPPredictorURL(t *testing.T) {
	setRequired(t)
	t.Setenv("PREDICTOR_URL", "localhost:5001")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for predictor URL without scheme")
	}
}
