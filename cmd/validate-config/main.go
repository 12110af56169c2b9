package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/vladimiradmaev/diatrack/internal/config"
)

func main() {
	fmt.Println("🔍 Checking configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  .env file not found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Configuration is invalid:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Configuration is valid!")
	fmt.Printf("📋 Details:\n")
	fmt.Printf("  - Port: %s\n", cfg.Server.Port)
	fmt.Printf("  - Gin Mode: %s\n", cfg.Server.GinMode)
	fmt.Printf("  - Allowed Origins: %s\n", strings.Join(cfg.Server.AllowedOrigins, ", "))
	fmt.Printf("  - Predictor URL: %s\n", cfg.Predictor.URL)
	fmt.Printf("  - Predictor Timeout: %s\n", cfg.Predictor.Timeout)
	fmt.Printf("  - JWT Secret: %s\n", maskToken(cfg.Auth.JWTSecret))
	fmt.Printf("  - Token Expiry: %s\n", cfg.Auth.TokenExpiry)
	fmt.Printf("  - DB Host: %s\n", cfg.DB.Host)
	fmt.Printf("  - DB Port: %s\n", cfg.DB.Port)
	fmt.Printf("  - DB User: %s\n", cfg.DB.User)
	fmt.Printf("  - DB Name: %s\n", cfg.DB.DBName)
	fmt.Printf("  - DB Password: %s\n", maskToken(cfg.DB.Password))
	if cfg.Redis.Host == "" {
		fmt.Printf("  - Redis: <not set, in-memory cache>\n")
	} else {
		fmt.Printf("  - Redis: %s:%s (db %d)\n", cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.DB)
	}
	fmt.Printf("  - Risk Cache TTL: %s\n", cfg.Redis.TTL)
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}

func maskToken(token string) string {
	if token == "" {
		return "<not set>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
