package interfaces

import (
	"context"

	"github.com/vladimiradmaev/diatrack/internal/database"
	"github.com/vladimiradmaev/diatrack/internal/domain"
	"github.com/vladimiradmaev/diatrack/internal/risk"
)

// UserServiceInterface defines the contract for account operations
type UserServiceInterface interface {
	Register(ctx context.Context, email, password, name string) (*database.User, error)
	Authenticate(ctx context.Context, email, password string) (*database.User, error)
	GetUser(ctx context.Context, id uint) (*database.User, error)
}

// ReadingServiceInterface defines the contract for reading log operations
type ReadingServiceInterface interface {
	AddReading(ctx context.Context, userID uint, in domain.NewReading) (*database.Reading, error)
	ListReadings(ctx context.Context, userID uint, limit int) ([]database.Reading, error)
	Trend(ctx context.Context, userID uint, limit int) ([]database.Reading, domain.Trend, error)
}

// RiskServiceInterface defines the contract for risk scoring
type RiskServiceInterface interface {
	Score(ctx context.Context, userID uint, overrides risk.Overrides) (*domain.RiskPrediction, error)
	Last(ctx context.Context, userID uint) (*domain.CachedPrediction, error)
}

// TokenIssuer issues bearer tokens for authenticated users
type TokenIssuer interface {
	Issue(userID uint, email string) (string, error)
}
