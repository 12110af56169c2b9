package database

import (
	"embed"
	"fmt"
	"time"

	"github.com/vladimiradmaev/diatrack/internal/config"
	"github.com/vladimiradmaev/diatrack/internal/database/migrations"
	"github.com/vladimiradmaev/diatrack/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

//go:embed sql/*.sql
var sqlMigrations embed.FS

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Reading is one logged glucose measurement. Readings are never updated
// or deleted once stored.
type Reading struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user"`
	User        User      `json:"-"`
	BloodSugar  float64   `gorm:"not null" json:"bloodSugar"`
	Unit        string    `gorm:"size:8;not null;default:mg/dL" json:"unit"`
	ReadingDate time.Time `gorm:"not null" json:"readingDate"`
	CarbIntake  *float64  `json:"carbIntake"`
	Activity    *float64  `json:"activity"` // minutes
	MealType    string    `gorm:"size:16" json:"mealType,omitempty"`
	DietLog     string    `json:"dietLog,omitempty"`
	ActivityLog string    `json:"activityLog,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func dsn(cfg config.DBConfig) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
}

func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn(cfg)), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Tables first, the SQL migrations only add indexes on top of them.
	if err := db.AutoMigrate(&User{}, &Reading{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	if err := migrations.LoadSQLMigrations(sqlMigrations, "sql"); err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Database connection established and migrations completed",
		"host", cfg.Host, "db", cfg.DBName)
	return db, nil
}
