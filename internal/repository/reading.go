package repository

import (
	"context"

	"github.com/vladimiradmaev/diatrack/internal/database"
	apperrors "github.com/vladimiradmaev/diatrack/internal/errors"
	"gorm.io/gorm"
)

// ReadingRepository is the Reading Store backed by PostgreSQL.
type ReadingRepository struct {
	db *gorm.DB
}

func NewReadingRepository(db *gorm.DB) *ReadingRepository {
	return &ReadingRepository{db: db}
}

func (r *ReadingRepository) InsertReading(ctx context.Context, reading *database.Reading) error {
	if err := r.db.WithContext(ctx).Create(reading).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// LatestReadings returns up to limit readings of the user, newest first.
// Ties on reading_date are broken by id so the order is stable.
func (r *ReadingRepository) LatestReadings(ctx context.Context, userID uint, limit int) ([]database.Reading, error) {
	var readings []database.Reading
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("reading_date DESC").
		Order("id DESC").
		Limit(limit).
		Find(&readings).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return readings, nil
}

// LatestReading returns the most recent reading of the user, or nil when
// the user has never logged one.
func (r *ReadingRepository) LatestReading(ctx context.Context, userID uint) (*database.Reading, error) {
	readings, err := r.LatestReadings(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, nil
	}
	return &readings[0], nil
}
