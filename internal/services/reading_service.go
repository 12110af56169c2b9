package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vladimiradmaev/diatrack/internal/database"
	"github.com/vladimiradmaev/diatrack/internal/domain"
	apperrors "github.com/vladimiradmaev/diatrack/internal/errors"
)

const (
	DefaultReadingLimit = 50
	MaxReadingLimit     = 500
	DefaultTrendLimit   = 7

	// HighThresholdMgDL marks a reading as high on the dashboard.
	HighThresholdMgDL = 140.0
	maxBloodSugarMgDL = 1000.0
	maxNoteLength     = 1000
)

// ReadingStore is the persistence the reading service needs.
type ReadingStore interface {
	InsertReading(ctx context.Context, reading *database.Reading) error
	LatestReadings(ctx context.Context, userID uint, limit int) ([]database.Reading, error)
}

type ReadingService struct {
	store ReadingStore
	now   func() time.Time
}

func NewReadingService(store ReadingStore) *ReadingService {
	return &ReadingService{
		store: store,
		now:   time.Now,
	}
}

// AddReading validates and stores a new reading for userID.
func (s *ReadingService) AddReading(ctx context.Context, userID uint, in domain.NewReading) (*database.Reading, error) {
	if in.Unit == "" {
		in.Unit = domain.UnitMgDL
	}
	if err := s.validate(in); err != nil {
		return nil, err
	}

	readingDate := in.ReadingDate
	if readingDate.IsZero() {
		readingDate = s.now()
	}

	reading := &database.Reading{
		UserID:      userID,
		BloodSugar:  in.BloodSugar,
		Unit:        string(in.Unit),
		ReadingDate: readingDate.UTC(),
		CarbIntake:  in.CarbIntake,
		Activity:    in.Activity,
		MealType:    string(in.MealType),
		DietLog:     strings.TrimSpace(in.DietLog),
		ActivityLog: strings.TrimSpace(in.ActivityLog),
	}

	if err := s.store.InsertReading(ctx, reading); err != nil {
		return nil, err
	}
	return reading, nil
}

func (s *ReadingService) validate(in domain.NewReading) error {
	if !in.Unit.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("unit must be %q or %q", domain.UnitMgDL, domain.UnitMmolL))
	}
	if !isFinite(in.BloodSugar) || in.BloodSugar <= 0 || in.Unit.ToMgDL(in.BloodSugar) > maxBloodSugarMgDL {
		return apperrors.NewValidationError("bloodSugar must be a positive number within a measurable range")
	}
	if in.CarbIntake != nil && (!isFinite(*in.CarbIntake) || *in.CarbIntake < 0) {
		return apperrors.NewValidationError("carbIntake must not be negative")
	}
	if in.Activity != nil && (!isFinite(*in.Activity) || *in.Activity < 0) {
		return apperrors.NewValidationError("activity must not be negative")
	}
	if !in.MealType.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("unknown mealType %q", in.MealType))
	}
	if len(in.DietLog) > maxNoteLength || len(in.ActivityLog) > maxNoteLength {
		return apperrors.NewValidationError(fmt.Sprintf("notes must be at most %d characters", maxNoteLength))
	}
	if !in.ReadingDate.IsZero() && in.ReadingDate.After(s.now().Add(5*time.Minute)) {
		return apperrors.NewValidationError("readingDate must not be in the future")
	}
	return nil
}

// ListReadings returns the user's readings, newest first.
func (s *ReadingService) ListReadings(ctx context.Context, userID uint, limit int) ([]database.Reading, error) {
	return s.store.LatestReadings(ctx, userID, clampLimit(limit, DefaultReadingLimit))
}

// Trend summarises the last limit readings in mg/dL.
func (s *ReadingService) Trend(ctx context.Context, userID uint, limit int) ([]database.Reading, domain.Trend, error) {
	readings, err := s.store.LatestReadings(ctx, userID, clampLimit(limit, DefaultTrendLimit))
	if err != nil {
		return nil, domain.Trend{}, err
	}
	return readings, summarize(readings), nil
}

func summarize(readings []database.Reading) domain.Trend {
	var trend domain.Trend
	if len(readings) == 0 {
		return trend
	}

	var sum float64
	trend.Min = math.Inf(1)
	trend.Max = math.Inf(-1)
	for i, r := range readings {
		v := domain.Unit(r.Unit).ToMgDL(r.BloodSugar)
		if i == 0 {
			latest := v
			trend.Latest = &latest
		}
		sum += v
		trend.Min = math.Min(trend.Min, v)
		trend.Max = math.Max(trend.Max, v)
		if v > HighThresholdMgDL {
			trend.HighCount++
		}
	}
	trend.Count = len(readings)
	trend.Average = math.Round(sum/float64(len(readings))*10) / 10
	return trend
}

func clampLimit(limit, fallback int) int {
	switch {
	case limit <= 0:
		return fallback
	case limit > MaxReadingLimit:
		return MaxReadingLimit
	default:
		return limit
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
