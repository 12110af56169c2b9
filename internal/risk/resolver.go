package risk

import (
	"context"
	"fmt"
	"math"

	"github.com/vladimiradmaev/diatrack/internal/database"
	"github.com/vladimiradmaev/diatrack/internal/domain"
	apperrors "github.com/vladimiradmaev/diatrack/internal/errors"
)

const (
	DefaultCarbIntake = 60.0 // grams
	DefaultActivity   = 0.0  // minutes
)

// ReadingSource yields the most recent reading of a user, or nil if the
// user has none.
type ReadingSource interface {
	LatestReading(ctx context.Context, userID uint) (*database.Reading, error)
}

// Resolver builds the predictor input from overrides, the latest stored
// reading and fixed defaults, in that order of precedence, field by field.
type Resolver struct {
	readings ReadingSource
}

func NewResolver(readings ReadingSource) *Resolver {
	return &Resolver{readings: readings}
}

func (r *Resolver) Resolve(ctx context.Context, userID uint, overrides Overrides) (domain.RiskQueryInput, error) {
	latest, err := r.readings.LatestReading(ctx, userID)
	if err != nil {
		if _, ok := apperrors.As(err); ok {
			return domain.RiskQueryInput{}, err
		}
		return domain.RiskQueryInput{}, apperrors.NewDatabaseError(err)
	}
	if latest == nil {
		return domain.RiskQueryInput{}, apperrors.ErrNoReadings
	}
	if overrides.DecodeErr != nil {
		return domain.RiskQueryInput{}, apperrors.NewValidationError(overrides.DecodeErr.Error())
	}

	input := domain.RiskQueryInput{
		LatestBloodSugar: resolveField(overrides.LatestBloodSugar, &latest.BloodSugar, 0),
		CarbIntake:       resolveField(overrides.CarbIntake, latest.CarbIntake, DefaultCarbIntake),
		Activity:         resolveField(overrides.Activity, latest.Activity, DefaultActivity),
	}

	if err := validateInput(input); err != nil {
		return domain.RiskQueryInput{}, err
	}
	return input, nil
}

func resolveField(override domain.OptionalNumber, stored *float64, fallback float64) float64 {
	if override.Set {
		return override.Value
	}
	if stored != nil {
		return *stored
	}
	return fallback
}

func validateInput(in domain.RiskQueryInput) error {
	checks := []struct {
		name     string
		value    float64
		positive bool
	}{
		{"latest_blood_sugar", in.LatestBloodSugar, true},
		{"carb_intake", in.CarbIntake, false},
		{"activity", in.Activity, false},
	}

	for _, c := range checks {
		switch {
		case math.IsNaN(c.value) || math.IsInf(c.value, 0):
			return apperrors.NewValidationError(fmt.Sprintf("%s must be a finite number", c.name))
		case c.positive && c.value <= 0:
			return apperrors.NewValidationError(fmt.Sprintf("%s must be greater than zero", c.name))
		case c.value < 0:
			return apperrors.NewValidationError(fmt.Sprintf("%s must not be negative", c.name))
		}
	}
	return nil
}
