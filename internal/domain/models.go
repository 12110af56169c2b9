package domain

import "time"

// Unit is the unit a blood sugar value was logged in.
type Unit string

const (
	UnitMgDL  Unit = "mg/dL"
	UnitMmolL Unit = "mmol/L"
)

const mgPerMmol = 18.0

// Valid reports whether u is one of the supported units.
func (u Unit) Valid() bool {
	return u == UnitMgDL || u == UnitMmolL
}

// ToMgDL converts value from u into mg/dL.
func (u Unit) ToMgDL(value float64) float64 {
	if u == UnitMmolL {
		return value * mgPerMmol
	}
	return value
}

// MealType is the size category the user picks for the meal around a reading.
type MealType string

const (
	MealLight    MealType = "Light"
	MealModerate MealType = "Moderate"
	MealHigh     MealType = "High"
	MealVeryHigh MealType = "Very High"
)

func (m MealType) Valid() bool {
	switch m {
	case "", MealLight, MealModerate, MealHigh, MealVeryHigh:
		return true
	}
	return false
}

// NewReading is what a user submits when logging a reading.
type NewReading struct {
	BloodSugar  float64
	Unit        Unit
	ReadingDate time.Time
	CarbIntake  *float64
	Activity    *float64
	MealType    MealType
	DietLog     string
	ActivityLog string
}

// RiskQueryInput is the feature vector sent to the risk predictor.
type RiskQueryInput struct {
	LatestBloodSugar float64 `json:"latest_blood_sugar"`
	CarbIntake       float64 `json:"carb_intake"`
	Activity         float64 `json:"activity"`
}

// RiskPrediction is the caller facing result of one risk query. RiskLevel,
// Recommendation and ModelUsed are passed through from the predictor as
// decoded, so a numeric risk level stays numeric.
type RiskPrediction struct {
	Success         bool    `json:"success"`
	RiskLevel       any     `json:"risk_level"`
	RiskProbability float64 `json:"risk_probability"`
	Recommendation  any     `json:"recommendation"`
	ModelUsed       any     `json:"model_used"`
	AIReading       float64 `json:"ai_reading"`
	CarbIntake      float64 `json:"carb_intake"`
	Activity        float64 `json:"activity"`
	Message         string  `json:"message"`
}

// CachedPrediction is the last successful prediction kept for a user.
type CachedPrediction struct {
	RiskPrediction
	ComputedAt time.Time `json:"computed_at"`
}

// Trend summarises the most recent readings for the dashboard. Values are
// in mg/dL regardless of the unit each reading was logged in.
type Trend struct {
	Count     int      `json:"count"`
	Average   float64  `json:"average"`
	Min       float64  `json:"min"`
	Max       float64  `json:"max"`
	HighCount int      `json:"high_count"`
	Latest    *float64 `json:"latest"`
}
