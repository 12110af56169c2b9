package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/vladimiradmaev/diatrack/internal/database"
	"github.com/vladimiradmaev/diatrack/internal/domain"
	apperrors "github.com/vladimiradmaev/diatrack/internal/errors"
)

type memoryReadingStore struct {
	readings  []database.Reading
	lastLimit int
}

func (m *memoryReadingStore) InsertReading(ctx context.Context, r *database.Reading) error {
	r.ID = uint(len(m.readings) + 1)
	m.readings = append(m.readings, *r)
	return nil
}

// LatestReadings assumes readings were inserted oldest first.
func (m *memoryReadingStore) LatestReadings(ctx context.Context, userID uint, limit int) ([]database.Reading, error) {
	m.lastLimit = limit
	var out []database.Reading
	for i := len(m.readings) - 1; i >= 0 && len(out) < limit; i-- {
		if m.readings[i].UserID == userID {
			out = append(out, m.readings[i])
		}
	}
	return out, nil
}

func fptr(v float64) *float64 {
	return &v
}

func newTestReadingService() (*ReadingService, *memoryReadingStore) {
	store := &memoryReadingStore{}
	svc := NewReadingService(store)
	svc.now = func() time.Time { return time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC) }
	return svc, store
}

func TestAddReading_DefaultsUnitAndDate(t *testing.T) {
	svc, store := newTestReadingService()

	r, err := svc.AddReading(context.Background(), 3, domain.NewReading{
		BloodSugar: 145,
		CarbIntake: fptr(40),
		DietLog:    "  oatmeal  ",
	})
	if err != nil {
		t.Fatalf("AddReading() error = %v", err)
	}
	if r.Unit != "mg/dL" {
		t.Errorf("Unit = %q, want mg/dL", r.Unit)
	}
	if !r.ReadingDate.Equal(svc.now()) {
		t.Errorf("ReadingDate = %v, want now", r.ReadingDate)
	}
	if r.DietLog != "oatmeal" {
		t.Errorf("DietLog = %q", r.DietLog)
	}
	if r.Activity != nil {
		t.Errorf("Activity = %v, want nil", *r.Activity)
	}
	if len(store.readings) != 1 || store.readings[0].UserID != 3 {
		t.Errorf("stored = %+v", store.readings)
	}
}

func TestAddReading_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   domain.NewReading
	}{
		{"zero blood sugar", domain.NewReading{BloodSugar: 0}},
		{"NaN blood sugar", domain.NewReading{BloodSugar: math.NaN()}},
		{"implausible mg/dL", domain.NewReading{BloodSugar: 1500}},
		{"implausible mmol/L", domain.NewReading{BloodSugar: 60, Unit: domain.UnitMmolL}},
		{"unknown unit", domain.NewReading{BloodSugar: 100, Unit: "g/L"}},
		{"negative carbs", domain.NewReading{BloodSugar: 100, CarbIntake: fptr(-5)}},
		{"negative activity", domain.NewReading{BloodSugar: 100, Activity: fptr(-1)}},
		{"unknown meal type", domain.NewReading{BloodSugar: 100, MealType: "Feast"}},
		{"future date", domain.NewReading{BloodSugar: 100, ReadingDate: time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestReadingService()
			_, err := svc.AddReading(context.Background(), 1, tt.in)
			if !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("error = %v, want validation error", err)
			}
			if len(store.readings) != 0 {
				t.Error("invalid reading was stored")
			}
		})
	}
}

func TestAddReading_AcceptsMmol(t *testing.T) {
	svc, _ := newTestReadingService()
	r, err := svc.AddReading(context.Background(), 1, domain.NewReading{
		BloodSugar: 7.2,
		Unit:       domain.UnitMmolL,
		MealType:   domain.MealVeryHigh,
	})
	if err != nil {
		t.Fatalf("AddReading() error = %v", err)
	}
	if r.Unit != "mmol/L" || r.MealType != "Very High" {
		t.Errorf("reading = %+v", r)
	}
}

func TestListReadings_ClampsLimit(t *testing.T) {
	svc, store := newTestReadingService()

	for _, tt := range []struct{ in, want int }{{0, DefaultReadingLimit}, {-3, DefaultReadingLimit}, {10, 10}, {10000, MaxReadingLimit}} {
		if _, err := svc.ListReadings(context.Background(), 1, tt.in); err != nil {
			t.Fatal(err)
		}
		if store.lastLimit != tt.want {
			t.Errorf("limit %d → %d, want %d", tt.in, store.lastLimit, tt.want)
		}
	}
}

func TestTrend(t *testing.T) {
	svc, _ := newTestReadingService()
	ctx := context.Background()

	for _, in := range []domain.NewReading{
		{BloodSugar: 100},
		{BloodSugar: 150},
		{BloodSugar: 8, Unit: domain.UnitMmolL}, // 144 mg/dL
		{BloodSugar: 90},
	} {
		if _, err := svc.AddReading(ctx, 5, in); err != nil {
			t.Fatal(err)
		}
	}
	svc.AddReading(ctx, 6, domain.NewReading{BloodSugar: 300})

	readings, trend, err := svc.Trend(ctx, 5, 0)
	if err != nil {
		t.Fatalf("Trend() error = %v", err)
	}
	if len(readings) != 4 || trend.Count != 4 {
		t.Fatalf("count = %d/%d, want 4", len(readings), trend.Count)
	}
	if trend.Latest == nil || *trend.Latest != 90 {
		t.Errorf("Latest = %v, want 90", trend.Latest)
	}
	if trend.Min != 90 || trend.Max != 150 {
		t.Errorf("Min/Max = %v/%v, want 90/150", trend.Min, trend.Max)
	}
	if trend.Average != 121 {
		t.Errorf("Average = %v, want 121", trend.Average)
	}
	if trend.HighCount != 2 {
		t.Errorf("HighCount = %d, want 2", trend.HighCount)
	}
}

func TestTrend_Empty(t *testing.T) {
	svc, _ := newTestReadingService()
	readings, trend, err := svc.Trend(context.Background(), 9, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(readings) != 0 || trend.Count != 0 || trend.Latest != nil {
		t.Errorf("trend = %+v", trend)
	}
}
