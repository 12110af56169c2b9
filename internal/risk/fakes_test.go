package risk

import (
	"context"
	"sync"

	"github.com/vladimiradmaev/diatrack/internal/database"
	"github.com/vladimiradmaev/diatrack/internal/domain"
)

type fakeReadings struct {
	latest *database.Reading
	err    error
	calls  int
}

func (f *fakeReadings) LatestReading(ctx context.Context, userID uint) (*database.Reading, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.latest == nil {
		return nil, nil
	}
	r := *f.latest
	return &r, nil
}

type fakePredictor struct {
	payload *Payload
	err     error
	inputs  []domain.RiskQueryInput
}

func (f *fakePredictor) Predict(ctx context.Context, input domain.RiskQueryInput) (*Payload, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	p := *f.payload
	return &p, nil
}

type fakeCache struct {
	mu     sync.Mutex
	stored map[uint]domain.CachedPrediction
	err    error
	block  bool
	calls  []storeCall
}

// storeCall is the state of the context StoreLast was called with.
type storeCall struct {
	err         error
	hasDeadline bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{stored: make(map[uint]domain.CachedPrediction)}
}

func (f *fakeCache) StoreLast(ctx context.Context, userID uint, p domain.CachedPrediction) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, hasDeadline := ctx.Deadline()
	f.calls = append(f.calls, storeCall{err: ctx.Err(), hasDeadline: hasDeadline})
	if f.err != nil {
		return f.err
	}
	f.stored[userID] = p
	return nil
}

func (f *fakeCache) Last(ctx context.Context, userID uint) (*domain.CachedPrediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.stored[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func ptr(v float64) *float64 {
	return &v
}

func storedReading(bloodSugar float64, carbs, activity *float64) *database.Reading {
	return &database.Reading{
		ID:         1,
		UserID:     42,
		BloodSugar: bloodSugar,
		Unit:       "mg/dL",
		CarbIntake: carbs,
		Activity:   activity,
	}
}
