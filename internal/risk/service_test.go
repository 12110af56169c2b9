package risk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vladimiradmaev/diatrack/internal/domain"
	apperrors "github.com/vladimiradmaev/diatrack/internal/errors"
)

var mediumPayload = &Payload{
	RiskLevel:       "Medium",
	RiskProbability: 0.42,
	Recommendation:  "Medium Risk: Monitor closely, manage carb intake, and stay active.",
	ModelUsed:       "v1",
}

func TestScore_StoredReadingNoOverride(t *testing.T) {
	predictor := &fakePredictor{payload: mediumPayload}
	svc := NewService(&fakeReadings{latest: storedReading(145, ptr(40), ptr(10))}, predictor, nil)

	got, err := svc.Score(context.Background(), 42, Overrides{})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}

	want := domain.RiskPrediction{
		Success:         true,
		RiskLevel:       "Medium",
		RiskProbability: 0.42,
		Recommendation:  mediumPayload.Recommendation,
		ModelUsed:       "v1",
		AIReading:       145,
		CarbIntake:      40,
		Activity:        10,
		Message:         successMessage,
	}
	if *got != want {
		t.Errorf("Score() = %+v, want %+v", *got, want)
	}
}

func TestScore_ZeroCarbOverrideReachesPredictor(t *testing.T) {
	predictor := &fakePredictor{payload: mediumPayload}
	svc := NewService(&fakeReadings{latest: storedReading(145, ptr(40), ptr(10))}, predictor, nil)

	if _, err := svc.Score(context.Background(), 42, Overrides{CarbIntake: domain.Some(0)}); err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if len(predictor.inputs) != 1 {
		t.Fatalf("predictor called %d times, want 1", len(predictor.inputs))
	}
	if predictor.inputs[0].CarbIntake != 0 {
		t.Errorf("carb_intake sent = %v, want 0", predictor.inputs[0].CarbIntake)
	}
}

func TestScore_NoReadingNeverCallsPredictor(t *testing.T) {
	predictor := &fakePredictor{payload: mediumPayload}
	svc := NewService(&fakeReadings{}, predictor, nil)

	_, err := svc.Score(context.Background(), 42, Overrides{LatestBloodSugar: domain.Some(150)})
	if Translate(err).Status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (err = %v)", Translate(err).Status, err)
	}
	if len(predictor.inputs) != 0 {
		t.Error("predictor must not be called without a stored reading")
	}
}

func TestScore_NoIdentity(t *testing.T) {
	readings := &fakeReadings{latest: storedReading(145, nil, nil)}
	predictor := &fakePredictor{payload: mediumPayload}
	svc := NewService(readings, predictor, nil)

	for _, o := range []Overrides{{}, {LatestBloodSugar: domain.Some(300), CarbIntake: domain.Some(0)}} {
		_, err := svc.Score(context.Background(), 0, o)
		if Translate(err).Status != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", Translate(err).Status)
		}
	}
	if readings.calls != 0 {
		t.Error("reading store must not be touched without identity")
	}
	if len(predictor.inputs) != 0 {
		t.Error("predictor must not be called without identity")
	}
}

func TestScore_EchoMatchesSentInput(t *testing.T) {
	overrideSets := []Overrides{
		{},
		{LatestBloodSugar: domain.Some(210)},
		{CarbIntake: domain.Some(0), Activity: domain.Some(0)},
		{LatestBloodSugar: domain.Some(99.5), CarbIntake: domain.Some(12.25), Activity: domain.Some(60)},
	}

	for _, o := range overrideSets {
		predictor := &fakePredictor{payload: mediumPayload}
		svc := NewService(&fakeReadings{latest: storedReading(145, nil, ptr(5))}, predictor, nil)

		got, err := svc.Score(context.Background(), 42, o)
		if err != nil {
			t.Fatalf("Score(%+v) error = %v", o, err)
		}
		sent := predictor.inputs[0]
		if got.AIReading != sent.LatestBloodSugar || got.CarbIntake != sent.CarbIntake || got.Activity != sent.Activity {
			t.Errorf("echo %+v does not match sent %+v", got, sent)
		}
	}
}

func TestScore_PredictorFailuresPropagate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
	}{
		{"timeout", apperrors.NewTimeoutError(context.DeadlineExceeded, predictorName), KindUnavailable},
		{"rejected", apperrors.NewRejectedError(predictorName, map[string]any{"success": false}), KindRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := newFakeCache()
			svc := NewService(&fakeReadings{latest: storedReading(145, nil, nil)}, &fakePredictor{err: tt.err}, cache)

			_, err := svc.Score(context.Background(), 42, Overrides{})
			if Classify(err) != tt.kind {
				t.Errorf("Classify() = %v, want %v", Classify(err), tt.kind)
			}
			if len(cache.stored) != 0 {
				t.Error("failed predictions must not be cached")
			}
		})
	}
}

func TestScore_CachesSuccess(t *testing.T) {
	cache := newFakeCache()
	svc := NewService(&fakeReadings{latest: storedReading(145, ptr(40), ptr(10))}, &fakePredictor{payload: mediumPayload}, cache)
	fixed := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	if _, err := svc.Score(context.Background(), 42, Overrides{}); err != nil {
		t.Fatal(err)
	}

	last, err := svc.Last(context.Background(), 42)
	if err != nil {
		t.Fatal(err)
	}
	if last == nil || last.RiskLevel != "Medium" || !last.ComputedAt.Equal(fixed) {
		t.Errorf("Last() = %+v", last)
	}

	other, err := svc.Last(context.Background(), 7)
	if err != nil || other != nil {
		t.Errorf("Last() for another user = %+v, %v", other, err)
	}
}

func TestScore_CacheFailureDoesNotFailRequest(t *testing.T) {
	cache := newFakeCache()
	cache.err = errors.New("redis: connection refused")
	svc := NewService(&fakeReadings{latest: storedReading(145, nil, nil)}, &fakePredictor{payload: mediumPayload}, cache)

	if _, err := svc.Score(context.Background(), 42, Overrides{}); err != nil {
		t.Fatalf("Score() error = %v", err)
	}
}

func TestScore_SlowCacheIsBounded(t *testing.T) {
	cache := newFakeCache()
	cache.block = true
	svc := NewService(&fakeReadings{latest: storedReading(145, nil, nil)}, &fakePredictor{payload: mediumPayload}, cache)
	svc.cacheWriteTimeout = 20 * time.Millisecond

	start := time.Now()
	if _, err := svc.Score(context.Background(), 42, Overrides{}); err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Score() took %v with a stalled cache", elapsed)
	}
}

func TestScore_CacheWriteOutlivesRequestCancel(t *testing.T) {
	cache := newFakeCache()
	svc := NewService(&fakeReadings{latest: storedReading(145, nil, nil)}, &fakePredictor{payload: mediumPayload}, cache)

	// The fakes ignore ctx, so the request reaches the cache write even
	// though the caller has already gone away.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Score(ctx, 42, Overrides{}); err != nil {
		t.Fatal(err)
	}

	if len(cache.calls) != 1 {
		t.Fatalf("StoreLast called %d times, want 1", len(cache.calls))
	}
	if !cache.calls[0].hasDeadline {
		t.Error("cache write should carry its own deadline")
	}
	if cache.calls[0].err != nil {
		t.Errorf("cache write context err = %v, want live context", cache.calls[0].err)
	}
}

func TestLast_WithoutCache(t *testing.T) {
	svc := NewService(&fakeReadings{}, &fakePredictor{}, nil)
	last, err := svc.Last(context.Background(), 42)
	if err != nil || last != nil {
		t.Errorf("Last() = %v, %v; want nil, nil", last, err)
	}
}

// End to end against a fake predictor over HTTP.
func TestScore_ThroughHTTPClient(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var sent domain.RiskQueryInput
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&sent)
			json.NewEncoder(w).Encode(map[string]any{
				"success":          true,
				"risk_level":       "Medium",
				"risk_probability": 0.42,
				"recommendation":   "...",
				"model_used":       "v1",
			})
		}))
		defer srv.Close()

		svc := NewService(&fakeReadings{latest: storedReading(145, ptr(40), ptr(10))}, newTestClient(srv.URL, time.Second), nil)
		got, err := svc.Score(context.Background(), 42, Overrides{CarbIntake: domain.Some(0)})
		if err != nil {
			t.Fatalf("Score() error = %v", err)
		}
		if sent != (domain.RiskQueryInput{LatestBloodSugar: 145, CarbIntake: 0, Activity: 10}) {
			t.Errorf("sent = %+v", sent)
		}
		if got.AIReading != 145 || got.CarbIntake != 0 || got.Activity != 10 || got.RiskProbability != 0.42 {
			t.Errorf("got = %+v", got)
		}
	})

	t.Run("numeric risk level passes through", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":true,"risk_level":2,"risk_probability":0.4,"recommendation":"rest","model_used":"v2"}`))
		}))
		defer srv.Close()

		svc := NewService(&fakeReadings{latest: storedReading(145, nil, nil)}, newTestClient(srv.URL, time.Second), nil)
		got, err := svc.Score(context.Background(), 42, Overrides{})
		if err != nil {
			t.Fatalf("Score() error = %v", err)
		}
		out, _ := json.Marshal(got)
		if !strings.Contains(string(out), `"risk_level":2,`) {
			t.Errorf("response = %s, want numeric risk_level", out)
		}
	})

	t.Run("predictor times out", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		svc := NewService(&fakeReadings{latest: storedReading(145, nil, nil)}, newTestClient(srv.URL, 50*time.Millisecond), nil)
		_, err := svc.Score(context.Background(), 42, Overrides{})
		resp := Translate(err)
		if resp.Status != http.StatusInternalServerError || resp.Body["msg"] != MsgPredictorUnavailable {
			t.Fatalf("resp = %+v", resp)
		}
		if d, _ := resp.Body["details"].(string); d == "" {
			t.Error("expected transport diagnostic in details")
		}
	})

	t.Run("predictor says no", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":false}`))
		}))
		defer srv.Close()

		svc := NewService(&fakeReadings{latest: storedReading(145, nil, nil)}, newTestClient(srv.URL, time.Second), nil)
		_, err := svc.Score(context.Background(), 42, Overrides{})
		resp := Translate(err)
		if resp.Status != http.StatusInternalServerError || resp.Body["msg"] != MsgPredictorRejected {
			t.Fatalf("resp = %+v", resp)
		}
		details, ok := resp.Body["details"].(map[string]any)
		if !ok || details["success"] != false {
			t.Errorf("details = %v, want raw payload", resp.Body["details"])
		}
	})
}
