package risk

import (
	"context"
	"time"

	"github.com/vladimiradmaev/diatrack/internal/domain"
	apperrors "github.com/vladimiradmaev/diatrack/internal/errors"
	"github.com/vladimiradmaev/diatrack/internal/logger"
)

const defaultCacheWriteTimeout = 500 * time.Millisecond

// PredictionCache keeps the last successful prediction per user. Last
// returns nil when nothing is cached.
type PredictionCache interface {
	StoreLast(ctx context.Context, userID uint, prediction domain.CachedPrediction) error
	Last(ctx context.Context, userID uint) (*domain.CachedPrediction, error)
}

// Service runs one risk query end to end: resolve, predict, normalize.
// It holds no per-request state.
type Service struct {
	resolver          *Resolver
	predictor         Predictor
	cache             PredictionCache
	cacheWriteTimeout time.Duration
	now               func() time.Time
}

// NewService wires the pipeline. cache may be nil.
func NewService(readings ReadingSource, predictor Predictor, cache PredictionCache) *Service {
	return &Service{
		resolver:          NewResolver(readings),
		predictor:         predictor,
		cache:             cache,
		cacheWriteTimeout: defaultCacheWriteTimeout,
		now:               time.Now,
	}
}

// Score computes the risk prediction for userID. A returned error can be
// passed to Translate.
func (s *Service) Score(ctx context.Context, userID uint, overrides Overrides) (*domain.RiskPrediction, error) {
	if userID == 0 {
		return nil, apperrors.ErrUnauthorized
	}

	input, err := s.resolver.Resolve(ctx, userID, overrides)
	if err != nil {
		return nil, err
	}

	log := logger.WithContext(ctx)
	log.Info("Querying risk predictor",
		"user_id", userID,
		"latest_blood_sugar", input.LatestBloodSugar,
		"carb_intake", input.CarbIntake,
		"activity", input.Activity,
	)

	payload, err := s.predictor.Predict(ctx, input)
	if err != nil {
		return nil, err
	}

	prediction := Normalize(*payload, input)

	if s.cache != nil {
		cached := domain.CachedPrediction{RiskPrediction: prediction, ComputedAt: s.now().UTC()}
		// The write is bounded separately so a slow cache costs at most
		// cacheWriteTimeout and a client disconnect does not abort it.
		storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cacheWriteTimeout)
		err := s.cache.StoreLast(storeCtx, userID, cached)
		cancel()
		if err != nil {
			log.Warn("Failed to cache risk prediction", "user_id", userID, "error", err)
		}
	}

	return &prediction, nil
}

// Last returns the most recent successful prediction for userID, or nil.
func (s *Service) Last(ctx context.Context, userID uint) (*domain.CachedPrediction, error) {
	if userID == 0 {
		return nil, apperrors.ErrUnauthorized
	}
	if s.cache == nil {
		return nil, nil
	}
	cached, err := s.cache.Last(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return cached, nil
}
