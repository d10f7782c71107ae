package trainer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"animeRecommendator/domain"
	"animeRecommendator/pkg/logger"
	"animeRecommendator/pkg/metrics"
	"animeRecommendator/pkg/trace"
)

// ErrTrainingInProgress is returned when a training run is already in
// flight; runs are never queued or coordinated beyond this guard.
var ErrTrainingInProgress = errors.New("a training run is already in progress")

// ---- Repository interfaces ----

type RatingRepository interface {
	FindAll(ctx context.Context) ([]domain.Rating, error)
}

// ModelStore persists versioned similarity models. Save must write the
// artifact before advancing the version pointer, so concurrent readers
// never observe a partially written model.
type ModelStore interface {
	Save(ctx context.Context, model *domain.SimilarityModel) error
	LoadCurrent(ctx context.Context) (*domain.SimilarityModel, error)
	CurrentVersion(ctx context.Context) (string, error)
}

// ---- Usecase / Service ----

type TrainerService struct {
	ratingRepo   RatingRepository
	store        ModelStore
	filterCfg    FilterConfig
	minCoRatings int

	mu sync.Mutex // serializes training runs
}

func NewTrainerService(
	ratingRepo RatingRepository,
	store ModelStore,
	filterCfg FilterConfig,
	minCoRatings int,
) *TrainerService {
	if minCoRatings <= 0 {
		minCoRatings = DefaultMinCoRatings
	}
	return &TrainerService{
		ratingRepo:   ratingRepo,
		store:        store,
		filterCfg:    filterCfg,
		minCoRatings: minCoRatings,
	}
}

// Train rebuilds the similarity model in full and publishes it under the
// next version. A failed run leaves the previous model active.
func (s *TrainerService) Train(ctx context.Context) (*domain.SimilarityModel, error) {
	if !s.mu.TryLock() {
		return nil, ErrTrainingInProgress
	}
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	tid := trace.TraceIDFromContext(ctx)
	start := time.Now()

	raw, err := s.ratingRepo.FindAll(ctx)
	if err != nil {
		metrics.TrainRunsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load ratings: %w", err)
	}

	filtered := Filter(raw, s.filterCfg)
	logger.Info("training_filtered_ratings",
		"trace_id", tid,
		"raw_events", len(raw),
		"kept_events", len(filtered),
	)

	matrix := BuildMatrix(filtered)

	model, err := BuildModel(matrix, s.minCoRatings)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientData) {
			metrics.TrainRunsTotal.WithLabelValues("insufficient_data").Inc()
		} else {
			metrics.TrainRunsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	current, err := s.store.CurrentVersion(ctx)
	if err != nil {
		metrics.TrainRunsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("read current model version: %w", err)
	}
	model.Version = NextVersion(current)

	if err := s.store.Save(ctx, model); err != nil {
		metrics.TrainRunsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("save model %s: %w", model.Version, err)
	}

	elapsed := time.Since(start)
	metrics.TrainDuration.Observe(elapsed.Seconds())
	metrics.TrainRunsTotal.WithLabelValues("success").Inc()
	metrics.CurrentModelVersion.Set(float64(VersionNumber(model.Version)))

	logger.Info("model_trained",
		"trace_id", tid,
		"version", model.Version,
		"num_users", model.Meta.UserCount,
		"num_anime", model.Meta.ItemCount,
		"duration_ms", elapsed.Milliseconds(),
	)

	return model, nil
}

// CurrentVersion reports the active model version, "none" when no training
// run has ever completed. It never fails on plain absence.
func (s *TrainerService) CurrentVersion(ctx context.Context) (string, error) {
	version, err := s.store.CurrentVersion(ctx)
	if err != nil {
		return "", fmt.Errorf("read current model version: %w", err)
	}
	return version, nil
}
