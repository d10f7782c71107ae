//go:build !integration

package trainer

import (
	"context"
	"errors"
	"testing"

	"animeRecommendator/domain"
	"animeRecommendator/internal/repository/memory"
)

type stubRatingRepo struct {
	ratings []domain.Rating
	err     error

	entered chan struct{}
	release chan struct{}
}

func (s *stubRatingRepo) FindAll(ctx context.Context) ([]domain.Rating, error) {
	if s.entered != nil {
		s.entered <- struct{}{}
		<-s.release
	}
	return s.ratings, s.err
}

func trainingFeed() []domain.Rating {
	var feed []domain.Rating
	for userID, row := range fixtureMatrix() {
		for animeID, rating := range row {
			feed = append(feed, domain.Rating{UserID: userID, AnimeID: animeID, Rating: int(rating)})
		}
	}
	return feed
}

func TestTrainAssignsIncreasingVersions(t *testing.T) {
	repo := &stubRatingRepo{ratings: trainingFeed()}
	store := memory.NewModelStore()
	svc := NewTrainerService(repo, store, FilterConfig{MinUserRatings: 1, MinItemRatings: 1}, 3)

	ctx := context.Background()

	model, err := svc.Train(ctx)
	if err != nil {
		t.Fatalf("first Train: %v", err)
	}
	if model.Version != "v1" {
		t.Errorf("first version = %q, want v1", model.Version)
	}

	model, err = svc.Train(ctx)
	if err != nil {
		t.Fatalf("second Train: %v", err)
	}
	if model.Version != "v2" {
		t.Errorf("second version = %q, want v2", model.Version)
	}

	current, err := svc.CurrentVersion(ctx)
	if err != nil {
		t.Fatalf("CurrentVersion: %v", err)
	}
	if current != "v2" {
		t.Errorf("CurrentVersion = %q, want v2", current)
	}
}

func TestTrainPersistsLoadableModel(t *testing.T) {
	repo := &stubRatingRepo{ratings: trainingFeed()}
	store := memory.NewModelStore()
	svc := NewTrainerService(repo, store, FilterConfig{MinUserRatings: 1, MinItemRatings: 1}, 3)

	ctx := context.Background()
	if _, err := svc.Train(ctx); err != nil {
		t.Fatalf("Train: %v", err)
	}

	loaded, err := store.LoadCurrent(ctx)
	if err != nil {
		t.Fatalf("LoadCurrent: %v", err)
	}
	if _, ok := loaded.Similarity(1, 2); !ok {
		t.Error("persisted model lost the (1,2) pair")
	}
}

func TestTrainInsufficientData(t *testing.T) {
	repo := &stubRatingRepo{ratings: []domain.Rating{{UserID: 1, AnimeID: 10, Rating: 8}}}
	store := memory.NewModelStore()
	svc := NewTrainerService(repo, store, FilterConfig{MinUserRatings: 1, MinItemRatings: 1}, 3)

	ctx := context.Background()

	_, err := svc.Train(ctx)
	if !errors.Is(err, domain.ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}

	// A failed run must not move the version pointer.
	current, err := svc.CurrentVersion(ctx)
	if err != nil {
		t.Fatalf("CurrentVersion: %v", err)
	}
	if current != domain.VersionNone {
		t.Errorf("CurrentVersion = %q, want %q", current, domain.VersionNone)
	}
}

func TestTrainRejectsConcurrentRun(t *testing.T) {
	repo := &stubRatingRepo{
		ratings: trainingFeed(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	store := memory.NewModelStore()
	svc := NewTrainerService(repo, store, FilterConfig{MinUserRatings: 1, MinItemRatings: 1}, 3)

	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := svc.Train(ctx)
		done <- err
	}()

	<-repo.entered // first run is inside the repository call, holding the lock

	if _, err := svc.Train(ctx); !errors.Is(err, ErrTrainingInProgress) {
		t.Errorf("second Train err = %v, want ErrTrainingInProgress", err)
	}

	close(repo.release)
	if err := <-done; err != nil {
		t.Fatalf("first Train: %v", err)
	}
}
