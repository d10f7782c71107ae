//go:build !integration

package recommender

import (
	"context"
	"errors"
	"math"
	"testing"

	"animeRecommendator/business/trainer"
	"animeRecommendator/domain"
	"animeRecommendator/internal/repository/memory"
)

type fakeAnimeRepo struct {
	animes []domain.Anime
}

func (f *fakeAnimeRepo) FindAll(ctx context.Context) ([]domain.Anime, error) {
	return f.animes, nil
}

type fakeRatingRepo struct {
	ratings []domain.Rating
	err     error
}

func (f *fakeRatingRepo) FindAll(ctx context.Context) ([]domain.Rating, error) {
	return f.ratings, f.err
}

func (f *fakeRatingRepo) FindByUser(ctx context.Context, userID int) ([]domain.Rating, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Rating
	for _, r := range f.ratings {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

type recordingCache struct {
	entries map[string][]domain.ScoredAnime
	sets    int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{entries: make(map[string][]domain.ScoredAnime)}
}

func (c *recordingCache) GetSimilar(ctx context.Context, key string) ([]domain.ScoredAnime, bool) {
	items, ok := c.entries[key]
	return items, ok
}

func (c *recordingCache) SetSimilar(ctx context.Context, key string, items []domain.ScoredAnime) {
	c.entries[key] = items
	c.sets++
}

func fixtureCatalog() []domain.Anime {
	return []domain.Anime{
		{AnimeID: 1, Name: "Alpha", Genre: "Action, Drama, Fantasy", Rating: floatPtr(8.0)},
		{AnimeID: 2, Name: "Beta", Genre: "Action", Rating: floatPtr(7.0)},
		{AnimeID: 3, Name: "Gamma", Genre: "Comedy, Drama", Rating: floatPtr(9.0)},
		{AnimeID: 4, Name: "Delta"},
	}
}

func fixtureRatings() []domain.Rating {
	return []domain.Rating{
		{UserID: 1, AnimeID: 1, Rating: 8},
		{UserID: 1, AnimeID: 2, Rating: 7},
		{UserID: 1, AnimeID: 3, Rating: 9},
		{UserID: 2, AnimeID: 2, Rating: 6},
		{UserID: 2, AnimeID: 3, Rating: 8},
		{UserID: 2, AnimeID: 4, Rating: 5},
	}
}

func fixtureModel() *domain.SimilarityModel {
	return &domain.SimilarityModel{
		Version: "v1",
		Matrix: map[int]map[int]float64{
			1: {2: 0.9, 3: 0.5, 4: 0.5},
			2: {1: 0.9},
			3: {1: 0.5},
			4: {1: 0.5},
		},
		Meta: domain.ModelMeta{UserCount: 2, ItemCount: 4},
	}
}

func fixtureService(t *testing.T, cache ResultCache) (*RecommenderService, *memory.ModelStore) {
	t.Helper()
	store := memory.NewModelStore()
	if err := store.Save(context.Background(), fixtureModel()); err != nil {
		t.Fatalf("seed model: %v", err)
	}
	svc := NewRecommenderService(
		&fakeAnimeRepo{animes: fixtureCatalog()},
		&fakeRatingRepo{ratings: fixtureRatings()},
		store,
		cache,
		trainer.FilterConfig{MinUserRatings: 1, MinItemRatings: 1},
	)
	return svc, store
}

func TestSimilarAnimeOrdering(t *testing.T) {
	svc, _ := fixtureService(t, nil)

	got, err := svc.SimilarAnime(context.Background(), 1, Options{TopN: 10, MinRatingCount: 1})
	if err != nil {
		t.Fatalf("SimilarAnime: %v", err)
	}

	// Similarity only (zero weights): 2 at 0.9, then the 0.5 tie between
	// 3 and 4 broken by ascending anime id.
	wantIDs := []int{2, 3, 4}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d results, want %d", len(got), len(wantIDs))
	}
	for i, want := range wantIDs {
		if got[i].AnimeID != want {
			t.Errorf("result[%d].AnimeID = %d, want %d", i, got[i].AnimeID, want)
		}
	}
	if got[0].FinalScore != 0.9 {
		t.Errorf("result[0].FinalScore = %v, want 0.9", got[0].FinalScore)
	}
}

func TestSimilarAnimeDeterministic(t *testing.T) {
	svc, _ := fixtureService(t, nil)
	ctx := context.Background()
	opts := Options{TopN: 10, MinRatingCount: 1}

	first, err := svc.SimilarAnime(ctx, 1, opts)
	if err != nil {
		t.Fatalf("SimilarAnime: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := svc.SimilarAnime(ctx, 1, opts)
		if err != nil {
			t.Fatalf("SimilarAnime: %v", err)
		}
		for j := range first {
			if again[j].AnimeID != first[j].AnimeID {
				t.Fatalf("run %d position %d: anime %d, want %d", i, j, again[j].AnimeID, first[j].AnimeID)
			}
		}
	}
}

func TestSimilarAnimeWeightedBlend(t *testing.T) {
	svc, _ := fixtureService(t, nil)

	got, err := svc.SimilarAnime(context.Background(), 1, Options{
		TopN:           10,
		MinRatingCount: 1,
		GenreWeight:    0.2,
		RatingWeight:   0.1,
	})
	if err != nil {
		t.Fatalf("SimilarAnime: %v", err)
	}

	var gamma *domain.ScoredAnime
	for i := range got {
		if got[i].AnimeID == 3 {
			gamma = &got[i]
		}
	}
	if gamma == nil {
		t.Fatal("anime 3 missing from results")
	}

	// Alpha vs Gamma: one shared tag of four, ratings one point apart.
	if math.Abs(gamma.GenreSimilarity-0.25) > 1e-9 {
		t.Errorf("GenreSimilarity = %v, want 0.25", gamma.GenreSimilarity)
	}
	if math.Abs(gamma.RatingProximity-0.9) > 1e-9 {
		t.Errorf("RatingProximity = %v, want 0.9", gamma.RatingProximity)
	}
	// 0.7*0.5 + 0.2*0.25 + 0.1*0.9
	if math.Abs(gamma.FinalScore-0.49) > 1e-9 {
		t.Errorf("FinalScore = %v, want 0.49", gamma.FinalScore)
	}
}

func TestSimilarAnimeExcludesSelf(t *testing.T) {
	svc, _ := fixtureService(t, nil)

	got, err := svc.SimilarAnime(context.Background(), 1, Options{TopN: 10, MinRatingCount: 1})
	if err != nil {
		t.Fatalf("SimilarAnime: %v", err)
	}
	for _, item := range got {
		if item.AnimeID == 1 {
			t.Error("query anime present in its own results")
		}
	}
}

func TestSimilarAnimeUnknownAnime(t *testing.T) {
	svc, _ := fixtureService(t, nil)

	got, err := svc.SimilarAnime(context.Background(), 999, Options{TopN: 10, MinRatingCount: 1})
	if err != nil {
		t.Fatalf("SimilarAnime: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d results for an anime outside the model, want 0", len(got))
	}
}

func TestSimilarAnimeModelNotTrained(t *testing.T) {
	svc := NewRecommenderService(
		&fakeAnimeRepo{animes: fixtureCatalog()},
		&fakeRatingRepo{ratings: fixtureRatings()},
		memory.NewModelStore(),
		nil,
		trainer.FilterConfig{MinUserRatings: 1, MinItemRatings: 1},
	)

	_, err := svc.SimilarAnime(context.Background(), 1, Options{})
	if !errors.Is(err, domain.ErrModelNotFound) {
		t.Errorf("err = %v, want ErrModelNotFound", err)
	}
}

func TestSimilarAnimePopularityFloorFallback(t *testing.T) {
	// Anime 2 has twelve raters; anime 3 and 4 keep their sparse counts.
	// A floor of 100 eliminates everything, so the query retries at the
	// fallback floor and keeps only anime 2.
	ratings := fixtureRatings()
	for u := 10; u < 20; u++ {
		ratings = append(ratings, domain.Rating{UserID: u, AnimeID: 2, Rating: 7})
	}

	store := memory.NewModelStore()
	if err := store.Save(context.Background(), fixtureModel()); err != nil {
		t.Fatalf("seed model: %v", err)
	}
	svc := NewRecommenderService(
		&fakeAnimeRepo{animes: fixtureCatalog()},
		&fakeRatingRepo{ratings: ratings},
		store,
		nil,
		trainer.FilterConfig{MinUserRatings: 1, MinItemRatings: 1},
	)

	got, err := svc.SimilarAnime(context.Background(), 1, Options{TopN: 10, MinRatingCount: 100})
	if err != nil {
		t.Fatalf("SimilarAnime: %v", err)
	}
	if len(got) != 1 || got[0].AnimeID != 2 {
		t.Fatalf("got %v, want only anime 2 via the fallback floor", got)
	}
}

func TestSimilarAnimeUsesCache(t *testing.T) {
	cache := newRecordingCache()
	svc, _ := fixtureService(t, cache)
	ctx := context.Background()
	opts := Options{TopN: 10, MinRatingCount: 1}

	first, err := svc.SimilarAnime(ctx, 1, opts)
	if err != nil {
		t.Fatalf("first SimilarAnime: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", cache.sets)
	}

	second, err := svc.SimilarAnime(ctx, 1, opts)
	if err != nil {
		t.Fatalf("second SimilarAnime: %v", err)
	}
	if cache.sets != 1 {
		t.Errorf("cache sets = %d after hit, want still 1", cache.sets)
	}
	if len(second) != len(first) {
		t.Errorf("cached result length %d, want %d", len(second), len(first))
	}
}

func TestRecommendForUserExcludesWatched(t *testing.T) {
	svc, _ := fixtureService(t, nil)

	// User 1 watched anime 1, 2 and 3; only 4 may remain.
	got, err := svc.RecommendForUser(context.Background(), 1, Options{TopN: 10, MinRatingCount: 1})
	if err != nil {
		t.Fatalf("RecommendForUser: %v", err)
	}
	if len(got) != 1 || got[0].AnimeID != 4 {
		t.Fatalf("got %v, want only anime 4", got)
	}
}

func TestRecommendForUserAveragesAcrossSeeds(t *testing.T) {
	svc, _ := fixtureService(t, nil)

	// User 2 watched anime 2, 3 and 4; every seed points back at anime 1
	// with similarities 0.9, 0.5 and 0.5. The merged score is their mean,
	// not their sum.
	got, err := svc.RecommendForUser(context.Background(), 2, Options{TopN: 10, MinRatingCount: 1})
	if err != nil {
		t.Fatalf("RecommendForUser: %v", err)
	}
	if len(got) != 1 || got[0].AnimeID != 1 {
		t.Fatalf("got %v, want only anime 1", got)
	}

	want := (0.9 + 0.5 + 0.5) / 3
	if math.Abs(got[0].FinalScore-want) > 1e-9 {
		t.Errorf("FinalScore = %v, want mean %v", got[0].FinalScore, want)
	}
	if math.Abs(got[0].Similarity-want) > 1e-9 {
		t.Errorf("Similarity = %v, want mean %v", got[0].Similarity, want)
	}
}

func TestRecommendForUserEmptyHistory(t *testing.T) {
	svc, _ := fixtureService(t, nil)

	got, err := svc.RecommendForUser(context.Background(), 999, Options{})
	if err != nil {
		t.Fatalf("RecommendForUser: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
}

func TestWatchedJoinsCatalogNames(t *testing.T) {
	svc, _ := fixtureService(t, nil)

	got, err := svc.Watched(context.Background(), 1)
	if err != nil {
		t.Fatalf("Watched: %v", err)
	}

	want := []domain.WatchedAnime{
		{AnimeID: 1, Name: "Alpha", Rating: 8},
		{AnimeID: 2, Name: "Beta", Rating: 7},
		{AnimeID: 3, Name: "Gamma", Rating: 9},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
