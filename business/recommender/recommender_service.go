package recommender

import (
	"context"
	"fmt"
	"sort"

	"animeRecommendator/business/trainer"
	"animeRecommendator/domain"
	"animeRecommendator/pkg/logger"
	"animeRecommendator/pkg/metrics"
	"animeRecommendator/pkg/trace"
)

// fallbackRatingFloor replaces the primary popularity floor when it would
// eliminate every candidate; a query never comes back empty solely because
// the floor was too strict.
const fallbackRatingFloor = 10

// Options are the caller-supplied query parameters. Weights are used as
// given; the engine does not validate that they sum to at most 1.
type Options struct {
	TopN           int
	MinRatingCount int
	GenreWeight    float64
	RatingWeight   float64
}

// DefaultSimilarOptions are the defaults for "anime similar to X" queries.
func DefaultSimilarOptions() Options {
	return Options{
		TopN:           20,
		MinRatingCount: 100,
		GenreWeight:    0.2,
		RatingWeight:   0.1,
	}
}

// DefaultUserOptions are the defaults for per-user recommendation queries.
func DefaultUserOptions() Options {
	opts := DefaultSimilarOptions()
	opts.TopN = 10
	return opts
}

func (o Options) normalized(fallback Options) Options {
	if o.TopN <= 0 {
		o.TopN = fallback.TopN
	}
	if o.MinRatingCount <= 0 {
		o.MinRatingCount = fallback.MinRatingCount
	}
	return o
}

// ---- Repository interfaces ----

type AnimeRepository interface {
	FindAll(ctx context.Context) ([]domain.Anime, error)
}

type RatingRepository interface {
	FindAll(ctx context.Context) ([]domain.Rating, error)
	FindByUser(ctx context.Context, userID int) ([]domain.Rating, error)
}

type ModelStore interface {
	LoadCurrent(ctx context.Context) (*domain.SimilarityModel, error)
}

// ---- Usecase / Service ----

type RecommenderService struct {
	animeRepo  AnimeRepository
	ratingRepo RatingRepository
	store      ModelStore
	cache      ResultCache
	filterCfg  trainer.FilterConfig
}

func NewRecommenderService(
	animeRepo AnimeRepository,
	ratingRepo RatingRepository,
	store ModelStore,
	cache ResultCache,
	filterCfg trainer.FilterConfig,
) *RecommenderService {
	if cache == nil {
		cache = NoopCache{}
	}
	return &RecommenderService{
		animeRepo:  animeRepo,
		ratingRepo: ratingRepo,
		store:      store,
		cache:      cache,
		filterCfg:  filterCfg,
	}
}

// animeStats is popularity evidence for one anime, computed over the
// filtered rating population, never the raw feed.
type animeStats struct {
	count int
	mean  float64
}

// SimilarAnime returns up to opts.TopN anime ranked by the blended score,
// most similar first. An anime absent from the model yields an empty result,
// not an error; only a missing model is surfaced as domain.ErrModelNotFound.
func (s *RecommenderService) SimilarAnime(ctx context.Context, animeID int, opts Options) ([]domain.ScoredAnime, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	opts = opts.normalized(DefaultSimilarOptions())

	model, err := s.store.LoadCurrent(ctx)
	if err != nil {
		return nil, err
	}

	key := similarCacheKey(model.Version, animeID, opts)
	if items, ok := s.cache.GetSimilar(ctx, key); ok {
		metrics.RecommendCacheTotal.WithLabelValues("hit").Inc()
		return items, nil
	}
	metrics.RecommendCacheTotal.WithLabelValues("miss").Inc()

	catalog, stats, err := s.loadQueryData(ctx)
	if err != nil {
		return nil, err
	}

	items := rankSimilar(model, animeID, catalog, stats, opts)

	logger.Debug("similar_anime",
		"trace_id", trace.TraceIDFromContext(ctx),
		"anime_id", animeID,
		"model_version", model.Version,
		"results", len(items),
	)

	s.cache.SetSimilar(ctx, key, items)
	return items, nil
}

// RecommendForUser fans the user's watched history through the similarity
// engine and merges the per-seed rankings into one list, averaging scores
// across seeds so consistent similarity beats incidental overlap. A user
// with no history gets an empty result and no error.
func (s *RecommenderService) RecommendForUser(ctx context.Context, userID int, opts Options) ([]domain.ScoredAnime, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	opts = opts.normalized(DefaultUserOptions())

	watched, err := s.ratingRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load watched history: %w", err)
	}
	if len(watched) == 0 {
		return []domain.ScoredAnime{}, nil
	}

	watchedSet := make(map[int]struct{}, len(watched))
	for _, r := range watched {
		watchedSet[r.AnimeID] = struct{}{}
	}
	seeds := make([]int, 0, len(watchedSet))
	for animeID := range watchedSet {
		seeds = append(seeds, animeID)
	}
	sort.Ints(seeds)

	model, err := s.store.LoadCurrent(ctx)
	if err != nil {
		return nil, err
	}

	catalog, stats, err := s.loadQueryData(ctx)
	if err != nil {
		return nil, err
	}

	type accum struct {
		item       domain.ScoredAnime
		sumFinal   float64
		sumSim     float64
		sumGenre   float64
		sumRating  float64
		seedHits   int
	}
	merged := make(map[int]*accum)

	for _, seed := range seeds {
		for _, cand := range rankSimilar(model, seed, catalog, stats, opts) {
			if _, ok := watchedSet[cand.AnimeID]; ok {
				continue
			}
			acc, ok := merged[cand.AnimeID]
			if !ok {
				acc = &accum{item: cand}
				merged[cand.AnimeID] = acc
			}
			acc.sumFinal += cand.FinalScore
			acc.sumSim += cand.Similarity
			acc.sumGenre += cand.GenreSimilarity
			acc.sumRating += cand.RatingProximity
			acc.seedHits++
		}
	}

	out := make([]domain.ScoredAnime, 0, len(merged))
	for _, acc := range merged {
		n := float64(acc.seedHits)
		item := acc.item
		item.FinalScore = acc.sumFinal / n
		item.Similarity = acc.sumSim / n
		item.GenreSimilarity = acc.sumGenre / n
		item.RatingProximity = acc.sumRating / n
		out = append(out, item)
	}

	sortCandidates(out)
	if len(out) > opts.TopN {
		out = out[:opts.TopN]
	}

	logger.Debug("recommend_for_user",
		"trace_id", trace.TraceIDFromContext(ctx),
		"user_id", userID,
		"seeds", len(seeds),
		"model_version", model.Version,
		"results", len(out),
	)

	return out, nil
}

// Watched returns the user's rating events joined with catalog names,
// ordered by anime id.
func (s *RecommenderService) Watched(ctx context.Context, userID int) ([]domain.WatchedAnime, error) {
	ratings, err := s.ratingRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load watched history: %w", err)
	}

	animes, err := s.animeRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load anime catalog: %w", err)
	}
	names := make(map[int]string, len(animes))
	for _, a := range animes {
		names[a.AnimeID] = a.Name
	}

	out := make([]domain.WatchedAnime, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, domain.WatchedAnime{
			AnimeID: r.AnimeID,
			Name:    names[r.AnimeID],
			Rating:  r.Rating,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].AnimeID < out[j].AnimeID })
	return out, nil
}

// loadQueryData loads the catalog and the popularity evidence derived from
// the filtered rating population.
func (s *RecommenderService) loadQueryData(ctx context.Context) (map[int]domain.Anime, map[int]animeStats, error) {
	animes, err := s.animeRepo.FindAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load anime catalog: %w", err)
	}
	catalog := make(map[int]domain.Anime, len(animes))
	for _, a := range animes {
		catalog[a.AnimeID] = a
	}

	ratings, err := s.ratingRepo.FindAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load ratings: %w", err)
	}
	filtered := trainer.Filter(ratings, s.filterCfg)

	stats := make(map[int]animeStats)
	sums := make(map[int]float64)
	for _, r := range filtered {
		st := stats[r.AnimeID]
		st.count++
		stats[r.AnimeID] = st
		sums[r.AnimeID] += float64(r.Rating)
	}
	for animeID, st := range stats {
		st.mean = sums[animeID] / float64(st.count)
		stats[animeID] = st
	}

	return catalog, stats, nil
}

// rankSimilar is the pure scoring core shared by both query types.
func rankSimilar(
	model *domain.SimilarityModel,
	animeID int,
	catalog map[int]domain.Anime,
	stats map[int]animeStats,
	opts Options,
) []domain.ScoredAnime {
	row := model.Row(animeID)
	if len(row) == 0 {
		return []domain.ScoredAnime{}
	}

	// Popularity floor, relaxed once if it eliminates everything.
	candidates := collectCandidates(row, animeID, stats, opts.MinRatingCount)
	if len(candidates) == 0 {
		candidates = collectCandidates(row, animeID, stats, fallbackRatingFloor)
	}
	if len(candidates) == 0 {
		return []domain.ScoredAnime{}
	}

	target := catalog[animeID]

	out := make([]domain.ScoredAnime, 0, len(candidates))
	for _, c := range candidates {
		cand := catalog[c.animeID]
		genreSim := genreSimilarity(target, cand)
		ratingProx := ratingProximity(target, cand)

		out = append(out, domain.ScoredAnime{
			AnimeID:         c.animeID,
			Name:            cand.Name,
			Genre:           cand.Genre,
			Rating:          cand.Rating,
			Similarity:      c.similarity,
			GenreSimilarity: genreSim,
			RatingProximity: ratingProx,
			FinalScore:      finalScore(c.similarity, genreSim, ratingProx, opts.GenreWeight, opts.RatingWeight),
		})
	}

	sortCandidates(out)
	if len(out) > opts.TopN {
		out = out[:opts.TopN]
	}
	return out
}

type rawCandidate struct {
	animeID    int
	similarity float64
}

func collectCandidates(row map[int]float64, selfID int, stats map[int]animeStats, floor int) []rawCandidate {
	out := make([]rawCandidate, 0, len(row))
	for animeID, sim := range row {
		if animeID == selfID {
			continue
		}
		if stats[animeID].count < floor {
			continue
		}
		out = append(out, rawCandidate{animeID: animeID, similarity: sim})
	}
	return out
}

// sortCandidates orders by final score descending with a stable ascending
// anime-id tie-break, so identical inputs always yield identical output.
func sortCandidates(items []domain.ScoredAnime) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].FinalScore != items[j].FinalScore {
			return items[i].FinalScore > items[j].FinalScore
		}
		return items[i].AnimeID < items[j].AnimeID
	})
}
