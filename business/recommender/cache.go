package recommender

import (
	"context"
	"fmt"

	"animeRecommendator/domain"
)

// ResultCache caches similar-anime result lists. Entries are keyed by model
// version and query parameters, so a new training run naturally starts from
// a cold cache. Lookups and stores are best effort; a failing cache must
// never fail a query.
type ResultCache interface {
	GetSimilar(ctx context.Context, key string) ([]domain.ScoredAnime, bool)
	SetSimilar(ctx context.Context, key string, items []domain.ScoredAnime)
}

// NoopCache is the default implementation used when no cache is configured.
type NoopCache struct{}

func (NoopCache) GetSimilar(ctx context.Context, key string) ([]domain.ScoredAnime, bool) {
	return nil, false
}

func (NoopCache) SetSimilar(ctx context.Context, key string, items []domain.ScoredAnime) {}

func similarCacheKey(version string, animeID int, opts Options) string {
	return fmt.Sprintf("similar:%s:%d:n=%d:min=%d:gw=%g:rw=%g",
		version, animeID, opts.TopN, opts.MinRatingCount, opts.GenreWeight, opts.RatingWeight)
}
