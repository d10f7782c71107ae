package redis

import (
	"context"
	"encoding/json"
	"time"

	"animeRecommendator/domain"
	"animeRecommendator/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// cacheTTL bounds entry lifetime. Results are immutable per model version,
// so the TTL is eviction hygiene rather than a correctness requirement.
const cacheTTL = 6 * time.Hour

// RecommendationCache caches similar-anime result lists in Redis. All
// failures degrade to a miss; the cache never fails a query.
type RecommendationCache struct {
	client *redis.Client
}

func NewRecommendationCache(client *redis.Client) *RecommendationCache {
	return &RecommendationCache{
		client: client,
	}
}

func (r *RecommendationCache) GetSimilar(ctx context.Context, key string) ([]domain.ScoredAnime, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("recommendation cache get failed", "key", key, "error", err)
		}
		return nil, false
	}

	var items []domain.ScoredAnime
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		logger.Warn("recommendation cache entry corrupt", "key", key, "error", err)
		return nil, false
	}

	return items, true
}

func (r *RecommendationCache) SetSimilar(ctx context.Context, key string, items []domain.ScoredAnime) {
	raw, err := json.Marshal(items)
	if err != nil {
		logger.Warn("failed to marshal cache entry", "key", key, "error", err)
		return
	}

	if err := r.client.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
		logger.Warn("recommendation cache set failed", "key", key, "error", err)
	}
}
