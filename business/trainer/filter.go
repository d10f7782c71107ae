package trainer

import "animeRecommendator/domain"

// FilterConfig holds the activity thresholds applied before training.
type FilterConfig struct {
	// MinUserRatings keeps only events from users with at least this many
	// rating events in the raw feed.
	MinUserRatings int

	// MinItemRatings keeps only events for anime with at least this many
	// events in the already user-filtered set.
	MinItemRatings int
}

const (
	defaultMinUserRatings = 200
	defaultMinItemRatings = 50
)

func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MinUserRatings: defaultMinUserRatings,
		MinItemRatings: defaultMinItemRatings,
	}
}

// Filter cleans a raw rating feed. The steps are ordered: item counts are
// taken over the user-filtered set, not the raw feed, and the sentinel
// "watched, not rated" events are dropped last. Events are never mutated,
// only excluded.
func Filter(ratings []domain.Rating, cfg FilterConfig) []domain.Rating {
	if cfg.MinUserRatings <= 0 {
		cfg.MinUserRatings = defaultMinUserRatings
	}
	if cfg.MinItemRatings <= 0 {
		cfg.MinItemRatings = defaultMinItemRatings
	}

	userCounts := make(map[int]int)
	for _, r := range ratings {
		userCounts[r.UserID]++
	}

	userFiltered := make([]domain.Rating, 0, len(ratings))
	for _, r := range ratings {
		if userCounts[r.UserID] >= cfg.MinUserRatings {
			userFiltered = append(userFiltered, r)
		}
	}

	itemCounts := make(map[int]int)
	for _, r := range userFiltered {
		itemCounts[r.AnimeID]++
	}

	out := make([]domain.Rating, 0, len(userFiltered))
	for _, r := range userFiltered {
		if itemCounts[r.AnimeID] < cfg.MinItemRatings {
			continue
		}
		if r.Rating == domain.SentinelRating {
			continue
		}
		out = append(out, r)
	}

	return out
}
