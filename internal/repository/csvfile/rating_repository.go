package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"animeRecommendator/domain"
)

// RatingRepository serves the rating feed from the flat rating.csv layout
// (user_id,anime_id,rating). The -1 sentinel passes through untouched; it
// is the training filter's job to drop it.
type RatingRepository struct {
	path string
}

func NewRatingRepository(path string) *RatingRepository {
	return &RatingRepository{path: path}
}

func (r *RatingRepository) FindAll(ctx context.Context) ([]domain.Rating, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	return r.load()
}

func (r *RatingRepository) FindByUser(ctx context.Context, userID int) ([]domain.Rating, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	all, err := r.load()
	if err != nil {
		return nil, err
	}

	out := make([]domain.Rating, 0)
	for _, rating := range all {
		if rating.UserID == userID {
			out = append(out, rating)
		}
	}
	return out, nil
}

func (r *RatingRepository) load() ([]domain.Rating, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rating csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read rating csv: %w", err)
	}
	if len(records) == 0 {
		return []domain.Rating{}, nil
	}

	cols := headerIndex(records[0])
	userCol, ok := cols["user_id"]
	if !ok {
		return nil, fmt.Errorf("rating csv missing user_id column")
	}
	animeCol, ok := cols["anime_id"]
	if !ok {
		return nil, fmt.Errorf("rating csv missing anime_id column")
	}
	ratingCol, ok := cols["rating"]
	if !ok {
		return nil, fmt.Errorf("rating csv missing rating column")
	}

	ratings := make([]domain.Rating, 0, len(records)-1)
	for _, rec := range records[1:] {
		userID, err := intField(rec, userCol)
		if err != nil {
			continue
		}
		animeID, err := intField(rec, animeCol)
		if err != nil {
			continue
		}
		value, err := intField(rec, ratingCol)
		if err != nil {
			continue
		}

		ratings = append(ratings, domain.Rating{
			UserID:  userID,
			AnimeID: animeID,
			Rating:  value,
		})
	}

	return ratings, nil
}
