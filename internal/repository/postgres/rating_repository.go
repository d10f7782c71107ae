package postgres

import (
	"context"
	"fmt"

	"animeRecommendator/domain"

	"gorm.io/gorm"
)

type RatingRepository struct {
	DB *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{
		DB: db,
	}
}

func (r *RatingRepository) FindAll(ctx context.Context) ([]domain.Rating, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var ratings []domain.Rating
	if err := r.DB.WithContext(ctx).Find(&ratings).Error; err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}

	return ratings, nil
}

func (r *RatingRepository) FindByUser(ctx context.Context, userID int) ([]domain.Rating, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var ratings []domain.Rating
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&ratings).Error; err != nil {
		return nil, fmt.Errorf("failed to query ratings for user %d: %w", userID, err)
	}

	return ratings, nil
}
