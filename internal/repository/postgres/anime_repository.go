package postgres

import (
	"context"
	"errors"
	"fmt"

	"animeRecommendator/domain"

	"gorm.io/gorm"
)

type AnimeRepository struct {
	DB *gorm.DB
}

func NewAnimeRepository(db *gorm.DB) *AnimeRepository {
	return &AnimeRepository{
		DB: db,
	}
}

func (r *AnimeRepository) FindAll(ctx context.Context) ([]domain.Anime, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var animes []domain.Anime
	if err := r.DB.WithContext(ctx).Find(&animes).Error; err != nil {
		return nil, fmt.Errorf("failed to query animes: %w", err)
	}

	return animes, nil
}

func (r *AnimeRepository) FindByID(ctx context.Context, animeID int) (domain.Anime, error) {
	var anime domain.Anime

	err := r.DB.WithContext(ctx).First(&anime, "anime_id = ?", animeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Anime{}, errors.New("anime not found")
		}
		return domain.Anime{}, err
	}

	return anime, nil
}
