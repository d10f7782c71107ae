package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"animeRecommendator/business/recommender"
	"animeRecommendator/domain"
	"animeRecommendator/pkg/logger"
	"animeRecommendator/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	RecommenderService interface {
		SimilarAnime(ctx context.Context, animeID int, opts recommender.Options) ([]domain.ScoredAnime, error)
		RecommendForUser(ctx context.Context, userID int, opts recommender.Options) ([]domain.ScoredAnime, error)
		Watched(ctx context.Context, userID int) ([]domain.WatchedAnime, error)
	}

	RecommendHandler struct {
		validate           *validator.Validate
		recommenderService RecommenderService
		timeout            time.Duration
	}

	RecommendQuery struct {
		N            int      `query:"n" validate:"omitempty,min=1,max=100"`
		MinRatings   int      `query:"min_ratings" validate:"omitempty,min=1"`
		GenreWeight  *float64 `query:"genre_weight"`
		RatingWeight *float64 `query:"rating_weight"`
	}
)

func NewRecommendHandler(svc RecommenderService) *RecommendHandler {
	return &RecommendHandler{
		validate:           validator.New(),
		recommenderService: svc,
		timeout:            30 * time.Second,
	}
}

// GET /api/v1/recommend/anime/:id
func (h *RecommendHandler) SimilarAnime(c echo.Context) error {
	animeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid anime ID"})
	}

	opts, err := h.bindOptions(c, recommender.DefaultSimilarOptions())
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	start := time.Now()
	recs, err := h.recommenderService.SimilarAnime(ctx, animeID, opts)
	metrics.RecommendLatency.WithLabelValues("anime").Observe(time.Since(start).Seconds())
	if err != nil {
		return h.translateError(c, "anime", err)
	}

	metrics.RecommendRequestsTotal.WithLabelValues("anime", "ok").Inc()
	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"anime_id":        animeID,
		"recommendations": recs,
	}))
}

// GET /api/v1/recommend/user/:id
func (h *RecommendHandler) RecommendForUser(c echo.Context) error {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid user ID"})
	}

	opts, err := h.bindOptions(c, recommender.DefaultUserOptions())
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	start := time.Now()
	recs, err := h.recommenderService.RecommendForUser(ctx, userID, opts)
	metrics.RecommendLatency.WithLabelValues("user").Observe(time.Since(start).Seconds())
	if err != nil {
		return h.translateError(c, "user", err)
	}

	metrics.RecommendRequestsTotal.WithLabelValues("user", "ok").Inc()
	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"user_id":         userID,
		"recommendations": recs,
	}))
}

// GET /api/v1/users/:id/watched
func (h *RecommendHandler) Watched(c echo.Context) error {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid user ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	watched, err := h.recommenderService.Watched(ctx, userID)
	if err != nil {
		logger.Error("Failed to load watched history", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"user_id": userID,
		"watched": watched,
	}))
}

func (h *RecommendHandler) bindOptions(c echo.Context, opts recommender.Options) (recommender.Options, error) {
	var q RecommendQuery
	if err := c.Bind(&q); err != nil {
		return opts, err
	}
	if err := h.validate.Struct(&q); err != nil {
		return opts, err
	}

	if q.N > 0 {
		opts.TopN = q.N
	}
	if q.MinRatings > 0 {
		opts.MinRatingCount = q.MinRatings
	}
	if q.GenreWeight != nil {
		opts.GenreWeight = *q.GenreWeight
	}
	if q.RatingWeight != nil {
		opts.RatingWeight = *q.RatingWeight
	}

	return opts, nil
}

func (h *RecommendHandler) translateError(c echo.Context, kind string, err error) error {
	if errors.Is(err, domain.ErrModelNotFound) {
		metrics.RecommendRequestsTotal.WithLabelValues(kind, "model_missing").Inc()
		return c.JSON(http.StatusConflict, ResponseError{Message: err.Error()})
	}

	metrics.RecommendRequestsTotal.WithLabelValues(kind, "error").Inc()
	logger.Error("Recommendation query failed", err)
	return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
}
