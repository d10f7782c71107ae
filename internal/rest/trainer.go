package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"animeRecommendator/business/trainer"
	"animeRecommendator/domain"
	"animeRecommendator/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type TrainerService interface {
	Train(ctx context.Context) (*domain.SimilarityModel, error)
	CurrentVersion(ctx context.Context) (string, error)
}

type TrainerHandler struct {
	trainerService TrainerService

	// trainTimeout bounds a full rebuild; training a large feed is a
	// long-running batch job.
	trainTimeout time.Duration
}

func NewTrainerHandler(trainerService TrainerService) *TrainerHandler {
	return &TrainerHandler{
		trainerService: trainerService,
		trainTimeout:   10 * time.Minute,
	}
}

// POST /api/v1/train
func (h *TrainerHandler) Train(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.trainTimeout)
	defer cancel()

	model, err := h.trainerService.Train(ctx)
	if err != nil {
		switch {
		case errors.Is(err, trainer.ErrTrainingInProgress):
			return c.JSON(http.StatusConflict, ResponseError{Message: err.Error()})
		case errors.Is(err, domain.ErrInsufficientData):
			return c.JSON(http.StatusUnprocessableEntity, ResponseError{Message: err.Error()})
		default:
			logger.Error("Training run failed", err)
			return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
		}
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"version": model.Version,
		"meta":    model.Meta,
	}))
}

// GET /api/v1/model-version
func (h *TrainerHandler) ModelVersion(c echo.Context) error {
	version, err := h.trainerService.CurrentVersion(c.Request().Context())
	if err != nil {
		logger.Error("Failed to read model version", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"current_model_version": version,
	}))
}
