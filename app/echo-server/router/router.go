package router

import (
	"animeRecommendator/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc, selfOrAdmin echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)

	users.GET("/:id", handler.GetUserByID, authRequired, selfOrAdmin)
}

func SetupTrainerRoutes(api *echo.Group, handler *rest.TrainerHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	api.POST("/train", handler.Train, authRequired, adminOnly)
	api.GET("/model-version", handler.ModelVersion)
}

func SetupRecommendRoutes(api *echo.Group, handler *rest.RecommendHandler, authRequired echo.MiddlewareFunc, selfOrAdmin echo.MiddlewareFunc) {
	reco := api.Group("/recommend", authRequired)
	reco.GET("/anime/:id", handler.SimilarAnime)
	reco.GET("/user/:id", handler.RecommendForUser)

	api.GET("/users/:id/watched", handler.Watched, authRequired, selfOrAdmin)
}
