package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"animeRecommendator/app/echo-server/router"
	"animeRecommendator/business/recommender"
	"animeRecommendator/business/trainer"
	userService "animeRecommendator/business/user"
	"animeRecommendator/internal/middleware"
	"animeRecommendator/internal/repository/csvfile"
	"animeRecommendator/internal/repository/memory"
	psqlRepo "animeRecommendator/internal/repository/postgres"
	redisRepo "animeRecommendator/internal/repository/redis"
	"animeRecommendator/internal/rest"
	"animeRecommendator/pkg/config"
	"animeRecommendator/pkg/database"
	redisdb "animeRecommendator/pkg/database/redis"
	"animeRecommendator/pkg/logger"
	"animeRecommendator/pkg/metrics"
	"animeRecommendator/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting AnimeRecommendator", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	// Init validate
	validate := validator.New()

	filterCfg := trainer.FilterConfig{
		MinUserRatings: cfg.Recommender.MinUserRatings,
		MinItemRatings: cfg.Recommender.MinItemRatings,
	}

	// Init repo, backed by Postgres or by the CSV dumps
	var (
		animeRepo  recommender.AnimeRepository
		ratingRepo recommender.RatingRepository
		modelStore trainer.ModelStore
		userRepo   userService.UserRepository
	)

	switch cfg.Database.Source {
	case "postgres":
		db, err := database.InitPostgres(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		if err := psqlRepo.AutoMigrate(db); err != nil {
			logger.Fatal("Failed to migrate database", "error", err)
		}
		logger.Info("Database connected successfully")

		animeRepo = psqlRepo.NewAnimeRepository(db)
		ratingRepo = psqlRepo.NewRatingRepository(db)
		modelStore = psqlRepo.NewModelRepository(db)
		userRepo = psqlRepo.NewUserRepository(db)

	case "csv":
		animeRepo = csvfile.NewAnimeRepository(cfg.Database.AnimeCSVPath)
		ratingRepo = csvfile.NewRatingRepository(cfg.Database.RatingCSVPath)
		modelStore = memory.NewModelStore()
		userRepo = memory.NewUserRepository()
		logger.Info("Using CSV data source",
			"anime", cfg.Database.AnimeCSVPath,
			"rating", cfg.Database.RatingCSVPath,
		)
	}

	// Result cache, optional
	var cache recommender.ResultCache
	if cfg.Redis.Enabled {
		redisClient, err := redisdb.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", "error", err)
		}
		cache = redisRepo.NewRecommendationCache(redisClient)
		logger.Info("Redis result cache enabled")
	}

	// Init service
	usrService := userService.NewUserService(userRepo, validate)
	trainerService := trainer.NewTrainerService(ratingRepo, modelStore, filterCfg, cfg.Recommender.MinCoRatings)
	recommenderService := recommender.NewRecommenderService(animeRepo, ratingRepo, modelStore, cache, filterCfg)

	// Init handler
	userHandler := rest.NewUserHandler(usrService)
	trainerHandler := rest.NewTrainerHandler(trainerService)
	recommendHandler := rest.NewRecommendHandler(recommenderService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceMiddleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Auth middleware
	authRequired := middleware.AuthMiddleware()
	adminOnly := middleware.AdminOnly()
	selfOrAdmin := middleware.SelfOrAdmin()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired, selfOrAdmin)
	router.SetupTrainerRoutes(api, trainerHandler, authRequired, adminOnly)
	router.SetupRecommendRoutes(api, recommendHandler, authRequired, selfOrAdmin)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
