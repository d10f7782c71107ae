package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App         AppConfig
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Redis       RedisConfig
	Recommender RecommenderConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	// Source selects the rating feed / catalog backend: "postgres" or "csv".
	Source string

	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	// CSV paths, used when Source is "csv".
	AnimeCSVPath  string
	RatingCSVPath string
}

type JWTConfig struct {
	SecretKey string
}

type RedisConfig struct {
	Enabled       bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type RecommenderConfig struct {
	MinUserRatings int
	MinItemRatings int
	MinCoRatings   int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Anime Recommendation API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Source:        getEnv("DATA_SOURCE", "postgres"),
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnv("DB_PORT", "5432"),
			User:          getEnv("DB_USER", "postgres"),
			Password:      getEnv("DB_PASSWORD", ""),
			Name:          getEnv("DB_NAME", "anime_recommender"),
			SSLMode:       getEnv("DB_SSL_MODE", "disable"),
			AnimeCSVPath:  getEnv("ANIME_CSV_PATH", "data/anime.csv"),
			RatingCSVPath: getEnv("RATING_CSV_PATH", "data/rating.csv"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			Enabled:       getEnv("REDIS_HOST", "") != "",
			RedisHost:     getEnv("REDIS_HOST", ""),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
		},
		Recommender: RecommenderConfig{
			MinUserRatings: getEnvInt("MIN_USER_RATINGS", 200),
			MinItemRatings: getEnvInt("MIN_ITEM_RATINGS", 50),
			MinCoRatings:   getEnvInt("MIN_CO_RATINGS", 10),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Source != "postgres" && cfg.Database.Source != "csv" {
		return nil, errors.New("DATA_SOURCE must be postgres or csv")
	}

	if cfg.Database.Source == "postgres" && cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return defaultVal
}
