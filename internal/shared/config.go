package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	MongoURI    string
	MongoDB     string
	MongoTrips  string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	UnsplashBase string
	UnsplashKey  string
	UnsplashRPS  int

	GeminiKey   string
	GeminiModel string

	Workers  int
	NodeID   int
	CacheTTL time.Duration
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:       env("APP_ENV", "prod"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ":9100"),
		MongoURI:     env("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      env("MONGO_DB", "tripsmith"),
		MongoTrips:   env("MONGO_TRIPS_COLLECTION", "trips"),
		RedisAddr:    env("REDIS_ADDR", "localhost:6379"),
		RedisPass:    env("REDIS_PASSWORD", ""),
		RedisDB:      atoi("REDIS_DB", 0),
		UnsplashBase: env("UNSPLASH_BASE_URL", "https://api.unsplash.com"),
		UnsplashKey:  env("UNSPLASH_ACCESS_KEY", ""),
		UnsplashRPS:  atoi("UNSPLASH_RPS", 5),
		GeminiKey:    env("GEMINI_API_KEY", ""),
		GeminiModel:  env("GEMINI_MODEL", "gemini-2.5-pro"),
		Workers:      atoi("RESOLVE_WORKERS", 8),
		NodeID:       atoi("NODE_ID", 1),
		CacheTTL:     time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.UnsplashKey == "" {
		log.Warn().Msg("UNSPLASH_ACCESS_KEY is empty")
	}
	if c.GeminiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
