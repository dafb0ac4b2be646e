package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv           string
	LogLevel         string
	HTTPAddr         string
	MetricsAddr      string
	MySQLDSN         string // empty disables the durable geocode store
	RedisAddr        string // empty selects the in-process cache
	RedisDB          int
	RedisPass        string
	PlacesBase       string
	PlacesKey        string
	PlacesRPS        int
	GeocodeBase      string
	GeocodeUA        string
	QueryTimeout     time.Duration
	RequestTimeout   time.Duration
	QueryConcurrency int
	LodgingRadiusM   int
	CacheTTL         time.Duration
	PrefetchWorkers  int
}

// Load reads the environment, after an optional .env file in the working directory.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env could not be parsed; using process environment")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer; using default")
		}
		return def
	}
	c := Config{
		AppEnv:           env("APP_ENV", "prod"),
		LogLevel:         env("LOG_LEVEL", "info"),
		HTTPAddr:         env("HTTP_ADDR", ":8080"),
		MetricsAddr:      env("METRICS_ADDR", ":9100"),
		MySQLDSN:         env("MYSQL_DSN", ""),
		RedisAddr:        env("REDIS_ADDR", ""),
		RedisPass:        env("REDIS_PASSWORD", ""),
		RedisDB:          atoi("REDIS_DB", 0),
		PlacesBase:       env("PLACES_BASE_URL", "https://dapi.kakao.com"),
		PlacesKey:        env("PLACES_API_KEY", ""),
		PlacesRPS:        atoi("PLACES_RPS", 5),
		GeocodeBase:      env("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocodeUA:        env("GEOCODE_USER_AGENT", "travel-planner/1.0"),
		QueryTimeout:     time.Duration(atoi("QUERY_TIMEOUT_MS", 8000)) * time.Millisecond,
		RequestTimeout:   time.Duration(atoi("REQUEST_TIMEOUT_MS", 60000)) * time.Millisecond,
		QueryConcurrency: atoi("QUERY_CONCURRENCY", 4),
		LodgingRadiusM:   atoi("LODGING_RADIUS_M", 5000),
		CacheTTL:         time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		PrefetchWorkers:  atoi("PREFETCH_WORKERS", 2),
	}
	if c.PlacesKey == "" {
		log.Warn().Msg("PLACES_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
