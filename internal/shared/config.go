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
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	SabreBase     string
	SabreKey      string
	SabreRPS      int
	SeoBase       string
	SeoKey        string
	AnalyticsBase string
	AnalyticsKey  string

	BookingBaseURL string
	Workers        int
	CacheTTL       time.Duration
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
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/rateadmin?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),

		SabreBase:     env("SABRE_BASE_URL", "https://api.sabre.example.com"),
		SabreKey:      env("SABRE_API_KEY", ""),
		SabreRPS:      atoi("SABRE_RPS", 5),
		SeoBase:       env("SEOGEN_BASE_URL", "https://seo.internal.example.com"),
		SeoKey:        env("SEOGEN_API_KEY", ""),
		AnalyticsBase: env("ANALYTICS_BASE_URL", "https://metrics.internal.example.com"),
		AnalyticsKey:  env("ANALYTICS_API_KEY", ""),

		BookingBaseURL: env("BOOKING_BASE_URL", "https://book.example.com/reserve"),
		Workers:        atoi("IMPORT_WORKERS", 8),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
	}
	if c.SabreKey == "" {
		log.Warn().Msg("SABRE_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
