package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv          string
	LogLevel        string
	HTTPAddr        string
	MetricsAddr     string
	MySQLDSN        string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	JWTSecret       string
	SessionCacheTTL time.Duration // 0 disables the Redis session cache
	TrustProxy      bool          // honour X-Forwarded-For / X-Real-IP
	RateLimitRPS    float64
	RateLimitBurst  int
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory, when present, is loaded first and never overrides variables
// that are already set.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("failed to load .env")
	}
	return fromEnv()
}

func fromEnv() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		LogLevel:        env("LOG_LEVEL", "info"),
		HTTPAddr:        env("HTTP_ADDR", ":4000"),
		MetricsAddr:     env("METRICS_ADDR", ""),
		MySQLDSN:        env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotels?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		JWTSecret:       env("JWT_SECRET", ""),
		SessionCacheTTL: time.Duration(atoi("SESSION_CACHE_TTL_SECONDS", 0)) * time.Second,
		TrustProxy:      env("TRUST_PROXY", "false") == "true",
		RateLimitRPS:    atof("RATE_LIMIT_RPS", 20),
		RateLimitBurst:  atoi("RATE_LIMIT_BURST", 40),
		RequestTimeout:  time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		ShutdownTimeout: time.Duration(atoi("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
