package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	LogLevel slog.Level

	// RelayURL is the base URL of the push notification relay. Empty
	// disables relay delivery; the engine then runs local-only.
	RelayURL      string
	RelayTimeout  time.Duration
	ProbeInterval time.Duration

	// MobileDevice marks installations where background relay delivery
	// is unreliable and a local copy is always wanted.
	MobileDevice bool

	Timezone *time.Location

	Redis *RedisConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func Load() (*Config, error) {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	relayTimeout := 8 * time.Second
	if raw := os.Getenv("RELAY_TIMEOUT_SECONDS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			relayTimeout = time.Duration(parsed) * time.Second
		}
	}

	probeInterval := 5 * time.Minute
	if raw := os.Getenv("PROBE_INTERVAL_MINUTES"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			probeInterval = time.Duration(parsed) * time.Minute
		}
	}

	timezone := time.Local
	if raw := os.Getenv("TZ_NAME"); raw != "" {
		loc, err := time.LoadLocation(raw)
		if err != nil {
			return nil, ErrInvalidTimezone
		}
		timezone = loc
	}

	redisCfg, err := loadRedisConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:          port,
		LogLevel:      parseLogLevel(os.Getenv("LOG_LEVEL")),
		RelayURL:      os.Getenv("RELAY_URL"),
		RelayTimeout:  relayTimeout,
		ProbeInterval: probeInterval,
		MobileDevice:  os.Getenv("DEVICE_CLASS") == "mobile",
		Timezone:      timezone,
		Redis:         redisCfg,
	}, nil
}

func loadRedisConfig() (*RedisConfig, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	db := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, ErrInvalidRedisDB
		}
		db = parsed
	}

	return &RedisConfig{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}, nil
}

// ValidateForRun checks the settings a running instance cannot do
// without.
func ValidateForRun(cfg *Config) error {
	if cfg.Redis == nil || cfg.Redis.Addr == "" {
		return ErrRedisAddrMissing
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
