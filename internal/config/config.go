package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName        = "TapWallet"
	defaultAppEnv         = "development"
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultShutdownDelay  = 10 * time.Second
	defaultIdempotencyTTL = 24 * time.Hour

	// Reference terminal timings.
	defaultProcessingDelay = 3000 * time.Millisecond
	defaultPaidDisplay     = 1200 * time.Millisecond
	defaultFailDismiss     = 1500 * time.Millisecond
	defaultFailClear       = 2000 * time.Millisecond

	// Pending-transaction watcher.
	defaultWatcherInterval = time.Second
	defaultWatcherTimeout  = 30 * time.Second

	// Verification polling protocol.
	defaultVerifyInterval = time.Second
	defaultVerifyAttempts = 90
	defaultVerifyTimeout  = 90 * time.Second
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	RegistryURL    string
	RedisURL       string
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration

	ProcessingDelay time.Duration
	PaidDisplay     time.Duration
	FailDismiss     time.Duration
	FailClear       time.Duration

	WatcherInterval time.Duration
	WatcherTimeout  time.Duration

	VerifyInterval time.Duration
	VerifyAttempts int
	VerifyTimeout  time.Duration
}

// Load reads configuration values from the environment (and an optional
// .env file) and populates a Config instance.
func Load() (Config, error) {
	// Missing .env is fine; explicit environment always wins.
	_ = godotenv.Load()

	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         getEnv("APP_ENV", defaultAppEnv),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		RegistryURL:    os.Getenv("REGISTRY_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		ShutdownPeriod: defaultShutdownDelay,
		IdempotencyTTL: defaultIdempotencyTTL,

		ProcessingDelay: defaultProcessingDelay,
		PaidDisplay:     defaultPaidDisplay,
		FailDismiss:     defaultFailDismiss,
		FailClear:       defaultFailClear,

		WatcherInterval: defaultWatcherInterval,
		WatcherTimeout:  defaultWatcherTimeout,

		VerifyInterval: defaultVerifyInterval,
		VerifyAttempts: defaultVerifyAttempts,
		VerifyTimeout:  defaultVerifyTimeout,
	}

	durations := []struct {
		envVar string
		target *time.Duration
	}{
		{"SHUTDOWN_TIMEOUT", &cfg.ShutdownPeriod},
		{"IDEMPOTENCY_TTL", &cfg.IdempotencyTTL},
		{"CHARGE_PROCESSING_DELAY", &cfg.ProcessingDelay},
		{"CHARGE_PAID_DISPLAY", &cfg.PaidDisplay},
		{"CHARGE_FAIL_DISMISS", &cfg.FailDismiss},
		{"CHARGE_FAIL_CLEAR", &cfg.FailClear},
		{"WATCHER_INTERVAL", &cfg.WatcherInterval},
		{"WATCHER_TIMEOUT", &cfg.WatcherTimeout},
		{"VERIFY_INTERVAL", &cfg.VerifyInterval},
		{"VERIFY_TIMEOUT", &cfg.VerifyTimeout},
	}
	for _, d := range durations {
		if v := os.Getenv(d.envVar); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s: %w", d.envVar, err)
			}
			*d.target = parsed
		}
	}

	if v := os.Getenv("VERIFY_MAX_ATTEMPTS"); v != "" {
		attempts, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid VERIFY_MAX_ATTEMPTS: %w", err)
		}
		cfg.VerifyAttempts = attempts
	}

	if cfg.RegistryURL == "" {
		return Config{}, fmt.Errorf("REGISTRY_URL must be set")
	}

	if cfg.RedisURL == "" && !cfg.IsDev() {
		return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.AppEnv)
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the app runs in a development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
