package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// Enabled: без адреса Redis сервис работает на одном инстансе без лимитов.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type RazorpayConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	BaseURL       string
}

func (c RazorpayConfig) Enabled() bool {
	return c.KeyID != "" && c.KeySecret != ""
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
}

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL   string
	RunMigrations bool
	ServerPort    int
	AppEnv        string
	LogLevel      slog.Level
	ClientURL     string
	// AllowedOrigins для CORS и websocket.
	AllowedOrigins []string

	// Ровно один способ проверки токенов: Firebase или HS256 секрет.
	FirebaseProjectID string
	JWTSecretKey      string

	Redis    RedisConfig
	Razorpay RazorpayConfig
	R2       R2Config

	RateLimitRequests int64
	RateLimitWindow   time.Duration

	ReminderInterval      time.Duration
	PaymentExpiryInterval time.Duration
	ShutdownTimeout       time.Duration
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	// Загружаем .env файл, если он есть. Ошибку не считаем фатальной.
	_ = godotenv.Load()

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		AppEnv:            getEnv("APP_ENV", EnvDevelopment),
		ClientURL:         strings.TrimRight(getEnv("CLIENT_URL", "http://localhost:3000"), "/"),
		FirebaseProjectID: os.Getenv("FIREBASE_PROJECT_ID"),
		JWTSecretKey:      os.Getenv("JWT_SECRET_KEY"),
		Redis: RedisConfig{
			Addr:      os.Getenv("REDIS_ADDR"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "playsplit:"),
		},
		Razorpay: RazorpayConfig{
			KeyID:         os.Getenv("RAZORPAY_KEY_ID"),
			KeySecret:     os.Getenv("RAZORPAY_KEY_SECRET"),
			WebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),
			BaseURL:       os.Getenv("RAZORPAY_BASE_URL"),
		},
		R2: R2Config{
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			BucketName:      os.Getenv("R2_BUCKET_NAME"),
			PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		},
	}

	if cfg.DatabaseURL == "" {
		collect(errors.New("DATABASE_URL environment variable is not set"))
	}
	if cfg.FirebaseProjectID == "" && cfg.JWTSecretKey == "" {
		collect(errors.New("either FIREBASE_PROJECT_ID or JWT_SECRET_KEY must be set"))
	}

	var err error
	cfg.ServerPort, err = getEnvInt("SERVER_PORT", 8080)
	collect(err)
	if err == nil && (cfg.ServerPort <= 0 || cfg.ServerPort > 65535) {
		collect(fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort))
	}

	cfg.LogLevel, err = parseLogLevel(getEnv("LOG_LEVEL", "info"))
	collect(err)

	cfg.Redis.DB, err = getEnvInt("REDIS_DB", 0)
	collect(err)

	cfg.RunMigrations, err = getEnvBool("RUN_MIGRATIONS", true)
	collect(err)

	requests, err := getEnvInt("RATE_LIMIT_REQUESTS", 100)
	collect(err)
	cfg.RateLimitRequests = int64(requests)

	cfg.RateLimitWindow, err = getEnvDuration("RATE_LIMIT_WINDOW", 15*time.Minute)
	collect(err)
	cfg.ReminderInterval, err = getEnvDuration("REMINDER_INTERVAL", time.Hour)
	collect(err)
	cfg.PaymentExpiryInterval, err = getEnvDuration("PAYMENT_EXPIRY_INTERVAL", 15*time.Minute)
	collect(err)
	cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second)
	collect(err)

	cfg.AllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", cfg.ClientURL))

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func getEnvBool(key string, def bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

// getEnvDuration принимает "15m", "1h" и т.п.; "0" выключает соответствующую задачу.
func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return def, nil
	}
	if raw == "0" {
		return 0, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return v, nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", raw, err)
	}
	return level, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimRight(strings.TrimSpace(p), "/"); p != "" {
			out = append(out, p)
		}
	}
	return out
}
