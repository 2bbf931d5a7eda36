package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultAdminAPIKey = "change-me"

// LoadENV loads the environment variables from .env when GO_ENV is unset or "development".
// A missing .env file is fine; the process environment is used as is.
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	return nil
}

type EnvironmentVariables struct {
	GO_ENV   string
	APP_NAME string
	PORT     int
	// Database
	DATABASE_URL string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	// Catalog administration
	ADMIN_API_KEY string
	AUTO_SEED     bool
	// HTTP hardening
	ALLOWED_ORIGINS     string
	RATE_LIMIT_REQUESTS int
	RATE_LIMIT_WINDOW   time.Duration
	// Redis (shared rate limiter storage)
	REDIS_URL string
	// Maintenance jobs
	CRON_ENABLED bool
	// Ambience audio object storage (S3 compatible)
	AUDIO_S3_BUCKET     string
	AUDIO_S3_REGION     string
	AUDIO_S3_ENDPOINT   string
	AUDIO_S3_ACCESS_KEY string
	AUDIO_S3_SECRET_KEY string
	AUDIO_CDN_URL       string
	AUDIO_URL_TTL       time.Duration
}

func Get() (*EnvironmentVariables, error) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	rateLimit := 100
	if raw := os.Getenv("RATE_LIMIT_REQUESTS"); raw != "" {
		rateLimit, err = strconv.Atoi(raw)
		if err != nil || rateLimit < 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT_REQUESTS %q", raw)
		}
	}

	rateWindow, err := durationEnv("RATE_LIMIT_WINDOW", time.Minute)
	if err != nil {
		return nil, err
	}

	audioTTL, err := durationEnv("AUDIO_URL_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	envVariables := &EnvironmentVariables{
		GO_ENV:   os.Getenv("GO_ENV"),
		APP_NAME: stringEnv("APP_NAME", "Respir Learning API"),
		PORT:     port,
		// Database
		DATABASE_URL: os.Getenv("DATABASE_URL"),
		DB_USER_NAME: stringEnv("DB_USER_NAME", "postgres"),
		DB_PASSWORD:  stringEnv("DB_PASSWORD", "postgres"),
		DB_NAME:      stringEnv("DB_NAME", "respir"),
		DB_HOST:      stringEnv("DB_HOST", "localhost"),
		DB_PORT:      stringEnv("DB_PORT", "5432"),
		DB_SSL_MODE:  stringEnv("DB_SSL_MODE", "disable"),
		// Catalog administration
		ADMIN_API_KEY: stringEnv("ADMIN_API_KEY", defaultAdminAPIKey),
		AUTO_SEED:     boolEnv("AUTO_SEED", false),
		// HTTP hardening
		ALLOWED_ORIGINS:     stringEnv("ALLOWED_ORIGINS", "*"),
		RATE_LIMIT_REQUESTS: rateLimit,
		RATE_LIMIT_WINDOW:   rateWindow,
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
		// Cron
		CRON_ENABLED: boolEnv("CRON_ENABLED", true),
		// Audio storage
		AUDIO_S3_BUCKET:     os.Getenv("AUDIO_S3_BUCKET"),
		AUDIO_S3_REGION:     os.Getenv("AUDIO_S3_REGION"),
		AUDIO_S3_ENDPOINT:   os.Getenv("AUDIO_S3_ENDPOINT"),
		AUDIO_S3_ACCESS_KEY: os.Getenv("AUDIO_S3_ACCESS_KEY"),
		AUDIO_S3_SECRET_KEY: os.Getenv("AUDIO_S3_SECRET_KEY"),
		AUDIO_CDN_URL:       os.Getenv("AUDIO_CDN_URL"),
		AUDIO_URL_TTL:       audioTTL,
	}

	return envVariables, nil
}

// DSN returns the PostgreSQL connection string, preferring DATABASE_URL when set.
func (e *EnvironmentVariables) DSN() string {
	if e.DATABASE_URL != "" {
		return e.DATABASE_URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		e.DB_HOST,
		e.DB_USER_NAME,
		e.DB_PASSWORD,
		e.DB_NAME,
		e.DB_PORT,
		e.DB_SSL_MODE,
	)
}

// UsesDefaultAdminKey reports whether the admin credential was left at its placeholder.
func (e *EnvironmentVariables) UsesDefaultAdminKey() bool {
	return e.ADMIN_API_KEY == defaultAdminAPIKey
}

// AudioStorageConfigured reports whether presigned ambience audio URLs can be issued.
func (e *EnvironmentVariables) AudioStorageConfigured() bool {
	return e.AUDIO_S3_BUCKET != "" && e.AUDIO_S3_REGION != "" &&
		e.AUDIO_S3_ACCESS_KEY != "" && e.AUDIO_S3_SECRET_KEY != ""
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}
