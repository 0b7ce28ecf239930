package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// devJWTSecret signs tokens outside production when JWT_SECRET is unset.
const devJWTSecret = "change-me"

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string
	FrontendURL    string

	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPort      string
	DBSSLMode   string

	RedisURL string

	MeiliSearchHost string
	MeiliMasterKey  string

	CloudinaryURL          string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string

	JWTSecret string
	JWTTTL    time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	GithubClientID     string
	GithubClientSecret string
	GithubRedirectURL  string

	AdminEmail    string
	AdminPassword string

	RateLimitResource time.Duration
	RateLimitComment  time.Duration

	ViewSyncSchedule string
	ReindexSchedule  string
	JobTimeout       time.Duration
	ShutdownTimeout  time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  os.Getenv("DB_PASS"),
		DBName:      getEnv("DB_NAME", "skillnest"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),

		RedisURL: os.Getenv("REDIS_URL"),

		MeiliSearchHost: os.Getenv("MEILISEARCH_HOST"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		CloudinaryURL:          os.Getenv("CLOUDINARY_URL"),
		CloudinaryCloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:       os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret:    os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryUploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "skillnest"),

		JWTSecret: getEnv("JWT_SECRET", devJWTSecret),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		GithubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		GithubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		GithubRedirectURL:  os.Getenv("GITHUB_REDIRECT_URL"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		ViewSyncSchedule: getEnv("VIEW_SYNC_SCHEDULE", "@every 1m"),
		ReindexSchedule:  getEnv("REINDEX_SCHEDULE", "0 3 * * *"),
	}

	minutes, err := strconv.Atoi(getEnv("JWT_TTL_MINUTES", "60"))
	if err != nil || minutes <= 0 {
		return nil, fmt.Errorf("invalid JWT_TTL_MINUTES: %q", os.Getenv("JWT_TTL_MINUTES"))
	}
	cfg.JWTTTL = time.Duration(minutes) * time.Minute

	cfg.RateLimitResource, err = parseDuration(getEnv("RATE_LIMIT_RESOURCE", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RESOURCE: %w", err)
	}
	cfg.RateLimitComment, err = parseDuration(getEnv("RATE_LIMIT_COMMENT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_COMMENT: %w", err)
	}
	cfg.JobTimeout, err = parseDuration(getEnv("JOB_TIMEOUT", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid JOB_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout, err = parseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == devJWTSecret {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = devJWTSecret
	}

	return cfg, nil
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.AppEnv)
	return env == "production" || env == "prod"
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}
