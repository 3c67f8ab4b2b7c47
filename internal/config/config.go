package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MinSecretLength is the shortest JWT_SECRET accepted at startup.
const MinSecretLength = 32

var ErrMissingSecret = errors.New("JWT_SECRET is required")

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins []string

	DatabaseURL string
	RedisURL    string

	MeiliSearchHost string
	MeiliMasterKey  string

	CloudinaryURL          string
	CloudinaryUploadFolder string
	UploadDir              string

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	RateLimitRegister time.Duration
	RateLimitLogin    time.Duration

	AdminEmail    string
	AdminName     string
	AdminPassword string

	ProvisionDefaultPassword string
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load reads configuration from the environment. A .env file is loaded
// first when present; real environment variables win over it.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		MeiliSearchHost: os.Getenv("MEILISEARCH_HOST"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		CloudinaryURL:          os.Getenv("CLOUDINARY_URL"),
		CloudinaryUploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "unimanage"),
		UploadDir:              getEnv("UPLOAD_DIR", "uploads"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTIssuer: getEnv("JWT_ISSUER", "unimanage"),

		AdminEmail:    strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),
		AdminName:     getEnv("ADMIN_NAME", "Administrator"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		ProvisionDefaultPassword: os.Getenv("PROVISION_DEFAULT_PASSWORD"),
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}
	if len(cfg.JWTSecret) < MinSecretLength {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d bytes", MinSecretLength)
	}

	var err error
	if cfg.JWTTTL, err = getEnvDuration("JWT_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RateLimitRegister, err = getEnvDuration("RATE_LIMIT_REGISTER", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.RateLimitLogin, err = getEnvDuration("RATE_LIMIT_LOGIN", 2*time.Second); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
