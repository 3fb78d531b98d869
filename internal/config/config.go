package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvProduction = "production"

	OTPStoreMemory = "memory"
	OTPStoreRedis  = "redis"

	ImageStoreLocal = "local"
	ImageStoreS3    = "s3"

	// DevJWTSecret is used outside production when JWT_SECRET is unset.
	DevJWTSecret = "dev-secret-change-me"
)

// S3Config holds the bucket settings for product images.
type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// Config holds every setting the server and the CLI read from the
// environment.
type Config struct {
	Port        string
	Env         string
	JWTSecret   string
	DatabaseURL string

	AdminPhones   string
	AdminEmail    string
	AdminPassword string

	OTPStore string
	RedisURL string

	FCMProjectID         string
	FCMServiceAccountKey string

	UploadsDir string
	ImageStore string
	S3         S3Config

	FrontendOrigin string
	LogLevel       string
	LogFormat      string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getenv("SERVER_PORT", "3001"),
		Env:                  getenv("APP_ENV", "development"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		AdminPhones:          os.Getenv("ADMIN_PHONES"),
		AdminEmail:           strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),
		AdminPassword:        os.Getenv("ADMIN_PASSWORD"),
		OTPStore:             strings.ToLower(getenv("OTP_STORE", OTPStoreMemory)),
		RedisURL:             os.Getenv("REDIS_URL"),
		FCMProjectID:         os.Getenv("FCM_PROJECT_ID"),
		FCMServiceAccountKey: getenv("FCM_SERVICE_ACCOUNT_KEY", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
		UploadsDir:           getenv("UPLOADS_DIR", "uploads"),
		ImageStore:           strings.ToLower(getenv("IMAGE_STORE", ImageStoreLocal)),
		S3: S3Config{
			Bucket:        os.Getenv("S3_BUCKET"),
			Region:        getenv("S3_REGION", "us-east-1"),
			Endpoint:      os.Getenv("S3_ENDPOINT"),
			AccessKey:     os.Getenv("S3_ACCESS_KEY"),
			SecretKey:     os.Getenv("S3_SECRET_KEY"),
			PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
		},
		FrontendOrigin: os.Getenv("FRONTEND_ORIGIN"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogFormat:      getenv("LOG_FORMAT", "text"),
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET not set in environment")
		}
		cfg.JWTSecret = DevJWTSecret
	}

	dsn, err := databaseURL()
	if err != nil {
		return nil, err
	}
	cfg.DatabaseURL = dsn

	switch cfg.OTPStore {
	case OTPStoreMemory:
	case OTPStoreRedis:
		if cfg.RedisURL == "" {
			return nil, errors.New("OTP_STORE=redis requires REDIS_URL")
		}
	default:
		return nil, fmt.Errorf("OTP_STORE must be memory or redis, got %q", cfg.OTPStore)
	}

	switch cfg.ImageStore {
	case ImageStoreLocal:
	case ImageStoreS3:
		if cfg.S3.Bucket == "" {
			return nil, errors.New("IMAGE_STORE=s3 requires S3_BUCKET")
		}
	default:
		return nil, fmt.Errorf("IMAGE_STORE must be local or s3, got %q", cfg.ImageStore)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

// UsingDevSecret reports whether tokens are signed with the built-in
// development secret.
func (c *Config) UsingDevSecret() bool {
	return c.JWTSecret == DevJWTSecret
}

// databaseURL prefers DATABASE_URL and otherwise assembles a postgres:// URL
// from the DB_* variables, which golang-migrate also accepts.
func databaseURL() (string, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn, nil
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	if dbHost == "" || dbPort == "" || dbUser == "" || dbName == "" {
		return "", fmt.Errorf("database environment variables not set (DATABASE_URL or DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(dbUser, dbPassword),
		Host:     dbHost + ":" + dbPort,
		Path:     "/" + dbName,
		RawQuery: "sslmode=" + getenv("DB_SSLMODE", "disable"),
	}
	return u.String(), nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
