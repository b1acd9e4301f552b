package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is built once at startup and handed to the components that
// need it. Nothing in this repo reads the environment after boot.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Services ServicesConfig
	Email    EmailConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type RedisConfig struct {
	URL string
}

// ServicesConfig points at sibling services. When VenueServiceURL is
// empty, venue ownership is resolved against the local store.
type ServicesConfig struct {
	VenueServiceURL string
	AuthServiceURL  string
	Timeout         time.Duration
}

type EmailConfig struct {
	From     string
	Password string
	SMTPHost string
	SMTPPort string
	BaseURL  string
}

type StorageConfig struct {
	AWSRegion    string
	AWSAccessKey string
	AWSSecretKey string
	S3Bucket     string
	UploadDir    string
	BaseURL      string
}

// Load reads configuration from the environment (a .env file is loaded
// by main before this runs).
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("JWT_EXPIRATION", "168h")
	v.SetDefault("REDIS_URL", "redis://redis:6379")
	v.SetDefault("SERVICE_TIMEOUT", "3s")
	v.SetDefault("UPLOAD_DIR", "/app/uploads")
	v.SetDefault("BASE_URL", "http://localhost:8080")

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Mode: v.GetString("GIN_MODE"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			Expiration: v.GetDuration("JWT_EXPIRATION"),
		},
		Redis: RedisConfig{
			URL: v.GetString("REDIS_URL"),
		},
		Services: ServicesConfig{
			VenueServiceURL: v.GetString("VENUE_SERVICE_URL"),
			AuthServiceURL:  v.GetString("AUTH_SERVICE_URL"),
			Timeout:         v.GetDuration("SERVICE_TIMEOUT"),
		},
		Email: EmailConfig{
			From:     v.GetString("EMAIL_FROM"),
			Password: v.GetString("EMAIL_PASSWORD"),
			SMTPHost: v.GetString("SMTP_HOST"),
			SMTPPort: v.GetString("SMTP_PORT"),
			BaseURL:  v.GetString("BASE_URL"),
		},
		Storage: StorageConfig{
			AWSRegion:    v.GetString("AWS_REGION"),
			AWSAccessKey: v.GetString("AWS_ACCESS_KEY_ID"),
			AWSSecretKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
			S3Bucket:     v.GetString("AWS_S3_BUCKET"),
			UploadDir:    v.GetString("UPLOAD_DIR"),
			BaseURL:      v.GetString("BASE_URL"),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}
