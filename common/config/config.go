package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every process-wide setting, parsed once at startup and passed
// by reference into the services that need it. Nothing reads the environment
// after Load returns.
type Config struct {
	// HTTP port for the local dev server (root main.go).
	Port string `env:"PORT" envDefault:"8080"`

	// Document store.
	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://127.0.0.1:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"MediaShare"`

	// Bearer tokens.
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"8h"`

	// Password reset.
	OTPLength     int           `env:"OTP_LENGTH" envDefault:"6"`
	OTPTTL        time.Duration `env:"OTP_TTL" envDefault:"2h"`
	ResetCooldown time.Duration `env:"RESET_COOLDOWN" envDefault:"2h"`

	// Outbound mail.
	SMTP SMTPConfig `envPrefix:"SMTP_"`

	// Video object storage.
	S3Bucket       string `env:"S3_BUCKET" envDefault:"mediashare-videos"`
	S3Region       string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint     string `env:"S3_ENDPOINT"`
	S3UsePathStyle bool   `env:"S3_USE_PATH_STYLE" envDefault:"false"`

	// Base URL encoded into share QR codes.
	ShareBaseURL string `env:"SHARE_BASE_URL" envDefault:"http://localhost:8080/api/media/share"`

	// Bootstrap admin account, created at startup when absent.
	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@mediashare.local"`
	AdminFullName string `env:"ADMIN_FULLNAME" envDefault:"System Administrator"`

	// Reset-request cleanup job.
	CleanupInterval  time.Duration `env:"CLEANUP_INTERVAL" envDefault:"30m"`
	CleanupRetention time.Duration `env:"CLEANUP_RETENTION" envDefault:"24h"`
}

// SMTPConfig configures the outbound mail adapter. An empty username or
// password puts the adapter in dev mode (log only, nothing sent).
type SMTPConfig struct {
	Host       string        `env:"HOST" envDefault:"smtp.gmail.com"`
	Port       string        `env:"PORT" envDefault:"587"`
	Username   string        `env:"USERNAME"`
	Password   string        `env:"PASSWORD"`
	From       string        `env:"FROM" envDefault:"noreply@mediashare.local"`
	FromName   string        `env:"FROM_NAME" envDefault:"MediaShare"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"10s"`
	MaxRetries int           `env:"MAX_RETRIES" envDefault:"3"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that would silently break auth at runtime.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.OTPLength < 4 || c.OTPLength > 10 {
		return fmt.Errorf("OTP_LENGTH must be between 4 and 10, got %d", c.OTPLength)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.OTPTTL <= 0 {
		return fmt.Errorf("OTP_TTL must be positive")
	}
	return nil
}
