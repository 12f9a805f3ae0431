package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything read from the environment at start-up
type Config struct {
	Addr string `env:"ADDR" envDefault:":8080"`

	JWTSecret     string        `env:"JWT_SECRET"`
	SessionExpiry time.Duration `env:"SESSION_EXPIRY" envDefault:"168h"`

	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@mec.edu.in"`
	AdminName     string `env:"ADMIN_NAME" envDefault:"Canteen Admin"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	// Optional collaborators: empty values run the storefront fully in-memory
	DatabaseURL  string   `env:"DATABASE_URL"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"canteen-orders"`

	SMTPHost string `env:"SMTP_HOST" envDefault:"localhost"`
	SMTPPort string `env:"SMTP_PORT" envDefault:"1025"`
	SMTPFrom string `env:"SMTP_FROM" envDefault:"noreply@mec.edu.in"`
}

// Load parses the environment and validates the required secrets
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}
	if cfg.AdminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD environment variable is required")
	}

	return &cfg, nil
}
