package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the app settings read from the environment.
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	ShopifyAPIKey     string   `env:"SHOPIFY_API_KEY"`
	ShopifyAPISecret  string   `env:"SHOPIFY_API_SECRET"`
	ShopifyScopes     []string `env:"SHOPIFY_SCOPES" envSeparator:"," envDefault:"write_products,write_draft_orders,write_files"`
	ShopifyAPIVersion string   `env:"SHOPIFY_API_VERSION" envDefault:"2025-01"`
	AppURL            string   `env:"SHOPIFY_APP_URL" envDefault:"http://localhost:8080"`

	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"printlabs"`

	AWSRegion    string `env:"AWS_REGION" envDefault:"us-east-1"`
	DesignBucket string `env:"DESIGN_BUCKET"`

	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	NotifyEmail    string `env:"NOTIFY_EMAIL"`
}

// LoadConfig loads environment variables from .env file and parses them.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.AppURL = strings.TrimRight(cfg.AppURL, "/")
	return &cfg, nil
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.ShopifyAPIKey == "" || c.ShopifyAPISecret == "" {
		return fmt.Errorf("SHOPIFY_API_KEY and SHOPIFY_API_SECRET are required")
	}
	return nil
}

// MirrorEnabled reports whether uploaded designs are also copied to S3.
func (c *Config) MirrorEnabled() bool {
	return c.DesignBucket != ""
}

// NotifyEnabled reports whether merchant e-mails are sent for new draft orders.
func (c *Config) NotifyEnabled() bool {
	return c.SendGridAPIKey != "" && c.NotifyEmail != ""
}
