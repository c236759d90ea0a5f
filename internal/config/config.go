package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Server holds the API server configuration, read from the environment
// with an optional .env overlay.
type Server struct {
	Port                 int    `envconfig:"PORT" default:"8000"`
	DatabaseURL          string `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret            string `envconfig:"JWT_SECRET" default:"dev-only-secret-change-me"`
	TokenLifespanMinutes int    `envconfig:"TOKEN_LIFESPAN_MINUTES" default:"30"`
	DefaultAdminUser     string `envconfig:"DEFAULT_ADMIN_USER" default:"admin"`
	DefaultAdminPassword string `envconfig:"DEFAULT_ADMIN_PASSWORD" default:"adminpassword"`
	MaxUploadBytes       int64  `envconfig:"MAX_UPLOAD_BYTES" default:"5242880"`
}

// Client holds the CLI configuration.
type Client struct {
	BaseURL string `envconfig:"INVOICE_API_URL" default:"http://localhost:8000"`
	// TokenFile overrides where the login token is stored; empty means
	// the user config directory.
	TokenFile string `envconfig:"INVOICE_TOKEN_FILE"`
	// ImportExpiryYear completes the year-less DD-MM expiry dates the
	// PDF extractor produces.
	ImportExpiryYear int `envconfig:"IMPORT_EXPIRY_YEAR" default:"2025"`
}

func LoadServer() (Server, error) {
	_ = godotenv.Load()
	var cfg Server
	if err := envconfig.Process("", &cfg); err != nil {
		return Server{}, fmt.Errorf("load server config: %w", err)
	}
	if cfg.Port <= 0 {
		return Server{}, fmt.Errorf("invalid PORT: %d", cfg.Port)
	}
	return cfg, nil
}

func LoadClient() (Client, error) {
	_ = godotenv.Load()
	var cfg Client
	if err := envconfig.Process("", &cfg); err != nil {
		return Client{}, fmt.Errorf("load client config: %w", err)
	}
	if cfg.TokenFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return Client{}, fmt.Errorf("resolve config dir: %w", err)
		}
		cfg.TokenFile = filepath.Join(dir, "invoicectl", "token")
	}
	return cfg, nil
}
