package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port     int    `envconfig:"PORT" default:"21301"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Version  string `envconfig:"VERSION" default:"1.0.0"`

	StorageDriver string        `envconfig:"STORAGE_DRIVER" default:"postgres"`
	DatabaseURL   string        `envconfig:"DATABASE_URL" default:""`
	DBMaxConns    int32         `envconfig:"DB_MAX_CONNS" default:"10"`
	DBConnTimeout time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"5s"`
	SQLitePath    string        `envconfig:"SQLITE_PATH" default:"stockroom.db"`
	SeedOnStart   bool          `envconfig:"SEED_ON_START" default:"true"`

	Keycloak KeycloakConfig `envconfig:"KEYCLOAK"`

	AuthMode          string `envconfig:"AUTH_MODE" default:"oidc"`
	AuthHS256Secret   string `envconfig:"AUTH_HS256_SECRET" default:""`
	CORSAllowedOrigin string `envconfig:"CORS_ALLOWED_ORIGIN" default:"http://localhost:3000"`

	IntrospectionTimeout time.Duration `envconfig:"INTROSPECTION_TIMEOUT" default:"5s"`
	IntrospectionRate    float64       `envconfig:"INTROSPECTION_RATE" default:"10"`
	IntrospectionBurst   int           `envconfig:"INTROSPECTION_BURST" default:"20"`
}

// KeycloakConfig describes the identity provider the service trusts.
// Variables are read as KEYCLOAK_SERVER_URL, KEYCLOAK_REALM and so on.
type KeycloakConfig struct {
	ServerURL    string `envconfig:"SERVER_URL" default:"http://localhost:8080"`
	Realm        string `envconfig:"REALM" default:"demo-realm"`
	ClientID     string `envconfig:"CLIENT_ID" default:"demo-backend"`
	ClientSecret string `envconfig:"CLIENT_SECRET" default:""`
}

// IssuerURL returns the realm issuer, e.g. http://localhost:8080/realms/demo-realm.
func (k KeycloakConfig) IssuerURL() string {
	return strings.TrimRight(k.ServerURL, "/") + "/realms/" + k.Realm
}

// JWKSURL returns the realm's published signing keys endpoint.
func (k KeycloakConfig) JWKSURL() string {
	return k.IssuerURL() + "/protocol/openid-connect/certs"
}

// IntrospectionURL returns the realm's token introspection endpoint.
func (k KeycloakConfig) IntrospectionURL() string {
	return k.IssuerURL() + "/protocol/openid-connect/token/introspect"
}

// Load reads an optional .env file, then environment variables into a Config struct.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORAGE_DRIVER=postgres")
		}
	case "sqlite":
	default:
		return fmt.Errorf("STORAGE_DRIVER must be postgres or sqlite, got %q", c.StorageDriver)
	}

	switch c.AuthMode {
	case "oidc":
	case "hs256":
		if c.AuthHS256Secret == "" {
			return errors.New("AUTH_HS256_SECRET is required when AUTH_MODE=hs256")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be oidc or hs256, got %q", c.AuthMode)
	}

	return nil
}
