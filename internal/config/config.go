// Package config provides configuration loading and management for the sync server.
// All settings come from the environment, following the deployment model where
// the service runs as a container configured entirely through env vars.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/ayudahub/snpsap-sync-server/internal/telemetry"
)

const (
	// EnvPrefix is the prefix for all environment variables read by the server
	EnvPrefix = "SNPSAP"

	// DefaultPortal is the portal/tenant code sent to the upstream API when
	// none is configured
	DefaultPortal = "GE"

	// DefaultHTTPAddress is the default listen address for the HTTP server
	DefaultHTTPAddress = ":8080"
)

// Config represents the root configuration structure
type Config struct {
	// APIBaseURL is the base URL of the upstream SNPSAP API
	APIBaseURL string

	// Portal is the portal/tenant code sent on every upstream request
	Portal string

	// CronSecret is the shared secret that authorizes the batch trigger endpoint
	CronSecret string

	// HTTPAddress is the listen address for the HTTP server
	HTTPAddress string

	// Database holds the connection settings for the catalog store
	Database *DatabaseConfig

	// Telemetry holds the OTel exporter settings
	Telemetry *telemetry.Config
}

// DatabaseConfig defines database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname or IP address
	Host string

	// Port is the database server port
	Port int

	// User is the database username
	User string

	// Password is the database password. Prefer PasswordFile in production.
	Password string

	// PasswordFile is the path to a file containing the database password
	PasswordFile string

	// Database is the database name
	Database string

	// SSLMode is the SSL mode for the connection (disable, require, verify-ca, verify-full)
	SSLMode string

	// MaxConns is the maximum number of connections in the pool
	MaxConns int32
}

const (
	defaultSSLMode  = "require"
	defaultMaxConns = 10
)

// GetPassword returns the database password using the following priority:
// 1. Read from PasswordFile if specified
// 2. The Password field (populated from SNPSAP_DB_PASSWORD)
//
// The password from file will have leading/trailing whitespace trimmed.
func (d *DatabaseConfig) GetPassword() (string, error) {
	if d.PasswordFile != "" {
		// Use filepath.Clean to prevent path traversal attacks
		cleanPath := filepath.Clean(d.PasswordFile)

		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	if d.Password != "" {
		return d.Password, nil
	}

	return "", fmt.Errorf("no database password configured")
}

// ConnectionString builds a pgx-compatible connection string
func (d *DatabaseConfig) ConnectionString() (string, error) {
	password, err := d.GetPassword()
	if err != nil {
		return "", err
	}

	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = defaultSSLMode
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(password),
		d.Host,
		d.Port,
		d.Database,
		sslMode,
	), nil
}

// GetMaxConns returns the pool size, using the default if not specified
func (d *DatabaseConfig) GetMaxConns() int32 {
	if d.MaxConns == 0 {
		return defaultMaxConns
	}
	return d.MaxConns
}

// Validate checks the database configuration for required fields
func (d *DatabaseConfig) Validate() error {
	if d.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if d.Port == 0 {
		return fmt.Errorf("database port is required")
	}
	if d.User == "" {
		return fmt.Errorf("database user is required")
	}
	if d.Database == "" {
		return fmt.Errorf("database name is required")
	}
	return nil
}

// newViper creates a viper instance wired to the SNPSAP env prefix
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// LoadConfig reads the configuration from the environment
func LoadConfig() (*Config, error) {
	v := newViper()

	v.SetDefault("portal", DefaultPortal)
	v.SetDefault("http_address", DefaultHTTPAddress)
	v.SetDefault("db.sslmode", defaultSSLMode)

	cfg := &Config{
		APIBaseURL:  v.GetString("api_base_url"),
		Portal:      v.GetString("portal"),
		CronSecret:  v.GetString("cron_secret"),
		HTTPAddress: v.GetString("http_address"),
		Database: &DatabaseConfig{
			Host:         v.GetString("db.host"),
			Port:         v.GetInt("db.port"),
			User:         v.GetString("db.user"),
			Password:     v.GetString("db.password"),
			PasswordFile: v.GetString("db.password_file"),
			Database:     v.GetString("db.name"),
			SSLMode:      v.GetString("db.sslmode"),
			MaxConns:     v.GetInt32("db.max_conns"),
		},
		Telemetry: &telemetry.Config{
			Enabled:        v.GetBool("telemetry.enabled"),
			Endpoint:       v.GetString("telemetry.endpoint"),
			Token:          v.GetString("telemetry.token"),
			Insecure:       v.GetBool("telemetry.insecure"),
			ServiceVersion: v.GetString("telemetry.service_version"),
		},
	}

	// Legacy deployments set CRON_SECRET without the prefix
	if cfg.CronSecret == "" {
		cfg.CronSecret = os.Getenv("CRON_SECRET")
	}

	return cfg, nil
}

// Validate checks the configuration for required fields and valid values
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("upstream API base URL is required (SNPSAP_API_BASE_URL)")
	}
	if _, err := url.ParseRequestURI(c.APIBaseURL); err != nil {
		return fmt.Errorf("upstream API base URL is invalid: %w", err)
	}
	if c.Portal == "" {
		return fmt.Errorf("portal code cannot be empty")
	}
	if c.CronSecret == "" {
		return fmt.Errorf("trigger secret is required (SNPSAP_CRON_SECRET)")
	}
	if c.Database == nil {
		return fmt.Errorf("database configuration is required")
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	return nil
}
