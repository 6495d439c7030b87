// Package config builds the process configuration once at startup.
// Non-secret settings come from an optional contactline.yml; the
// Google service-account secrets come from the environment only and
// are never written to disk by this package.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the conventional config file name.
const DefaultFile = "contactline.yml"

// Config models contactline.yml plus the environment secrets.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Sheet  SheetConfig  `yaml:"sheet"`
	Google Credentials  `yaml:"-"`
}

type ServerConfig struct {
	Addr                 string `yaml:"addr"`
	BasePath             string `yaml:"base_path"`
	AppendTimeoutSeconds int    `yaml:"append_timeout_seconds"`
}

// AppendTimeout bounds the external append call per request.
func (s ServerConfig) AppendTimeout() time.Duration {
	return time.Duration(s.AppendTimeoutSeconds) * time.Second
}

type SheetConfig struct {
	Name     string `yaml:"name"`
	Timezone string `yaml:"timezone"`
}

// AppendRange addresses the six ordered columns of the target sheet.
func (s SheetConfig) AppendRange() string {
	return s.Name + "!A:F"
}

// HeaderRange addresses the pre-existing header row.
func (s SheetConfig) HeaderRange() string {
	return s.Name + "!A1:F1"
}

// Location resolves the display timezone for row timestamps.
func (s SheetConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

// Credentials are the Google service-account secrets.
type Credentials struct {
	ClientEmail string
	PrivateKey  string
	SheetID     string
}

// Complete reports whether all three secrets are present. An
// incomplete set is a hard configuration failure for the endpoint.
func (c Credentials) Complete() bool {
	return c.ClientEmail != "" && c.PrivateKey != "" && c.SheetID != ""
}

// Load reads the optional yaml file at path (DefaultFile when empty)
// and the environment secrets. A missing file yields defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else {
		cfg, err = FromYAML(data)
		if err != nil {
			return nil, err
		}
	}
	cfg.Google = CredentialsFromEnv()
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	cfg.Server.Addr = "127.0.0.1:8080"
	cfg.Server.BasePath = "/api"
	cfg.Server.AppendTimeoutSeconds = 15
	cfg.Sheet.Name = "Sheet1"
	cfg.Sheet.Timezone = "Asia/Kathmandu"
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes. Absent
// fields keep their defaults.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("server.base_path must start with /")
	}
	if c.Server.AppendTimeoutSeconds <= 0 {
		return fmt.Errorf("server.append_timeout_seconds must be positive")
	}
	if c.Sheet.Name == "" {
		return fmt.Errorf("sheet.name is required")
	}
	if _, err := c.Sheet.Location(); err != nil {
		return fmt.Errorf("sheet.timezone %q: %w", c.Sheet.Timezone, err)
	}
	return nil
}

// CredentialsFromEnv reads the service-account secrets. Deployment
// systems often store the private key with literal \n sequences; they
// are unescaped into real newlines here, before first use.
func CredentialsFromEnv() Credentials {
	v := viper.GetViper()
	_ = v.BindEnv("google-client-email", "GOOGLE_CLIENT_EMAIL")
	_ = v.BindEnv("google-private-key", "GOOGLE_PRIVATE_KEY")
	_ = v.BindEnv("google-sheet-id", "GOOGLE_SHEET_ID")
	return Credentials{
		ClientEmail: v.GetString("google-client-email"),
		PrivateKey:  UnescapePrivateKey(v.GetString("google-private-key")),
		SheetID:     v.GetString("google-sheet-id"),
	}
}

// UnescapePrivateKey turns embedded \n escape sequences into real
// newlines so PEM parsing works regardless of how the secret was set.
func UnescapePrivateKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}
