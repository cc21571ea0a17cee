// Package config loads service settings from defaults, an optional YAML file
// and the environment, in that order of precedence (environment wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/chapter-events/internal/event"
	"github.com/pfrederiksen/chapter-events/internal/storage"
)

// Config holds every recognized option. Env tags carry no defaults so that
// unset variables leave file values untouched.
type Config struct {
	Environment   string `yaml:"environment" envconfig:"ENVIRONMENT"`
	LogLevel      string `yaml:"log_level" envconfig:"LOG_LEVEL"`
	HTTPAddr      string `yaml:"http_addr" envconfig:"HTTP_ADDR"`
	AdminPassword string `yaml:"admin_password" envconfig:"ADMIN_PASSWORD"`

	DataFile      string `yaml:"data_file" envconfig:"DATA_FILE"`
	KVURL         string `yaml:"kv_rest_api_url" envconfig:"KV_REST_API_URL"`
	KVToken       string `yaml:"kv_rest_api_token" envconfig:"KV_REST_API_TOKEN"`
	KVKey         string `yaml:"kv_key" envconfig:"KV_KEY"`
	GistID        string `yaml:"gist_id" envconfig:"GIST_ID"`
	GitHubToken   string `yaml:"github_token" envconfig:"GITHUB_TOKEN"`
	EncryptionKey string `yaml:"store_encryption_key" envconfig:"STORE_ENCRYPTION_KEY"`
	SheetsURL     string `yaml:"google_sheets_url" envconfig:"GOOGLE_SHEETS_URL"`

	FetchTimeout    time.Duration `yaml:"fetch_timeout" envconfig:"FETCH_TIMEOUT"`
	DefaultTimezone string        `yaml:"default_timezone" envconfig:"DEFAULT_TIMEZONE"`
	AllowedHosts    []string      `yaml:"allowed_hosts" envconfig:"ALLOWED_HOSTS"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Environment:     "development",
		LogLevel:        "INFO",
		HTTPAddr:        ":8080",
		DataFile:        "data/events.json",
		KVKey:           storage.DefaultKVKey,
		FetchTimeout:    15 * time.Second,
		DefaultTimezone: event.DefaultTimezone,
		AllowedHosts:    []string{"lu.ma", "luma.com"},
	}
}

// Load reads path (skipped when empty) over the defaults, then applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at request time
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.HTTPAddr) == "" {
		errs = append(errs, errors.New("http_addr must not be empty"))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("fetch_timeout must be positive, got %s", c.FetchTimeout))
	}
	if !event.ValidTimezone(c.DefaultTimezone) {
		errs = append(errs, fmt.Errorf("default_timezone %q is not a valid IANA zone", c.DefaultTimezone))
	}
	if len(c.AllowedHosts) == 0 {
		errs = append(errs, errors.New("allowed_hosts must name at least one host"))
	}
	if (c.KVURL == "") != (c.KVToken == "") {
		errs = append(errs, errors.New("kv_rest_api_url and kv_rest_api_token must be set together"))
	}
	return errors.Join(errs...)
}

// StorageOptions maps the configuration onto storage.New's options
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		DataFile:        c.DataFile,
		KVURL:           c.KVURL,
		KVToken:         c.KVToken,
		KVKey:           c.KVKey,
		GistID:          c.GistID,
		GitHubToken:     c.GitHubToken,
		EncryptionKey:   c.EncryptionKey,
		SheetsURL:       c.SheetsURL,
		DefaultTimezone: c.DefaultTimezone,
		Timeout:         c.FetchTimeout,
	}
}
