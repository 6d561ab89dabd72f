// Package cli holds configuration loading and terminal output helpers
// shared by the setu-voice commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

const (
	// DefaultBaseDir is the configuration directory name under $HOME.
	DefaultBaseDir = ".setu-voice"
	// DefaultConfigFile is the default configuration filename.
	DefaultConfigFile = "config.yaml"
)

// Config selects the storage backends used by the CLI.
type Config struct {
	// Store backs the verification audit log.
	Store StoreConfig `yaml:"store,omitempty"`

	// Blobs is where voice recordings are kept.
	Blobs BlobConfig `yaml:"blobs,omitempty"`

	configPath string
}

// StoreConfig selects the audit log backend.
type StoreConfig struct {
	// Backend is "badger" (default) or "memory".
	Backend string `yaml:"backend,omitempty"`

	// Dir is the BadgerDB directory. Defaults to <config dir>/db.
	Dir string `yaml:"dir,omitempty"`
}

// BlobConfig selects the recording store backend.
type BlobConfig struct {
	// Backend is "local" (default), "s3", or "memory".
	Backend string `yaml:"backend,omitempty"`

	// Dir is the local store root. Defaults to <config dir>/samples.
	Dir string `yaml:"dir,omitempty"`

	// S3 configures the S3 backend. Required when Backend is "s3".
	S3 *S3Config `yaml:"s3,omitempty"`
}

// S3Config holds S3 connection settings. Endpoint and credentials are
// optional for deployments that rely on ambient AWS configuration.
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix,omitempty"`
	Region    string `yaml:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
}

// LoadConfig loads ~/.setu-voice/config.yaml, creating an empty file
// with defaults on first use.
func LoadConfig() (*Config, error) {
	return LoadConfigWithPath("")
}

// LoadConfigWithPath loads configuration from a custom path.
func LoadConfigWithPath(customPath string) (*Config, error) {
	configPath := customPath
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cli: get home directory: %w", err)
		}
		configPath = filepath.Join(home, DefaultBaseDir, DefaultConfigFile)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return nil, fmt.Errorf("cli: create config directory: %w", err)
	}

	cfg := &Config{configPath: configPath}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyDefaults()
			return cfg, cfg.Save()
		}
		return nil, fmt.Errorf("cli: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cli: parse config: %w", err)
	}
	cfg.configPath = configPath
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Store.Backend == "" {
		c.Store.Backend = "badger"
	}
	if c.Store.Dir == "" {
		c.Store.Dir = filepath.Join(c.Dir(), "db")
	}
	if c.Blobs.Backend == "" {
		c.Blobs.Backend = "local"
	}
	if c.Blobs.Dir == "" {
		c.Blobs.Dir = filepath.Join(c.Dir(), "samples")
	}
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("cli: marshal config: %w", err)
	}
	if err := os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("cli: write config: %w", err)
	}
	return nil
}

// Path returns the config file path.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the config directory path.
func (c *Config) Dir() string {
	return filepath.Dir(c.configPath)
}
