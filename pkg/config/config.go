package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents a listctl node's configuration.
type Config struct {
	DataDir   string  `yaml:"data_dir"`
	Bind      string  `yaml:"bind"`
	Port      int     `yaml:"port"`
	ReplicaID string  `yaml:"replica_id"`
	Security  Security `yaml:"security"`
	Logging   Logging  `yaml:"logging"`
}

// Security contains the API key required on every /api/v1 endpoint except
// the health check.
type Security struct {
	APIKey string `yaml:"api_key"`
}

// Logging contains logging configuration.
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration. ReplicaID is left empty;
// BootstrapConfig fills it with a fresh random "replica-<hex>" id.
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data",
		Bind:    "127.0.0.1",
		Port:    8089,
		Security: Security{
			APIKey: "auto",
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from the specified path.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// SaveConfig saves the configuration to the specified path with secure
// permissions (the API key lives in this file).
func SaveConfig(cfg *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateSecureKey generates a cryptographically secure random key of
// length bytes, hex-encoded.
func GenerateSecureKey(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// BootstrapConfig creates a new configuration with a generated API key and
// replica id, then saves it.
func BootstrapConfig(configPath, dataDir, replicaID string) (*Config, error) {
	cfg := DefaultConfig()
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if replicaID == "" {
		key, err := GenerateSecureKey(8)
		if err != nil {
			return nil, fmt.Errorf("failed to generate replica id: %w", err)
		}
		replicaID = "replica-" + key
	}
	cfg.ReplicaID = replicaID

	apiKey, err := GenerateSecureKey(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate API key: %w", err)
	}
	cfg.Security.APIKey = apiKey

	if err := SaveConfig(cfg, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}
	return cfg, nil
}

// GetDefaultConfigPath returns the default configuration path for the
// current platform.
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./listctl.yaml"
	}
	configDir := filepath.Join(homeDir, ".config", "listctl")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists.
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
