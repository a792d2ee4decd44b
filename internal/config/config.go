package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/vep-annotation-client/internal/domain"
)

// Manager loads and validates application configuration using Viper.
type Manager struct {
	config *domain.Config
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from file, environment and defaults
func (m *Manager) loadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/vep-annotation-client/")

	viper.SetEnvPrefix("VEP_CLIENT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	m.setDefaults()

	// Config file is optional; defaults and env vars cover the rest.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	viper.SetDefault("vep.base_url", "https://rest.ensembl.org")
	viper.SetDefault("vep.timeout", "30s")
	viper.SetDefault("vep.requests_per_second", 15)
	viper.SetDefault("vep.max_retries", 3)
	viper.SetDefault("vep.retry_backoff_factor", 2.0)

	viper.SetDefault("cache.redis_url", "redis://localhost:6379")
	viper.SetDefault("cache.ttl", "24h")
	viper.SetDefault("cache.memory_size", 1000)
	viper.SetDefault("cache.pool_size", 10)
	viper.SetDefault("cache.pool_timeout", "4s")
	viper.SetDefault("cache.max_retries", 3)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetVEPConfig returns the VEP endpoint configuration
func (m *Manager) GetVEPConfig() *domain.VEPConfig {
	return &m.config.VEP
}

// GetCacheConfig returns the cache configuration
func (m *Manager) GetCacheConfig() *domain.CacheConfig {
	return &m.config.Cache
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	if config.VEP.BaseURL == "" {
		return domain.NewValidationError("vep.base_url", "base URL is required", config.VEP.BaseURL)
	}
	if config.VEP.RequestsPerSecond <= 0 {
		return domain.NewValidationError("vep.requests_per_second", "must be positive", config.VEP.RequestsPerSecond)
	}
	if config.VEP.MaxRetries < 0 {
		return domain.NewValidationError("vep.max_retries", "cannot be negative", config.VEP.MaxRetries)
	}
	if config.VEP.RetryBackoffFactor <= 0 {
		return domain.NewValidationError("vep.retry_backoff_factor", "must be positive", config.VEP.RetryBackoffFactor)
	}

	if config.Cache.RedisURL == "" {
		return domain.NewValidationError("cache.redis_url", "Redis URL is required", config.Cache.RedisURL)
	}
	if config.Cache.TTL <= 0 {
		return domain.NewValidationError("cache.ttl", "TTL must be positive", config.Cache.TTL)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return domain.NewValidationError("logging.level", fmt.Sprintf("invalid log level: %s", config.Logging.Level), config.Logging.Level)
	}

	return nil
}
