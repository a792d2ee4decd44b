package domain

import "time"

// Config represents the main application configuration
type Config struct {
	VEP     VEPConfig     `mapstructure:"vep"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// VEPConfig represents configuration for the VEP annotation and recoder endpoints
type VEPConfig struct {
	BaseURL            string        `mapstructure:"base_url"`
	Timeout            time.Duration `mapstructure:"timeout"`
	RequestsPerSecond  float64       `mapstructure:"requests_per_second"`
	MaxRetries         int           `mapstructure:"max_retries"`
	RetryBackoffFactor float64       `mapstructure:"retry_backoff_factor"`
}

// CacheConfig represents annotation cache configuration
type CacheConfig struct {
	RedisURL    string        `mapstructure:"redis_url"`
	TTL         time.Duration `mapstructure:"ttl"`
	MemorySize  int           `mapstructure:"memory_size"`
	PoolSize    int           `mapstructure:"pool_size"`
	PoolTimeout time.Duration `mapstructure:"pool_timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
	Output string `mapstructure:"output"`
}
