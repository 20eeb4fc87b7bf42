package httpapi

import (
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Directory source kinds.
const (
	DirectorySourceFile = "file"
	DirectorySourceURL  = "url"
)

// Cache backend kinds.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config is the service configuration, loaded from a YAML file.
type Config struct {
	// Listen is the address of the public API listener.
	Listen string `yaml:"listen"`
	// AdminListen is the address of the health/metrics listener.
	// Empty disables the admin listener.
	AdminListen string `yaml:"admin_listen"`
	// Development switches the logger to development output.
	Development bool `yaml:"development"`

	Directory DirectoryConfig `yaml:"directory"`
	Cache     CacheConfig     `yaml:"cache"`
	Logo      LogoConfig      `yaml:"logo"`
}

// DirectoryConfig configures the organization directory source.
type DirectoryConfig struct {
	Source          string        `yaml:"source"` // "file" or "url"
	Path            string        `yaml:"path"`
	URL             string        `yaml:"url"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	IDFilter        string        `yaml:"id_filter"`
}

// CacheConfig configures the logo cache backend.
type CacheConfig struct {
	Backend   string        `yaml:"backend"` // "memory" or "redis"
	RedisAddr string        `yaml:"redis_addr"`
	RetainFor time.Duration `yaml:"retain_for"`
}

// LogoConfig configures logo fetching and encoding.
type LogoConfig struct {
	FreshFor     time.Duration `yaml:"fresh_for"`
	MaxSizeBytes int64         `yaml:"max_size_bytes"`
	MaxDimension int           `yaml:"max_dimension"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheBackendMemory
	}
	if c.Cache.RetainFor <= 0 {
		c.Cache.RetainFor = 24 * time.Hour
	}
	if c.Logo.FreshFor <= 0 {
		c.Logo.FreshFor = time.Hour
	}
	if c.Directory.RefreshInterval <= 0 {
		c.Directory.RefreshInterval = 15 * time.Minute
	}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Listen, validation.Required),
	); err != nil {
		return err
	}

	if err := validation.ValidateStruct(&c.Directory,
		validation.Field(&c.Directory.Source, validation.Required,
			validation.In(DirectorySourceFile, DirectorySourceURL)),
		validation.Field(&c.Directory.Path,
			validation.Required.When(c.Directory.Source == DirectorySourceFile)),
		validation.Field(&c.Directory.URL,
			validation.Required.When(c.Directory.Source == DirectorySourceURL)),
	); err != nil {
		return err
	}

	return validation.ValidateStruct(&c.Cache,
		validation.Field(&c.Cache.Backend,
			validation.In(CacheBackendMemory, CacheBackendRedis)),
		validation.Field(&c.Cache.RedisAddr,
			validation.Required.When(c.Cache.Backend == CacheBackendRedis)),
	)
}

// LoadConfig reads, defaults and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}
