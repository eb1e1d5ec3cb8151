package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDebounceMillis  = 800
	DefaultBatchSize       = 5
	DefaultServerPort      = 8080
	DefaultRateLimitPerSec = 10
	DefaultRateLimitBurst  = 5
)

// StoreConfig selects the assignment store backend
type StoreConfig struct {
	Driver string `yaml:"driver" validate:"required,oneof=sqlite postgres"`
	DSN    string `yaml:"dsn" validate:"required"`
}

// RosterConfig selects where the crew and personnel directory is read from
type RosterConfig struct {
	Source          string `yaml:"source" validate:"required,oneof=store sheets"`
	SheetID         string `yaml:"sheetID" validate:"required_if=Source sheets"`
	Tab             string `yaml:"tab" validate:"required_if=Source sheets"`
	CredentialsFile string `yaml:"credentialsFile" validate:"required_if=Source sheets"`
	CacheTTLSeconds int    `yaml:"cacheTTLSeconds" validate:"min=0"`
}

// AvailabilityConfig tunes the crew availability checker
type AvailabilityConfig struct {
	DebounceMillis     int     `yaml:"debounceMillis" validate:"min=0"`
	BatchSize          int     `yaml:"batchSize" validate:"min=0"`
	ProbeRatePerSec    float64 `yaml:"probeRatePerSec" validate:"min=0"`
	ProbeBurst         int     `yaml:"probeBurst" validate:"min=0"`
	ProbeTimeoutMillis int     `yaml:"probeTimeoutMillis" validate:"min=0"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port            int     `yaml:"port" validate:"min=0,max=65535"`
	RateLimitPerSec *float64 `yaml:"rateLimitPerSec" validate:"omitempty,min=0"`
	RateLimitBurst  int      `yaml:"rateLimitBurst" validate:"min=0"`
}

// SweepConfig configures recurring availability sweeps
type SweepConfig struct {
	DefaultRRule string `yaml:"defaultRRule,omitempty"`
}

// Config represents the application configuration
type Config struct {
	Store        StoreConfig        `yaml:"store"`
	Roster       RosterConfig       `yaml:"roster"`
	Availability AvailabilityConfig `yaml:"availability"`
	Server       ServerConfig       `yaml:"server"`
	Sweep        SweepConfig        `yaml:"sweep,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads and validates breus_config.<env>.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(fmt.Sprintf("breus_config.%s.yaml", env))
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Sweep.DefaultRRule != "" {
		if _, err := rrule.StrToRRule(cfg.Sweep.DefaultRRule); err != nil {
			return fmt.Errorf("invalid rrule in sweep.defaultRRule: %w", err)
		}
	}

	return nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Availability.DebounceMillis == 0 {
		cfg.Availability.DebounceMillis = DefaultDebounceMillis
	}
	if cfg.Availability.BatchSize == 0 {
		cfg.Availability.BatchSize = DefaultBatchSize
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.RateLimitPerSec == nil {
		limit := float64(DefaultRateLimitPerSec)
		cfg.Server.RateLimitPerSec = &limit
	}
	if cfg.Server.RateLimitBurst == 0 {
		cfg.Server.RateLimitBurst = DefaultRateLimitBurst
	}
}

// RateLimit is the per-client request rate; an explicit zero disables limiting
func (c ServerConfig) RateLimit() float64 {
	if c.RateLimitPerSec == nil {
		return DefaultRateLimitPerSec
	}
	return *c.RateLimitPerSec
}

// Debounce is the configured debounce window
func (c AvailabilityConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMillis) * time.Millisecond
}

// ProbeTimeout is the configured per-probe timeout; zero means none
func (c AvailabilityConfig) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutMillis) * time.Millisecond
}

// CacheTTL is the configured roster cache lifetime; zero disables caching
func (c RosterConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// findConfigFile searches for configFileName in current directory and home directory
func findConfigFile(configFileName string) (string, error) {
	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", configFileName)
}
