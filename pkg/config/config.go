// ==============================================================================
// CONFIG PACKAGE - pkg/config/config.go
// ==============================================================================
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server" json:"server"`
	Log    LogConfig    `yaml:"log" json:"log"`
	SEPA   SEPAConfig   `yaml:"sepa" json:"sepa"`
}

type ServerConfig struct {
	Host         string        `yaml:"host" json:"host"`
	Port         string        `yaml:"port" json:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" json:"idle_timeout"`
	CORSOrigins  []string      `yaml:"cors_origins" json:"cors_origins"`
}

type LogConfig struct {
	Level string `yaml:"level" json:"level"`
}

// SEPAConfig holds the message builder settings.
type SEPAConfig struct {
	DefaultCurrency    string `yaml:"default_currency" json:"default_currency"`
	MinorUnitHeuristic bool   `yaml:"minor_unit_heuristic" json:"minor_unit_heuristic"`
	MinorUnitThreshold int64  `yaml:"minor_unit_threshold" json:"minor_unit_threshold"`
	InjectAddresses    bool   `yaml:"inject_addresses" json:"inject_addresses"`
	MaxBodyBytes       int64  `yaml:"max_body_bytes" json:"max_body_bytes"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         "8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Log: LogConfig{Level: "info"},
		SEPA: SEPAConfig{
			DefaultCurrency:    "EUR",
			MinorUnitHeuristic: true,
			MinorUnitThreshold: 10000,
			InjectAddresses:    true,
			MaxBodyBytes:       1 << 20,
		},
	}
}

// Load reads the configuration from the environment.
func Load() *Config {
	cfg := Defaults()
	applyEnv(cfg)
	return cfg
}

// LoadFile reads a YAML file and applies environment overrides on top.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnv("SERVER_PORT", cfg.Server.Port)
	cfg.Server.ReadTimeout = getDurationEnv("SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getDurationEnv("SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.IdleTimeout = getDurationEnv("SERVER_IDLE_TIMEOUT", cfg.Server.IdleTimeout)

	if origins := getEnv("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		cfg.Server.CORSOrigins = splitList(origins)
	}

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)

	cfg.SEPA.DefaultCurrency = strings.ToUpper(getEnv("SEPA_DEFAULT_CURRENCY", cfg.SEPA.DefaultCurrency))
	cfg.SEPA.MinorUnitHeuristic = getBoolEnv("SEPA_MINOR_UNIT_HEURISTIC", cfg.SEPA.MinorUnitHeuristic)
	cfg.SEPA.MinorUnitThreshold = getInt64Env("SEPA_MINOR_UNIT_THRESHOLD", cfg.SEPA.MinorUnitThreshold)
	cfg.SEPA.InjectAddresses = getBoolEnv("SEPA_INJECT_ADDRESSES", cfg.SEPA.InjectAddresses)
	cfg.SEPA.MaxBodyBytes = getInt64Env("SEPA_MAX_BODY_BYTES", cfg.SEPA.MaxBodyBytes)
}

// Addr returns host:port for the HTTP listener.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
