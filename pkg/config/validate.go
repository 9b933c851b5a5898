// Package config loads and validates service configuration.
package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// LoadDotEnv loads a .env file when present. A missing file is not an error.
func LoadDotEnv(paths ...string) bool {
	return godotenv.Load(paths...) == nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Server.Port) == "" {
		problems = append(problems, "SERVER_PORT is required")
	}
	if !currencyPattern.MatchString(c.SEPA.DefaultCurrency) {
		problems = append(problems, fmt.Sprintf("SEPA_DEFAULT_CURRENCY must be a three-letter code, got %q", c.SEPA.DefaultCurrency))
	}
	if c.SEPA.MinorUnitThreshold < 0 {
		problems = append(problems, "SEPA_MINOR_UNIT_THRESHOLD must not be negative")
	}
	if c.SEPA.MaxBodyBytes <= 0 {
		problems = append(problems, "SEPA_MAX_BODY_BYTES must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
