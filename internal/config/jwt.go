package config

import (
	"fmt"
	"strconv"
)

// JWTConfig holds configuration for validating bearer tokens on the export API.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// NewJWTConfig reads JWT_SECRET and JWT_EXPIRATION_HOURS (default 24).
// It returns nil, nil when JWT_SECRET is unset, which leaves the API open.
func NewJWTConfig() (*JWTConfig, error) {
	secret := env("JWT_SECRET")
	if secret == "" {
		return nil, nil
	}

	hours := 24
	if raw := env("JWT_EXPIRATION_HOURS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %v", err)
		}
		hours = parsed
	}

	cfg := &JWTConfig{Secret: secret, ExpirationHours: hours}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *JWTConfig) normalize() error {
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
