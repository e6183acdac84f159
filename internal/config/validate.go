package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateQR(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	if err := c.validateLimits(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Bind == "" {
		return errors.New("server.bind must be set")
	}
	if !strings.Contains(c.Server.Bind, ":") {
		return fmt.Errorf("server.bind %q must include a port", c.Server.Bind)
	}
	return nil
}

func (c *Config) validateQR() error {
	if c.QR.Size <= 0 {
		return errors.New("qr.size must be positive")
	}
	if c.QR.QuietZone < 0 {
		return errors.New("qr.quiet_zone must not be negative")
	}
	if err := validateColor("qr.foreground", c.QR.Foreground); err != nil {
		return err
	}
	return validateColor("qr.background", c.QR.Background)
}

func validateColor(field, value string) error {
	value = strings.TrimSpace(value)
	if len(value) != 7 || value[0] != '#' {
		return fmt.Errorf("%s must be a #RRGGBB color, got %q", field, value)
	}
	for _, r := range value[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return fmt.Errorf("%s must be a #RRGGBB color, got %q", field, value)
		}
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.Limit <= 0 {
		return errors.New("history.limit must be positive")
	}
	return nil
}

func (c *Config) validateLimits() error {
	if c.Limits.MaxPayloadChars <= 0 {
		return errors.New("limits.max_payload_chars must be positive")
	}
	return nil
}

func (c *Config) validateLLM() error {
	// The API key is optional: without it the summarizer reports a
	// configuration failure and oversized submissions fall back to manual
	// editing.
	if c.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
