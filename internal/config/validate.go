package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	if c.Defaults.MetricsGraceSeconds < 0 {
		return errors.New("defaults.metrics_grace_seconds must not be negative")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
