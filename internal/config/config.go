package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load reads the configuration from a TOML file, applies defaults and
// expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	expandVars(&cfg)

	return &cfg, nil
}

// Validate checks the configuration for consistency. It returns all
// problems found rather than stopping at the first one.
func (c *Config) Validate() []error {
	var errors []error

	if c.Database.Path == "" {
		errors = append(errors, fmt.Errorf("database.path is required"))
	}

	if c.Scheduler.CheckIntervalSeconds <= 0 {
		errors = append(errors, fmt.Errorf("scheduler.check_interval_seconds must be positive, got %d", c.Scheduler.CheckIntervalSeconds))
	}

	if len(c.Scheduler.NudgeThresholdsMinutes) == 0 {
		errors = append(errors, fmt.Errorf("scheduler.nudge_thresholds_minutes cannot be empty"))
	} else {
		prev := 0
		for i, m := range c.Scheduler.NudgeThresholdsMinutes {
			if m <= 0 {
				errors = append(errors, fmt.Errorf("scheduler.nudge_thresholds_minutes[%d] must be positive, got %d", i, m))
			}
			if i > 0 && m <= prev {
				errors = append(errors, fmt.Errorf("scheduler.nudge_thresholds_minutes must be strictly ascending"))
				break
			}
			prev = m
		}
	}

	if c.Scheduler.UpcomingWindowHours <= 0 {
		errors = append(errors, fmt.Errorf("scheduler.upcoming_window_hours must be positive, got %d", c.Scheduler.UpcomingWindowHours))
	}

	if c.Agent.Enabled {
		if c.Agent.Binary == "" {
			errors = append(errors, fmt.Errorf("agent.binary is required when agent execution is enabled"))
		}
		if c.Agent.TimeoutSeconds <= 0 {
			errors = append(errors, fmt.Errorf("agent.timeout_seconds must be positive, got %d", c.Agent.TimeoutSeconds))
		}
	}

	if c.Digest.Enabled && c.Digest.Schedule == "" {
		errors = append(errors, fmt.Errorf("digest.schedule is required when digest is enabled"))
	}

	if c.Metrics.Enabled && c.Metrics.ListenAddr == "" {
		errors = append(errors, fmt.Errorf("metrics.listen_addr is required when metrics are enabled"))
	}

	if c.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[strings.ToLower(c.Logging.Level)] {
			errors = append(errors, fmt.Errorf("invalid logging.level: %s (expected: debug, info, warn, error)", c.Logging.Level))
		}
	}

	if c.Logging.Format != "" {
		validFormats := map[string]bool{"json": true, "text": true}
		if !validFormats[strings.ToLower(c.Logging.Format)] {
			errors = append(errors, fmt.Errorf("invalid logging.format: %s (expected: json, text)", c.Logging.Format))
		}
	}

	return errors
}

// expandVars expands ${VAR} references and ~ in path-like values.
func expandVars(c *Config) {
	c.Database.Path = expandHome(expandEnv(c.Database.Path))
	c.Agent.Binary = expandEnv(c.Agent.Binary)
	if strings.HasPrefix(c.Logging.Output, "${") {
		c.Logging.Output = expandEnv(c.Logging.Output)
	}
}

// expandEnv expands a ${VAR} or ${VAR:default} reference.
func expandEnv(s string) string {
	if !strings.HasPrefix(s, "${") {
		return s
	}

	end := strings.Index(s, "}")
	if end == -1 {
		return s
	}

	content := s[2:end]
	if parts := strings.SplitN(content, ":", 2); len(parts) == 2 {
		key := parts[0]
		defaultVal := parts[1]
		if val := os.Getenv(key); val != "" {
			return val
		}
		return defaultVal
	}

	return os.Getenv(content)
}

// expandHome expands a leading ~ in a path.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
