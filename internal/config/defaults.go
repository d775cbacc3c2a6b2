package config

// applyDefaults fills in default values for fields left unset.
func applyDefaults(c *Config) {
	if c.Database.Path == "" {
		c.Database.Path = "~/.remind/remind.db"
	}

	if c.Scheduler.CheckIntervalSeconds == 0 {
		c.Scheduler.CheckIntervalSeconds = 1
	}
	if len(c.Scheduler.NudgeThresholdsMinutes) == 0 {
		c.Scheduler.NudgeThresholdsMinutes = []int{30, 60, 120}
	}
	if c.Scheduler.UpcomingWindowHours == 0 {
		c.Scheduler.UpcomingWindowHours = 24
	}

	if c.Notifications.AppName == "" {
		c.Notifications.AppName = "Remind"
	}

	if c.Agent.Binary == "" {
		c.Agent.Binary = "claude"
	}
	if c.Agent.TimeoutSeconds == 0 {
		c.Agent.TimeoutSeconds = 600
	}
	if c.Agent.SkipPermissionsFlag == "" {
		c.Agent.SkipPermissionsFlag = "--dangerously-skip-permissions"
	}

	if c.Digest.Schedule == "" {
		c.Digest.Schedule = "0 9 * * *"
	}

	if c.Metrics.ListenAddr == "" {
		c.Metrics.ListenAddr = "127.0.0.1:9464"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stderr"
	}
}

// Default returns a configuration with all defaults applied, suitable when
// no config file is present.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}
