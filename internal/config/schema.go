// Package config provides configuration loading and validation for remindd.
// It supports TOML configuration files with environment variable expansion,
// default values, and validation.
//
// Configuration structure:
//   - [database]: Path to the shared SQLite reminder database
//   - [scheduler]: Poll cadence, nudge thresholds and upcoming window
//   - [notifications]: Desktop notification behavior
//   - [agent]: External coding agent execution
//   - [digest]: Optional cron-scheduled daily digest
//   - [metrics]: Optional Prometheus endpoint
//   - [logging]: Logging level, format, and output
//
// Environment variables can be referenced using ${VAR} or ${VAR:default} syntax.
// For example: path = "${REMIND_DB_PATH:~/.remind/remind.db}"
package config

// Config represents the main daemon configuration.
type Config struct {
	Database      DatabaseConfig      `toml:"database"`
	Scheduler     SchedulerConfig     `toml:"scheduler"`
	Notifications NotificationsConfig `toml:"notifications"`
	Agent         AgentConfig         `toml:"agent"`
	Digest        DigestConfig        `toml:"digest"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Logging       LoggingConfig       `toml:"logging"`
}

// DatabaseConfig points at the SQLite database shared with the interactive CLI.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// SchedulerConfig controls the poll loop and escalation cadence.
type SchedulerConfig struct {
	CheckIntervalSeconds   int   `toml:"check_interval_seconds"`
	NudgeThresholdsMinutes []int `toml:"nudge_thresholds_minutes"`
	UpcomingWindowHours    int   `toml:"upcoming_window_hours"`
}

// NotificationsConfig controls desktop notification delivery. Sound is on
// unless disabled, so the zero value keeps the audible default.
type NotificationsConfig struct {
	AppName      string `toml:"app_name"`
	DisableSound bool   `toml:"disable_sound"`
}

// AgentConfig controls execution of agent-tagged reminders. The agent runs
// unsandboxed with full access to its working directory; this is a deliberate
// user opt-in, surfaced loudly at startup.
type AgentConfig struct {
	Enabled             bool   `toml:"enabled"`
	Binary              string `toml:"binary"`
	TimeoutSeconds      int    `toml:"timeout_seconds"`
	SkipPermissionsFlag string `toml:"skip_permissions_flag"`
}

// DigestConfig controls the optional daily summary notification.
type DigestConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"`
}

// MetricsConfig controls the optional Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled    bool   `toml:"enabled"`
	ListenAddr string `toml:"listen_addr"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}
