package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/remind-app/remind/internal/agent"
	"github.com/remind-app/remind/internal/config"
	"github.com/remind-app/remind/internal/logger"
	"github.com/remind-app/remind/internal/metrics"
	"github.com/remind-app/remind/internal/notify"
	"github.com/remind-app/remind/internal/reminder"
	"github.com/remind-app/remind/internal/retry"
	"github.com/remind-app/remind/internal/scheduler"
)

const defaultConfigPath = "config.toml"

var (
	runConfigPath string
	runDebug      bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the reminder daemon",
	Long: `Start the reminder daemon with the specified configuration.
This opens the reminder database, starts the scheduler loop and handles
graceful shutdown on SIGINT or SIGTERM.`,
	Run: runHandler,
}

func runHandler(cmd *cobra.Command, args []string) {
	cfg := loadRunConfig()

	// Validate configuration
	if errors := cfg.Validate(); len(errors) > 0 {
		fmt.Printf("❌ Configuration validation failed:\n")
		for _, e := range errors {
			fmt.Printf("  - %v\n", e)
		}
		os.Exit(1)
	}

	// Enable debug mode if flag is set
	if runDebug {
		cfg.Logging.Level = "debug"
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	log.Info("🚀 Starting remindd",
		logger.Field{Key: "version", Value: Version},
		logger.Field{Key: "git_commit", Value: GitCommit},
		logger.Field{Key: "database", Value: cfg.Database.Path},
		logger.Field{Key: "check_interval_seconds", Value: cfg.Scheduler.CheckIntervalSeconds},
		logger.Field{Key: "agent_enabled", Value: cfg.Agent.Enabled},
	)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Open the reminder database. A short retry absorbs transient lock
	// contention with the interactive CLI at startup.
	store, err := reminder.Open(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to open reminder database", err,
			logger.Field{Key: "path", Value: cfg.Database.Path})
		os.Exit(1)
	}
	defer store.Close()

	err = retry.Do(ctx, func() error { return store.Ping(ctx) }, retry.Config{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		MaxBackoff:     5 * time.Second,
	})
	if err != nil {
		log.Error("Reminder database is not reachable", err,
			logger.Field{Key: "path", Value: cfg.Database.Path})
		os.Exit(1)
	}

	// Notification manager
	notifier := notify.New(cfg.Notifications.AppName, !cfg.Notifications.DisableSound, log)

	// Agent executor
	executor := agent.New(agent.Config{
		Binary:              cfg.Agent.Binary,
		SkipPermissionsFlag: cfg.Agent.SkipPermissionsFlag,
		Timeout:             time.Duration(cfg.Agent.TimeoutSeconds) * time.Second,
	}, notifier, log)

	if cfg.Agent.Enabled {
		// The agent runs with permission prompts disabled and full access
		// to the reminder's working directory. This is an explicit opt-in.
		log.Warn("⚠️ Agent execution is enabled: agent-tagged reminders will run unsandboxed",
			logger.Field{Key: "binary", Value: cfg.Agent.Binary},
			logger.Field{Key: "flag", Value: cfg.Agent.SkipPermissionsFlag},
			logger.Field{Key: "timeout_seconds", Value: cfg.Agent.TimeoutSeconds},
		)
	}

	// Metrics endpoint
	var m *metrics.Metrics
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		m = metrics.New("remindd", registry)
		metricsServer = metrics.NewServer(cfg.Metrics.ListenAddr, registry, log)
		metricsServer.Start()
		log.Info("📊 Metrics endpoint started",
			logger.Field{Key: "addr", Value: cfg.Metrics.ListenAddr})
	}

	// Daily digest
	upcomingWindow := time.Duration(cfg.Scheduler.UpcomingWindowHours) * time.Hour
	if cfg.Digest.Enabled {
		digest := scheduler.NewDigest(cfg.Digest.Schedule, upcomingWindow, store, notifier, log)
		if err := digest.Start(ctx); err != nil {
			log.Error("Failed to start digest", err)
			os.Exit(1)
		}
	}

	// Scheduler loop
	sched := scheduler.New(scheduler.Config{
		CheckInterval:   time.Duration(cfg.Scheduler.CheckIntervalSeconds) * time.Second,
		NudgeThresholds: nudgeThresholds(cfg.Scheduler.NudgeThresholdsMinutes),
		UpcomingWindow:  upcomingWindow,
		AgentEnabled:    cfg.Agent.Enabled,
	}, store, notifier, executor, m, log)

	schedDone := make(chan error, 1)
	go func() { schedDone <- sched.Run(ctx) }()

	log.Info("✅ remindd is running")

	// Wait for shutdown signal or scheduler failure
	select {
	case sig := <-sigChan:
		log.Info("⏳ Received shutdown signal",
			logger.Field{Key: "signal", Value: sig.String()})
		cancel()
		<-schedDone
	case err := <-schedDone:
		if err != nil {
			log.Error("Scheduler stopped", err)
			os.Exit(1)
		}
	}

	// Graceful shutdown
	log.Info("🛑 Shutting down remindd...")

	if metricsServer != nil {
		if err := metricsServer.Stop(); err != nil {
			log.Error("Failed to stop metrics server", err)
		}
	}

	log.Info("👋 remindd stopped gracefully")
}

// loadRunConfig loads the configured file, falling back to built-in defaults
// when no --config flag was given and no config.toml exists.
func loadRunConfig() *config.Config {
	configPath := runConfigPath
	if configPath == "" {
		configPath = defaultConfigPath
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return config.Default()
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func nudgeThresholds(minutes []int) []time.Duration {
	out := make([]time.Duration, 0, len(minutes))
	for _, m := range minutes {
		out = append(out, time.Duration(m)*time.Minute)
	}
	return out
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "Path to configuration file (default: ./config.toml)")
	runCmd.Flags().BoolVarP(&runDebug, "debug", "d", false, "Enable debug logging")
}
