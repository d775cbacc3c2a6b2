// Package scheduler implements the background poll loop of the reminder
// daemon. On a fixed cadence it classifies stored reminders by time,
// dispatches due and escalation notifications, and hands agent-tagged
// reminders to the agent executor. The loop is single-threaded: it is the
// sole owner of all escalation state, and blocking dispatch or agent calls
// delay the next tick rather than racing it.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/remind-app/remind/internal/agent"
	"github.com/remind-app/remind/internal/logger"
	"github.com/remind-app/remind/internal/metrics"
	"github.com/remind-app/remind/internal/reminder"
)

// Store is the slice of the reminder store the scheduler reads from.
// The daemon owns its connection exclusively; the interactive CLI uses its
// own, and the store itself tolerates the concurrent access.
type Store interface {
	Overdue(ctx context.Context) ([]reminder.Reminder, error)
	Upcoming(ctx context.Context, window time.Duration) ([]reminder.Reminder, error)
}

// Notifier dispatches desktop notifications. Implementations never return
// an error; the bool reports whether native delivery succeeded.
type Notifier interface {
	NotifyReminderDue(ctx context.Context, text string) bool
	NotifyNudge(ctx context.Context, text string) bool
}

// AgentExecutor runs an agent task and reports its outcome. Implementations
// never propagate errors; every outcome is converted to a notification.
type AgentExecutor interface {
	Execute(ctx context.Context, task, workdir string) agent.Outcome
}

// Config controls the poll loop cadence and escalation thresholds.
type Config struct {
	CheckInterval   time.Duration
	NudgeThresholds []time.Duration // ascending elapsed-time boundaries
	UpcomingWindow  time.Duration
	AgentEnabled    bool
}

// Scheduler is the daemon's orchestrator.
type Scheduler struct {
	cfg      Config
	store    Store
	notifier Notifier
	executor AgentExecutor
	state    *State
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

// New creates a scheduler with fresh escalation state. metrics may be nil.
func New(cfg Config, store Store, notifier Notifier, executor AgentExecutor, m *metrics.Metrics, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		store:    store,
		notifier: notifier,
		executor: executor,
		state:    NewState(),
		metrics:  m,
		logger:   log,
	}
}

// Run blocks and executes ticks on the configured interval, starting with
// an immediate one. It returns when ctx is cancelled; an in-flight reminder
// finishes (or is abandoned by its own timeout) but the next sleep never
// begins once shutdown is requested.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.cfg.CheckInterval <= 0 {
		return fmt.Errorf("check interval must be positive, got %s", s.cfg.CheckInterval)
	}

	s.logger.Info("scheduler started",
		logger.Field{Key: "check_interval", Value: s.cfg.CheckInterval.String()},
		logger.Field{Key: "nudge_thresholds", Value: fmt.Sprint(s.cfg.NudgeThresholds)},
		logger.Field{Key: "upcoming_window", Value: s.cfg.UpcomingWindow.String()})

	s.tick(ctx)

	ticker := time.NewTicker(s.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler shutting down")
			return nil
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick performs one classification pass. Failures are contained per tick
// and per reminder; a tick never aborts the daemon.
func (s *Scheduler) tick(ctx context.Context) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordTick(time.Since(start))
		}
	}()

	now := time.Now().UTC()

	overdue, err := s.store.Overdue(ctx)
	if err != nil {
		s.logger.Error("failed to query overdue reminders", err)
		return
	}
	if s.metrics != nil {
		s.metrics.SetOverdue(len(overdue))
	}

	for _, r := range overdue {
		if ctx.Err() != nil {
			return
		}
		if s.state.Notified(r.ID) {
			continue
		}
		// Claim the notification before the side effect so a slow or
		// failing dispatch cannot double-notify on the next tick.
		s.state.MarkNotified(r.ID)
		s.processDue(ctx, r)
	}

	upcoming, err := s.store.Upcoming(ctx, s.cfg.UpcomingWindow)
	if err != nil {
		s.logger.Error("failed to query upcoming reminders", err)
		return
	}

	for _, r := range upcoming {
		if ctx.Err() != nil {
			return
		}
		if s.shouldNudge(r.ID, r.DueAt, now) {
			s.sendNudge(ctx, r)
			s.state.RecordNudge(r.ID, now)
		}
	}
}

// processDue handles the initial notification (or agent execution) for a
// newly overdue reminder. Panics are contained here so one malformed
// reminder cannot take down the loop.
func (s *Scheduler) processDue(ctx context.Context, r reminder.Reminder) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("reminder processing panicked", fmt.Errorf("panic: %v", rec),
				logger.Field{Key: "reminder_id", Value: r.ID})
		}
	}()

	if task, ok := reminder.ParseAgentTask(r.Text); ok {
		if !s.cfg.AgentEnabled {
			s.logger.Warn("agent reminder due but agent execution is disabled",
				logger.Field{Key: "reminder_id", Value: r.ID})
			delivered := s.notifier.NotifyReminderDue(ctx, r.Text)
			if s.metrics != nil {
				s.metrics.RecordNotification("due", delivered)
			}
			return
		}

		s.logger.Info("agent reminder due",
			logger.Field{Key: "reminder_id", Value: r.ID},
			logger.Field{Key: "workdir", Value: task.Workdir})
		outcome := s.executor.Execute(ctx, task.Task, task.Workdir)
		if s.metrics != nil {
			s.metrics.RecordAgentTask(string(outcome))
		}
		return
	}

	s.logger.Info("reminder due",
		logger.Field{Key: "reminder_id", Value: r.ID},
		logger.Field{Key: "priority", Value: r.Priority})
	delivered := s.notifier.NotifyReminderDue(ctx, r.Text)
	if s.metrics != nil {
		s.metrics.RecordNotification("due", delivered)
	}
}

func (s *Scheduler) sendNudge(ctx context.Context, r reminder.Reminder) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("nudge dispatch panicked", fmt.Errorf("panic: %v", rec),
				logger.Field{Key: "reminder_id", Value: r.ID})
		}
	}()

	s.logger.Info("sending nudge", logger.Field{Key: "reminder_id", Value: r.ID})
	delivered := s.notifier.NotifyNudge(ctx, r.Text)
	if s.metrics != nil {
		s.metrics.RecordNotification("nudge", delivered)
	}
}

// shouldNudge decides whether a reminder gets an escalation at now.
// Before the first nudge, the elapsed time since the due time must exceed
// the first threshold. After that, the elapsed time since the last recorded
// nudge must exceed any threshold; the ascending scan fires at most once
// per tick no matter how many thresholds were missed.
func (s *Scheduler) shouldNudge(id int64, dueAt, now time.Time) bool {
	if len(s.cfg.NudgeThresholds) == 0 {
		return false
	}

	last, ok := s.state.LastNudge(id)
	if !ok {
		return now.Sub(dueAt) > s.cfg.NudgeThresholds[0]
	}

	sinceNudge := now.Sub(last)
	for _, threshold := range s.cfg.NudgeThresholds {
		if sinceNudge > threshold {
			return true
		}
	}
	return false
}
