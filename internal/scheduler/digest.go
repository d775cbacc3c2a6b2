package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/remind-app/remind/internal/logger"
	"github.com/remind-app/remind/internal/reminder"
)

// digestMaxItems caps how many reminders are listed in a digest body.
const digestMaxItems = 5

// Digest sends a cron-scheduled summary notification of the reminders due
// within the upcoming window. It only reads the store and never touches the
// scheduler's escalation state, so it is safe on its own cron goroutine.
type Digest struct {
	cron     *cron.Cron
	store    Store
	notifier Notifier
	window   time.Duration
	schedule string
	logger   *logger.Logger
}

// NewDigest creates a digest sender with a standard 5-field cron schedule.
func NewDigest(schedule string, window time.Duration, store Store, notifier Notifier, log *logger.Logger) *Digest {
	return &Digest{
		cron:     cron.New(),
		store:    store,
		notifier: notifier,
		window:   window,
		schedule: schedule,
		logger:   log,
	}
}

// Start validates the schedule and begins firing digests until ctx is
// cancelled.
func (d *Digest) Start(ctx context.Context) error {
	_, err := d.cron.AddFunc(d.schedule, func() { d.send(ctx) })
	if err != nil {
		return fmt.Errorf("invalid digest schedule: %w", err)
	}

	d.cron.Start()
	d.logger.Info("digest scheduled", logger.Field{Key: "schedule", Value: d.schedule})

	go func() {
		<-ctx.Done()
		d.cron.Stop()
	}()

	return nil
}

// send builds and dispatches one digest notification.
func (d *Digest) send(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			d.logger.Error("digest panicked", fmt.Errorf("panic: %v", rec))
		}
	}()

	upcoming, err := d.store.Upcoming(ctx, d.window)
	if err != nil {
		d.logger.Error("failed to query reminders for digest", err)
		return
	}
	if len(upcoming) == 0 {
		d.logger.Debug("no upcoming reminders, skipping digest")
		return
	}

	d.notifier.NotifyReminderDue(ctx, formatDigest(upcoming, d.window))
}

func formatDigest(reminders []reminder.Reminder, window time.Duration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d reminder(s) due in the next %s:", len(reminders), formatWindow(window))
	for i, r := range reminders {
		if i == digestMaxItems {
			fmt.Fprintf(&b, " and %d more", len(reminders)-digestMaxItems)
			break
		}
		if i > 0 {
			b.WriteString(";")
		}
		fmt.Fprintf(&b, " %s", r.Text)
	}
	return b.String()
}

func formatWindow(window time.Duration) string {
	if h := window.Hours(); h == float64(int(h)) {
		return fmt.Sprintf("%dh", int(h))
	}
	return window.String()
}
