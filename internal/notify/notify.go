// Package notify delivers desktop notifications for due and escalated
// reminders. It shells out to the platform-native channel (osascript on
// macOS, notify-send on Linux) and falls back to a console print when no
// channel is available. Delivery never returns an error and never panics;
// the scheduler only learns whether the message made it out.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/remind-app/remind/internal/logger"
)

// Urgency selects the platform-specific priority and sound for a
// notification. Critical is reserved for escalations.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyNormal   Urgency = "normal"
	UrgencyCritical Urgency = "critical"
)

// MaxMessageLength is the longest message body forwarded to native
// notification UIs. Longer bodies are truncated with an ellipsis.
const MaxMessageLength = 150

const (
	notifyTimeout = 5 * time.Second
	soundTimeout  = 10 * time.Second
)

// commandRunner executes an external command, feeding stdin if non-nil.
// Injectable so tests never touch the real notification channel.
type commandRunner func(ctx context.Context, stdin []byte, name string, args ...string) error

// Manager sends desktop notifications with best-effort sound.
type Manager struct {
	appName string
	sound   bool
	logger  *logger.Logger

	goos string
	run  commandRunner
}

// New creates a notification manager. When sound is false, no alert sound
// is ever played.
func New(appName string, sound bool, log *logger.Logger) *Manager {
	return &Manager{
		appName: appName,
		sound:   sound,
		logger:  log,
		goos:    runtime.GOOS,
		run:     runCommand,
	}
}

func runCommand(ctx context.Context, stdin []byte, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	return cmd.Run()
}

// Truncate shortens a message body to MaxMessageLength characters,
// appending an ellipsis when anything was cut.
func Truncate(message string) string {
	runes := []rune(message)
	if len(runes) <= MaxMessageLength {
		return message
	}
	return string(runes[:MaxMessageLength]) + "..."
}

// Notify sends a desktop notification. It returns whether delivery through
// a native channel succeeded; the console fallback counts as undelivered.
// Sound playback is attempted independently and its failure never affects
// the result.
func (m *Manager) Notify(ctx context.Context, title, message string, urgency Urgency, sound bool) (delivered bool) {
	defer func() {
		if r := recover(); r != nil {
			if m.logger != nil {
				m.logger.Error("notification dispatch panicked", fmt.Errorf("panic: %v", r))
			}
			delivered = false
		}
	}()

	message = Truncate(message)

	if sound && m.sound {
		m.playSound(ctx, urgency)
	}

	var err error
	switch m.goos {
	case "darwin":
		err = m.notifyMacOS(ctx, title, message, urgency)
	case "linux":
		err = m.notifyLinux(ctx, title, message, urgency)
	default:
		err = fmt.Errorf("no native notification channel on %s", m.goos)
	}

	if err != nil {
		// Console fallback: the supervisor's log is the last-resort channel.
		fmt.Printf("[%s] %s\n", title, message)
		if m.logger != nil {
			m.logger.Warn("native notification delivery failed",
				logger.Field{Key: "error", Value: err.Error()},
				logger.Field{Key: "urgency", Value: string(urgency)})
		}
		return false
	}
	return true
}

// NotifyReminderDue sends the initial notification for a due reminder.
func (m *Manager) NotifyReminderDue(ctx context.Context, reminderText string) bool {
	return m.Notify(ctx, m.appName, reminderText, UrgencyNormal, true)
}

// NotifyNudge sends an escalation notification for a reminder that is
// still undone well past its due time.
func (m *Manager) NotifyNudge(ctx context.Context, reminderText string) bool {
	return m.Notify(ctx, m.appName+" - Still Due", reminderText, UrgencyCritical, true)
}
