package notify

import (
	"context"
	"fmt"
	"strings"
)

// notifyMacOS sends a notification through the macOS notification center
// using AppleScript.
func (m *Manager) notifyMacOS(ctx context.Context, title, message string, urgency Urgency) error {
	sounds := map[Urgency]string{
		UrgencyCritical: "Alarm",
		UrgencyNormal:   "Ping",
		UrgencyLow:      "Pop",
	}
	sound, ok := sounds[urgency]
	if !ok {
		sound = "Ping"
	}

	script := fmt.Sprintf(`display notification "%s" with title "%s" sound name "%s"`,
		escapeAppleScript(message), escapeAppleScript(title), sound)

	runCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	return m.run(runCtx, nil, "osascript", "-e", script)
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// notifyLinux sends a notification through the freedesktop notification
// bus using notify-send, which speaks D-Bus on the daemon's behalf.
func (m *Manager) notifyLinux(ctx context.Context, title, message string, urgency Urgency) error {
	urgencyStr := string(urgency)
	switch urgency {
	case UrgencyLow, UrgencyNormal, UrgencyCritical:
	default:
		urgencyStr = string(UrgencyNormal)
	}

	runCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	return m.run(runCtx, nil,
		"notify-send",
		"--urgency", urgencyStr,
		"--app-name", m.appName,
		title,
		message,
	)
}
