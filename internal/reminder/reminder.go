// Package reminder defines the reminder data model and its SQLite-backed store.
// The scheduler daemon only reads reminders and marks them done; creation and
// editing belong to the interactive CLI, which uses its own connection. SQLite
// itself (WAL mode) is responsible for tolerating both connections at once.
package reminder

import (
	"time"

	"github.com/wasilibs/go-re2"
)

// Priority levels for reminders. Advisory only from the scheduler's
// point of view.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// MaxTextLength is the maximum length of reminder text.
const MaxTextLength = 1000

// Reminder represents a single stored reminder.
// DoneAt is nil while the reminder is active; once set it is terminal,
// a reminder is never reactivated.
type Reminder struct {
	ID             int64
	Text           string
	DueAt          time.Time
	CreatedAt      time.Time
	DoneAt         *time.Time
	Priority       string
	ProjectContext string
}

// IsDone reports whether the reminder has been completed.
func (r Reminder) IsDone() bool {
	return r.DoneAt != nil
}

// AgentTask is an autonomous execution request encoded in a reminder's text.
// At due time the task is handed to an external coding agent running in
// Workdir instead of producing a passive alert.
type AgentTask struct {
	Workdir string
	Task    string
}

// agentPattern matches the "[AGENT:<workdir>] <task>" encoding. Reminder text
// is untrusted free-form input scanned on every tick, so the pattern is
// compiled with re2 for linear-time matching.
var agentPattern = re2.MustCompile(`^\[AGENT:(.+?)\]\s*(.+)$`)

// ParseAgentTask checks whether text encodes an agent task and extracts it.
// Any text not matching the pattern is a plain reminder.
func ParseAgentTask(text string) (AgentTask, bool) {
	m := agentPattern.FindStringSubmatch(text)
	if m == nil {
		return AgentTask{}, false
	}
	return AgentTask{Workdir: m[1], Task: m[2]}, true
}
