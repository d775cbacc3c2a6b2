package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseAgentTask(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantMatch   bool
		wantWorkdir string
		wantTask    string
	}{
		{
			name:        "agent reminder",
			text:        "[AGENT:/home/me/proj] refactor module",
			wantMatch:   true,
			wantWorkdir: "/home/me/proj",
			wantTask:    "refactor module",
		},
		{
			name:      "plain reminder",
			text:      "buy milk",
			wantMatch: false,
		},
		{
			name:        "workdir with spaces",
			text:        "[AGENT:/home/me/my project] run tests",
			wantMatch:   true,
			wantWorkdir: "/home/me/my project",
			wantTask:    "run tests",
		},
		{
			name:      "prefix not at start",
			text:      "remember [AGENT:/tmp] something",
			wantMatch: false,
		},
		{
			name:      "missing task",
			text:      "[AGENT:/tmp]",
			wantMatch: false,
		},
		{
			name:      "empty text",
			text:      "",
			wantMatch: false,
		},
		{
			name:        "no space after bracket",
			text:        "[AGENT:/srv/app]deploy it",
			wantMatch:   true,
			wantWorkdir: "/srv/app",
			wantTask:    "deploy it",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, ok := ParseAgentTask(tt.text)
			assert.Equal(t, tt.wantMatch, ok)
			if tt.wantMatch {
				assert.Equal(t, tt.wantWorkdir, task.Workdir)
				assert.Equal(t, tt.wantTask, task.Task)
			}
		})
	}
}

func TestReminder_IsDone(t *testing.T) {
	r := Reminder{Text: "buy milk"}
	assert.False(t, r.IsDone())

	now := time.Now().UTC()
	r.DoneAt = &now
	assert.True(t, r.IsDone())
}
