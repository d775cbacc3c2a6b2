package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remind-app/remind/internal/logger"
)

type recordedCall struct {
	name  string
	args  []string
	stdin []byte
}

// fakeRunner records commands and answers each from a scripted error list.
type fakeRunner struct {
	calls []recordedCall
	errs  map[string]error // by command name; nil means success
}

func (f *fakeRunner) run(_ context.Context, stdin []byte, name string, args ...string) error {
	f.calls = append(f.calls, recordedCall{name: name, args: args, stdin: stdin})
	if err, ok := f.errs[name]; ok {
		return err
	}
	return nil
}

func testManager(t *testing.T, goos string, sound bool) (*Manager, *fakeRunner) {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "text", Output: "stderr"})
	require.NoError(t, err)

	runner := &fakeRunner{errs: map[string]error{}}
	m := New("Remind", sound, log)
	m.goos = goos
	m.run = runner.run
	return m, runner
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"short message unchanged", "buy milk", "buy milk"},
		{"exactly max length unchanged", strings.Repeat("a", 150), strings.Repeat("a", 150)},
		{"long message truncated", strings.Repeat("a", 200), strings.Repeat("a", 150) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.input))
		})
	}
}

func TestNotify_Linux(t *testing.T) {
	m, runner := testManager(t, "linux", false)

	delivered := m.Notify(context.Background(), "Remind", "buy milk", UrgencyNormal, false)
	assert.True(t, delivered)

	require.Len(t, runner.calls, 1)
	call := runner.calls[0]
	assert.Equal(t, "notify-send", call.name)
	assert.Contains(t, call.args, "--urgency")
	assert.Contains(t, call.args, "normal")
	assert.Contains(t, call.args, "buy milk")
}

func TestNotify_LinuxCritical(t *testing.T) {
	m, runner := testManager(t, "linux", false)

	m.Notify(context.Background(), "Remind", "overdue", UrgencyCritical, false)

	require.Len(t, runner.calls, 1)
	assert.Contains(t, runner.calls[0].args, "critical")
}

func TestNotify_Darwin(t *testing.T) {
	m, runner := testManager(t, "darwin", false)

	delivered := m.Notify(context.Background(), "Remind", `say "hi"`, UrgencyNormal, false)
	assert.True(t, delivered)

	require.Len(t, runner.calls, 1)
	call := runner.calls[0]
	assert.Equal(t, "osascript", call.name)
	require.Len(t, call.args, 2)
	assert.Contains(t, call.args[1], `say \"hi\"`)
}

func TestNotify_DeliveryFailureFallsBack(t *testing.T) {
	m, runner := testManager(t, "linux", false)
	runner.errs["notify-send"] = errors.New("no notification daemon")

	delivered := m.Notify(context.Background(), "Remind", "buy milk", UrgencyNormal, false)
	assert.False(t, delivered)
}

func TestNotify_UnsupportedPlatform(t *testing.T) {
	m, runner := testManager(t, "plan9", false)

	delivered := m.Notify(context.Background(), "Remind", "buy milk", UrgencyNormal, false)
	assert.False(t, delivered)
	assert.Empty(t, runner.calls)
}

func TestNotify_TruncatesLongMessages(t *testing.T) {
	m, runner := testManager(t, "linux", false)

	long := strings.Repeat("x", 200)
	m.Notify(context.Background(), "Remind", long, UrgencyNormal, false)

	require.Len(t, runner.calls, 1)
	body := runner.calls[0].args[len(runner.calls[0].args)-1]
	assert.Equal(t, strings.Repeat("x", 150)+"...", body)
}

func TestNotify_SoundFailureDoesNotAffectDelivery(t *testing.T) {
	m, runner := testManager(t, "linux", true)
	runner.errs["aplay"] = errors.New("no sound card")
	runner.errs["paplay"] = errors.New("not installed")
	runner.errs["pw-play"] = errors.New("not installed")

	delivered := m.Notify(context.Background(), "Remind", "buy milk", UrgencyNormal, true)
	assert.True(t, delivered)

	// All three players were tried before giving up on sound.
	names := make([]string, 0, len(runner.calls))
	for _, c := range runner.calls {
		names = append(names, c.name)
	}
	assert.Equal(t, []string{"aplay", "paplay", "pw-play", "notify-send"}, names)
}

func TestNotify_SoundPlayerFallbackStopsOnSuccess(t *testing.T) {
	m, runner := testManager(t, "linux", true)
	runner.errs["aplay"] = errors.New("not installed")

	m.Notify(context.Background(), "Remind", "buy milk", UrgencyNormal, true)

	require.GreaterOrEqual(t, len(runner.calls), 2)
	assert.Equal(t, "aplay", runner.calls[0].name)
	assert.Equal(t, "paplay", runner.calls[1].name)
	assert.NotEmpty(t, runner.calls[1].stdin)
	assert.Equal(t, "notify-send", runner.calls[2].name)
}

func TestNotify_SoundDisabledGlobally(t *testing.T) {
	m, runner := testManager(t, "linux", false)

	m.Notify(context.Background(), "Remind", "buy milk", UrgencyNormal, true)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "notify-send", runner.calls[0].name)
}

func TestNotifyReminderDue(t *testing.T) {
	m, runner := testManager(t, "linux", false)

	assert.True(t, m.NotifyReminderDue(context.Background(), "buy milk"))
	require.Len(t, runner.calls, 1)
	assert.Contains(t, runner.calls[0].args, "normal")
	assert.Contains(t, runner.calls[0].args, "Remind")
}

func TestNotifyNudge(t *testing.T) {
	m, runner := testManager(t, "linux", false)

	assert.True(t, m.NotifyNudge(context.Background(), "still due"))
	require.Len(t, runner.calls, 1)
	assert.Contains(t, runner.calls[0].args, "critical")
	assert.Contains(t, runner.calls[0].args, "Remind - Still Due")
}

func TestGenerateWAV(t *testing.T) {
	data := generateWAV(660, 300, 0.5)

	// 44-byte header plus 16-bit samples.
	wantSamples := sampleRate * 300 / 1000
	assert.Len(t, data, 44+wantSamples*2)
	assert.Equal(t, "RIFF", string(data[:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
}
