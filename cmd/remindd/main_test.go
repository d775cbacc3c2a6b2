package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunCmdFlags(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantConfig string
		wantDebug  bool
	}{
		{
			name:       "with config flag",
			args:       []string{"--config", "test.toml"},
			wantConfig: "test.toml",
			wantDebug:  false,
		},
		{
			name:       "with debug flag",
			args:       []string{"--debug"},
			wantConfig: "",
			wantDebug:  true,
		},
		{
			name:       "short flags",
			args:       []string{"-c", "test.toml", "-d"},
			wantConfig: "test.toml",
			wantDebug:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flags
			runConfigPath = ""
			runDebug = false

			runCmd.SetArgs(tt.args)
			_ = runCmd.ParseFlags(tt.args)

			assert.Equal(t, tt.wantConfig, runConfigPath)
			assert.Equal(t, tt.wantDebug, runDebug)
		})
	}
}

func TestCommandStructure(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["run"], "run command registered")
	assert.True(t, names["version"], "version command registered")
	assert.True(t, names["config"], "config command registered")
}

func TestNudgeThresholds(t *testing.T) {
	got := nudgeThresholds([]int{30, 60, 120})
	want := []time.Duration{30 * time.Minute, time.Hour, 2 * time.Hour}
	assert.Equal(t, want, got)

	assert.Empty(t, nudgeThresholds(nil))
}
