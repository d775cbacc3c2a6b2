// Package agent runs agent-tagged reminders by launching an external coding
// agent as a subprocess under a hard timeout.
//
// This is a deliberate trust boundary: the agent executes arbitrary tasks
// with unrestricted read/write/execute access to its working directory and
// no sandboxing. Enabling it is an explicit user opt-in and the daemon warns
// loudly at startup when it is on.
package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"time"

	"github.com/google/uuid"

	"github.com/remind-app/remind/internal/logger"
)

// Outcome classifies the result of an agent task run.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailure  Outcome = "failure"
	OutcomeTimedOut Outcome = "timed_out"
)

// maxStderrExcerpt bounds the error output included in failure logs and
// notifications.
const maxStderrExcerpt = 200

// waitDelay gives the killed subprocess time to release its pipes before
// Wait gives up on them; process group leftovers are reaped by the kernel.
const waitDelay = 5 * time.Second

// notifier is the slice of the notification manager the executor needs.
type notifier interface {
	NotifyReminderDue(ctx context.Context, text string) bool
}

// Config controls how the external agent is invoked.
type Config struct {
	Binary              string        // agent program name, e.g. "claude"
	SkipPermissionsFlag string        // flag disabling the agent's permission prompts
	Timeout             time.Duration // hard per-task timeout
}

// Executor launches external agent processes for due agent reminders.
// Every outcome is caught at this boundary; Execute never panics and never
// propagates an error to the scheduler loop.
type Executor struct {
	cfg      Config
	notifier notifier
	logger   *logger.Logger
}

// New creates an executor.
func New(cfg Config, n notifier, log *logger.Logger) *Executor {
	return &Executor{cfg: cfg, notifier: n, logger: log}
}

// Execute runs task inside workdir and translates the subprocess outcome
// into a notification. It blocks for up to the configured timeout.
func (e *Executor) Execute(ctx context.Context, task, workdir string) (outcome Outcome) {
	runID := uuid.NewString()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("agent task panicked", fmt.Errorf("panic: %v", r),
				logger.Field{Key: "run_id", Value: runID})
			outcome = OutcomeFailure
		}
	}()

	log := e.logger.With(
		logger.Field{Key: "run_id", Value: runID},
		logger.Field{Key: "workdir", Value: workdir},
	)
	log.Info("executing agent task", logger.Field{Key: "task", Value: task})

	e.notifier.NotifyReminderDue(ctx, "Agent starting: "+task)

	execCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, e.cfg.Binary, "-p", task, e.cfg.SkipPermissionsFlag)
	cmd.Dir = workdir
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	switch {
	case execCtx.Err() == context.DeadlineExceeded:
		// CommandContext already killed the subprocess; nothing is left running.
		log.Error("agent task timed out", execCtx.Err(),
			logger.Field{Key: "timeout", Value: e.cfg.Timeout.String()})
		e.notifier.NotifyReminderDue(ctx, "Agent timed out: "+task)
		return OutcomeTimedOut

	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		log.Error("agent binary not found, install it to use agent reminders", err,
			logger.Field{Key: "binary", Value: e.cfg.Binary})
		return OutcomeFailure

	case err != nil:
		excerpt := truncateExcerpt(stderr.String())
		log.Error("agent task failed", err,
			logger.Field{Key: "exit_code", Value: exitCode(err)},
			logger.Field{Key: "stderr", Value: excerpt})
		msg := "Agent failed: " + task
		if excerpt != "" {
			msg += "\n" + excerpt
		}
		e.notifier.NotifyReminderDue(ctx, msg)
		return OutcomeFailure

	default:
		log.Info("agent task completed")
		e.notifier.NotifyReminderDue(ctx, "Agent completed: "+task)
		return OutcomeSuccess
	}
}

func truncateExcerpt(s string) string {
	if len(s) > maxStderrExcerpt {
		return s[:maxStderrExcerpt]
	}
	return s
}

// exitCode extracts the exit code from a Run error, -1 when the process
// never ran or was killed.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
