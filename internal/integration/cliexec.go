// Package integration implements the version-control collaborators used by
// the release workflow: a git CLI backend and an in-process go-git backend.
package integration

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandResult captures the outcome of an external command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// CommandRunner runs external commands and captures their output.
type CommandRunner interface {
	// Run executes name with args in dir. A non-zero exit is reported in the
	// result, not as an error; err is only set when the command could not run.
	Run(ctx context.Context, dir, name string, args ...string) (*CommandResult, error)
}

// execRunner implements CommandRunner with os/exec.
type execRunner struct{}

// NewCommandRunner creates a CommandRunner backed by os/exec.
func NewCommandRunner() CommandRunner {
	return &execRunner{}
}

func (r *execRunner) Run(ctx context.Context, dir, name string, args ...string) (*CommandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()

	result := &CommandResult{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			// Command could not be started (e.g., not found).
			return result, fmt.Errorf("executing %s: %w", name, err)
		}
	}

	return result, nil
}

// CommandError reports a command that exited non-zero, with its raw output.
type CommandError struct {
	Args     []string
	ExitCode int
	Output   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s (exit %d)", strings.Join(e.Args, " "), e.ExitCode)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

// diagnosticOutput prefers stderr and falls back to stdout, trimmed.
func diagnosticOutput(r *CommandResult) string {
	if out := strings.TrimSpace(r.Stderr); out != "" {
		return out
	}
	return strings.TrimSpace(r.Stdout)
}
