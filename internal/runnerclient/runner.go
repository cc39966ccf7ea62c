// Package runnerclient models the single subprocess boundary the core
// pipeline consumes. Every external collaborator named in spec.md §1 (the
// package manager's dry-run/manifest subcommands, the cluster client) is
// invoked through a Runner so tests can inject canned output and the core
// never shells out directly.
package runnerclient

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/crossplane/crossplane-runtime/v2/pkg/logging"
)

// RunError is the single error shape a Runner can produce. Cancelled or
// timed-out invocations also surface as a RunError (spec.md §5).
type RunError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *RunError) Error() string {
	if e.Stderr != "" {
		return "run " + e.Command + ": " + e.Err.Error() + ": " + e.Stderr
	}

	return "run " + e.Command + ": " + e.Err.Error()
}

func (e *RunError) Unwrap() error { return e.Err }

// IsRunError reports whether err is, or wraps, a *RunError.
func IsRunError(err error) bool {
	var re *RunError
	return errors.As(err, &re)
}

// Runner executes an external command and returns its stdout as bytes, or a
// *RunError. It is the only suspension point in the core pipeline
// (spec.md §5): every blocking call funnels through here.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner is the production Runner, backed by os/exec.
type ExecRunner struct {
	logger logging.Logger
}

// NewExecRunner creates a Runner that shells out to the named binary.
func NewExecRunner(logger logging.Logger) Runner {
	return &ExecRunner{logger: logger}
}

// Run executes name with args, returning stdout on success.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.logger.Debug("Running external command", "command", name, "args", args)

	cmd := exec.CommandContext(ctx, name, args...)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		r.logger.Debug("External command failed", "command", name, "error", err, "stderr", stderr.String())

		return nil, &RunError{Command: name, Stderr: stderr.String(), Err: err}
	}

	return out, nil
}
