package command

import (
	"context"
	"io"
	"os"
	"os/exec"
)

// Runner defines the interface for running external commands
// This allows mocking exec.Command in tests
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner is the production implementation using os/exec. The child
// process shares the terminal so downloader and ffmpeg progress stays visible.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates a runner attached to the process stdout and stderr
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes a command and returns any error
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return cmd.Run()
}

// Output executes a command and returns its output
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}

// Ensure ExecRunner implements Runner
var _ Runner = (*ExecRunner)(nil)
