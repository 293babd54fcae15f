package command

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"testing"
)

func TestExecRunner_Run(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	var stdout, stderr bytes.Buffer
	runner := &ExecRunner{Stdout: &stdout, Stderr: &stderr}

	if err := runner.Run(context.Background(), "sh", "-c", "echo out; echo err 1>&2"); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if strings.TrimSpace(stdout.String()) != "out" {
		t.Errorf("stdout = %q, want %q", stdout.String(), "out")
	}
	if strings.TrimSpace(stderr.String()) != "err" {
		t.Errorf("stderr = %q, want %q", stderr.String(), "err")
	}
}

func TestExecRunner_RunNonZeroExit(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	runner := &ExecRunner{}
	if err := runner.Run(context.Background(), "sh", "-c", "exit 3"); err == nil {
		t.Error("Run() expected error for non-zero exit, got nil")
	}
}

func TestExecRunner_Output(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	out, err := NewExecRunner().Output(context.Background(), "sh", "-c", "printf hello")
	if err != nil {
		t.Fatalf("Output() unexpected error: %v", err)
	}
	if string(out) != "hello" {
		t.Errorf("Output() = %q, want %q", out, "hello")
	}
}

func TestExecRunner_MissingProgram(t *testing.T) {
	err := NewExecRunner().Run(context.Background(), "clipharvest-no-such-program")
	if err == nil {
		t.Error("Run() expected error for missing program, got nil")
	}
}
