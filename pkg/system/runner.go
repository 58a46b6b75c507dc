package system

import (
	"context"
	"errors"
	"os/exec"
)

// Runner executes external commands. Host uses it for power actions, the
// package query and nvidia-smi; tests substitute a fake.
type Runner interface {
	// Output runs argv to completion and returns its stdout.
	Output(ctx context.Context, argv []string) ([]byte, error)
	// Start launches argv without waiting for it to exit.
	Start(argv []string) error
}

// ErrNoCommand is returned for an empty argv.
var ErrNoCommand = errors.New("system: no command configured")

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Output implements Runner.
func (ExecRunner) Output(ctx context.Context, argv []string) ([]byte, error) {
	if len(argv) == 0 {
		return nil, ErrNoCommand
	}
	return exec.CommandContext(ctx, argv[0], argv[1:]...).Output()
}

// Start implements Runner. The child is reaped in the background.
func (ExecRunner) Start(argv []string) error {
	if len(argv) == 0 {
		return ErrNoCommand
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}

// exitCode returns the exit status carried by err, or -1.
func exitCode(err error) int {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return -1
}
