package hooks

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"runtime"
)

// Shell runs a command line through the system shell.
type Shell interface {
	// Run executes cmdline in dir and returns its exit code. A non-nil
	// error means the shell could not be started at all.
	Run(ctx context.Context, dir, cmdline string, stdout, stderr io.Writer) (int, error)
}

// ExecShell runs hooks with sh -c, or cmd /C on Windows.
type ExecShell struct{}

// Run implements Shell.
func (ExecShell) Run(ctx context.Context, dir, cmdline string, stdout, stderr io.Writer) (int, error) {
	name, args := "sh", []string{"-c", cmdline}
	if runtime.GOOS == "windows" {
		name, args = "cmd", []string{"/C", cmdline}
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}
