package hooks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/MyCarrier-DevOps/go-gitbump/internal/operation"
)

// Runner resolves and executes the hooks of one bump.
type Runner struct {
	workDir        string
	currentVersion string
	hooks          []Hook
	ops            operation.Set
	shell          Shell
	stdout         io.Writer
	stderr         io.Writer
	logger         *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithShell replaces the shell used to run hooks.
func WithShell(s Shell) Option {
	return func(r *Runner) { r.shell = s }
}

// WithOutput sets where hook output is streamed.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// NewRunner creates a Runner for hooks, in declaration order.
func NewRunner(workDir, currentVersion string, hooks []Hook, ops operation.Set, opts ...Option) *Runner {
	r := &Runner{
		workDir:        workDir,
		currentVersion: currentVersion,
		hooks:          hooks,
		ops:            ops,
		shell:          ExecShell{},
		stdout:         os.Stdout,
		stderr:         os.Stderr,
		logger:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BeforeHooks returns the resolved before_commit hooks. It is empty unless
// the hooks operation was requested.
func (r *Runner) BeforeHooks(newVersion string) ([]ResolvedHook, error) {
	if !r.ops.Has(operation.Hooks) {
		return nil, nil
	}
	return r.resolve(BeforeCommit, newVersion)
}

// AfterHooks returns the resolved after_push hooks. It is empty unless the
// hooks operation and at least one push were requested.
func (r *Runner) AfterHooks(newVersion string) ([]ResolvedHook, error) {
	if !r.ops.Has(operation.Hooks) || !r.ops.Pushes() {
		return nil, nil
	}
	return r.resolve(AfterPush, newVersion)
}

func (r *Runner) resolve(phase Phase, newVersion string) ([]ResolvedHook, error) {
	var out []ResolvedHook
	for _, h := range r.hooks {
		if h.Phase != phase {
			continue
		}
		resolved, err := Resolve(h, r.currentVersion, newVersion)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

// Run executes one resolved hook in the working directory and waits for it
// to exit.
func (r *Runner) Run(ctx context.Context, h ResolvedHook) error {
	r.logger.Debug("running hook", "name", h.Name, "phase", h.Phase.String(), "cmd", h.Cmd, "dir", r.workDir)

	rc, err := r.shell.Run(ctx, r.workDir, h.Cmd, r.stdout, r.stderr)
	if err != nil {
		return fmt.Errorf("starting hook %q: %w", h.Name, err)
	}
	if rc != 0 {
		return &HookError{Name: h.Name, Cmd: h.Cmd, ReturnCode: rc}
	}
	return nil
}
