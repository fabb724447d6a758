package executor

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/MyCarrier-DevOps/go-gitbump/internal/bump"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/config"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/git"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/hooks"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/output"
)

// HookRunner executes a resolved hook.
type HookRunner interface {
	Run(ctx context.Context, h hooks.ResolvedHook) error
}

// Plan is everything a bump will do, already computed.
type Plan struct {
	Doc         config.Document
	NewVersion  string
	Patches     []bump.Patch
	BeforeHooks []hooks.ResolvedHook
	Commands    []git.Command
	AfterHooks  []hooks.ResolvedHook
}

// Executor owns the ordered action groups of one bump.
type Executor struct {
	workDir    string
	groups     []ActionGroup
	ui         *output.UI
	git        git.CommandRunner
	hooks      HookRunner
	saveConfig func(config.Document) error
	logger     *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithUI sets where progress is printed.
func WithUI(ui *output.UI) Option {
	return func(e *Executor) { e.ui = ui }
}

// WithCommandRunner replaces the runner used for git commands.
func WithCommandRunner(r git.CommandRunner) Option {
	return func(e *Executor) { e.git = r }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// New builds the action groups for plan: update the config, patch files,
// run before-commit hooks, run git commands, run after-push hooks.
// hookRunner executes hook actions and may be nil when the plan has none.
func New(workDir string, plan Plan, hookRunner HookRunner, opts ...Option) *Executor {
	e := &Executor{
		workDir:    workDir,
		ui:         output.Discard(),
		git:        git.ExecRunner{},
		hooks:      hookRunner,
		saveConfig: config.Save,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}

	configName := filepath.Base(plan.Doc.Path())
	e.groups = []ActionGroup{
		{
			DryRunDesc: "Would update current version in " + configName,
			Desc:       "Updating current version",
			Actions:    []Action{ConfigUpdate{Doc: plan.Doc, NewVersion: plan.NewVersion}},
		},
		{
			DryRunDesc: "Would patch these files",
			Desc:       "Patching files",
			Actions:    wrap(plan.Patches, func(p bump.Patch) Action { return PatchAction{Patch: p} }),
		},
		{
			DryRunDesc: "Would run these hooks before commit",
			Desc:       "Running hooks before commit",
			Actions:    wrap(plan.BeforeHooks, func(h hooks.ResolvedHook) Action { return HookAction{Hook: h} }),
			Enumerate:  true,
		},
		{
			DryRunDesc: "Would run these git commands",
			Desc:       "Performing git operations",
			Actions:    wrap(plan.Commands, func(c git.Command) Action { return GitAction{Command: c} }),
		},
		{
			DryRunDesc: "Would run these hooks after push",
			Desc:       "Running hooks after push",
			Actions:    wrap(plan.AfterHooks, func(h hooks.ResolvedHook) Action { return HookAction{Hook: h} }),
			Enumerate:  true,
		},
	}
	return e
}

func wrap[T any](items []T, f func(T) Action) []Action {
	out := make([]Action, len(items))
	for i, item := range items {
		out[i] = f(item)
	}
	return out
}

// Groups returns the action groups in execution order.
func (e *Executor) Groups() []ActionGroup {
	return e.groups
}

// Print renders every action without performing it.
func (e *Executor) Print(dryRun bool) {
	for _, g := range e.groups {
		e.printGroup(g, dryRun)
	}
}

// Run prints and executes each group in order, stopping at the first
// failure. Work already done is not undone.
func (e *Executor) Run(ctx context.Context) error {
	for _, g := range e.groups {
		e.printGroup(g, false)
		for _, a := range g.Actions {
			if err := e.do(ctx, a); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Executor) printGroup(g ActionGroup, dryRun bool) {
	if len(g.Actions) == 0 {
		return
	}
	desc := g.Desc
	if dryRun {
		desc = g.DryRunDesc
	}
	if desc != "" {
		e.ui.Section(desc)
	}
	for i, a := range g.Actions {
		if g.Enumerate {
			e.ui.Count(i, len(g.Actions), name(a))
		}
		e.print(a)
	}
}

func name(a Action) string {
	if h, ok := a.(HookAction); ok {
		return h.Hook.Name
	}
	return ""
}

func (e *Executor) print(a Action) {
	switch a := a.(type) {
	case ConfigUpdate:
		// Reported when it runs.
	case PatchAction:
		e.ui.Diff(a.Patch.Src, a.Patch.LineNo, a.Patch.OldLine, a.Patch.NewLine)
	case GitAction:
		e.ui.Command(a.Command.String())
	case HookAction:
		e.ui.Command(a.Hook.Cmd)
	}
}

func (e *Executor) do(ctx context.Context, a Action) error {
	switch a := a.(type) {
	case ConfigUpdate:
		e.ui.SetCurrentVersion(a.NewVersion, filepath.Base(a.Doc.Path()))
		if err := a.Doc.SetCurrentVersion(a.NewVersion); err != nil {
			return err
		}
		return e.saveConfig(a.Doc)
	case PatchAction:
		return a.Patch.Apply(e.workDir)
	case GitAction:
		e.logger.Debug("running git", "args", a.Command.Args, "dir", e.workDir)
		return a.Command.Run(ctx, e.git, e.workDir)
	case HookAction:
		if e.hooks == nil {
			return fmt.Errorf("no hook runner for hook %q", a.Hook.Name)
		}
		return e.hooks.Run(ctx, a.Hook)
	default:
		return fmt.Errorf("unknown action %T", a)
	}
}
