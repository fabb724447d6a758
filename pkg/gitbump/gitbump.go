// Package gitbump bumps the version of a project: it rewrites the version
// in the configured files, then commits, tags and pushes the change and
// runs the configured hooks around it.
//
// Basic usage:
//
//	res, err := gitbump.Bump(ctx, gitbump.Options{
//	    Dir:        "/path/to/project",
//	    NewVersion: "1.3.0",
//	}, gitbump.AllOperations())
//
//	current, err := gitbump.CurrentVersion("/path/to/project", "")
package gitbump

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/MyCarrier-DevOps/go-gitbump/internal/bump"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/config"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/executor"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/git"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/github"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/hooks"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/operation"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/output"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/version"
)

// Result describes a bump that was run or, in dry-run mode, planned.
type Result struct {
	CurrentVersion string       `json:"current_version"`
	NewVersion     string       `json:"new_version"`
	ConfigPath     string       `json:"config_path"`
	Operations     []string     `json:"operations"`
	DryRun         bool         `json:"dry_run"`
	Patches        []FilePatch  `json:"patches"`
	BeforeHooks    []string     `json:"before_hooks"`
	Commands       []string     `json:"git_commands"`
	AfterHooks     []string     `json:"after_hooks"`
	Tag            string       `json:"tag,omitempty"`

	// ReleaseURL drafts a GitHub release for the pushed tag.
	ReleaseURL string `json:"release_url,omitempty"`
	// CreatedRelease is the page of the release created with GitHubRelease.
	CreatedRelease string `json:"created_release,omitempty"`

	// GitStateError is the repository precondition failure found during a
	// dry run. A real run returns it as the error instead.
	GitStateError error `json:"-"`
}

// CurrentVersion returns the current version from the project config.
func CurrentVersion(dir, configPath string) (string, error) {
	if dir == "" {
		dir = "."
	}
	_, cfg, err := config.Load(dir, configPath)
	if err != nil {
		return "", err
	}
	return cfg.CurrentVersion, nil
}

// Bump runs the requested operations to move the project from its current
// version to opts.NewVersion.
func Bump(ctx context.Context, opts Options, ops Operations) (*Result, error) {
	opts = withDefaults(opts)
	ui := output.New(opts.Stdout, opts.Stderr)
	logger := opts.Logger

	doc, cfg, err := config.Load(opts.Dir, opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	for _, w := range cfg.Warnings {
		ui.Warn(w)
	}
	logger.Debug("loaded config", "path", doc.Path(), "shape", doc.Shape().String(), "operations", ops.String())

	ui.Bumping(cfg.CurrentVersion, opts.NewVersion, opts.DryRun)
	if hint := version.CompareHint(cfg.CurrentVersion, opts.NewVersion); hint != "" {
		ui.Warn(hint)
	}

	res := &Result{
		CurrentVersion: cfg.CurrentVersion,
		NewVersion:     opts.NewVersion,
		ConfigPath:     doc.Path(),
		DryRun:         opts.DryRun,
	}

	state, err := checkGitState(ctx, opts, cfg, ops, ui)
	if err != nil {
		return nil, err
	}
	ops = state.ops
	res.GitStateError = state.deferred
	res.Operations = opNames(ops)

	if opts.NewVersion == cfg.CurrentVersion {
		return nil, &SameVersionError{Version: opts.NewVersion}
	}

	hookRunner := hooks.NewRunner(opts.Dir, cfg.CurrentVersion, cfg.Hooks, ops,
		hooks.WithShell(opts.Shell),
		hooks.WithOutput(opts.Stdout, opts.Stderr),
		hooks.WithLogger(logger),
	)
	plan, err := buildPlan(opts, cfg, doc, state.bumper, hookRunner)
	if err != nil {
		return nil, err
	}
	fillResult(res, plan)
	if ops.HasAny(operation.Tag, operation.PushTag) {
		if res.Tag, err = state.bumper.TagName(opts.NewVersion); err != nil {
			return nil, err
		}
	}

	ex := executor.New(opts.Dir, plan, hookRunner,
		executor.WithUI(ui),
		executor.WithCommandRunner(opts.Runner),
		executor.WithLogger(logger),
	)

	if opts.Interactive || opts.DryRun {
		ex.Print(true)
	}
	if opts.DryRun {
		if state.deferred != nil {
			ui.Error("Git repository state is invalid: " + state.deferred.Error())
		}
		return res, nil
	}
	if opts.Interactive {
		ok, err := opts.Prompter.Confirm(ctx, "Looking good?")
		if err != nil {
			return nil, fmt.Errorf("asking for confirmation: %w", err)
		}
		if !ok {
			return nil, ErrCanceled
		}
		ui.Blank()
	}

	if err := ex.Run(ctx); err != nil {
		return res, err
	}

	if cfg.GitHubURL != "" && ops.Has(operation.PushTag) {
		res.ReleaseURL = github.ReleaseURL(cfg.GitHubURL, res.Tag)
		if opts.GitHubRelease {
			if res.CreatedRelease, err = createRelease(ctx, opts, cfg.GitHubURL, res.Tag); err != nil {
				return res, err
			}
			ui.Info("Created GitHub release: " + res.CreatedRelease)
		} else {
			ui.Blank()
			ui.Info("Note: create a new release on GitHub by visiting:")
			ui.Info("\t" + res.ReleaseURL)
		}
	}
	ui.Done()
	return res, nil
}

func withDefaults(opts Options) Options {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Prompter == nil {
		opts.Prompter = &output.HuhPrompter{In: os.Stdin, Out: opts.Stderr}
	}
	if opts.Runner == nil {
		opts.Runner = git.ExecRunner{}
	}
	if opts.Shell == nil {
		opts.Shell = hooks.ExecShell{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return opts
}

type gitState struct {
	bumper *git.Bumper
	ops    Operations
	// deferred is the precondition failure of a dry run.
	deferred error
}

// checkGitState verifies the repository preconditions. A dry run defers
// the failure instead of returning it. In interactive mode a branch without
// upstream may be accepted, which drops both pushes from ops.
func checkGitState(ctx context.Context, opts Options, cfg *config.Config, ops Operations, ui *output.UI) (gitState, error) {
	var repo git.Repository
	var openErr error
	if ops.Has(operation.Commit) {
		r, err := git.Open(opts.Dir)
		switch {
		case err == nil:
			repo = r
		case opts.DryRun && errors.Is(err, git.ErrInvalidState):
			openErr = err
		default:
			return gitState{}, err
		}
	}
	newBumper := func(ops Operations) *git.Bumper {
		return git.NewBumper(repo, cfg, ops, git.WithTagMessage(opts.TagMessage), git.WithLogger(opts.Logger))
	}

	gb := newBumper(ops)
	if openErr != nil {
		// Nothing to check without a repository; the commands are still planned.
		return gitState{bumper: gb, ops: ops, deferred: openErr}, nil
	}
	err := gb.CheckDirty()
	if err == nil {
		err = gb.CheckBranchState(opts.NewVersion)
	}

	var noTrack *git.NoTrackedBranchError
	if err != nil && opts.Interactive && !opts.DryRun && errors.As(err, &noTrack) {
		ui.Error(err.Error())
		ok, perr := opts.Prompter.Confirm(ctx, "Continue without pushing?")
		if perr != nil {
			return gitState{}, fmt.Errorf("asking for confirmation: %w", perr)
		}
		if !ok {
			return gitState{}, ErrCanceled
		}
		ops = ops.Without(operation.PushCommit, operation.PushTag)
		gb = newBumper(ops)
		err = gb.CheckBranchState(opts.NewVersion)
	}

	state := gitState{bumper: gb, ops: ops}
	switch {
	case err == nil:
		return state, nil
	case opts.DryRun && errors.Is(err, git.ErrInvalidState):
		state.deferred = err
		return state, nil
	default:
		return gitState{}, err
	}
}

func buildPlan(opts Options, cfg *config.Config, doc config.Document, gb *git.Bumper, hr *hooks.Runner) (executor.Plan, error) {
	plan := executor.Plan{Doc: doc, NewVersion: opts.NewVersion}

	fb, err := bump.New(opts.Dir, cfg, bump.WithConfigDocument(doc))
	if err != nil {
		return plan, err
	}
	if err := fb.CheckFilesExist(); err != nil {
		return plan, err
	}
	if plan.Patches, err = fb.GetPatches(opts.NewVersion); err != nil {
		return plan, err
	}

	if plan.BeforeHooks, err = hr.BeforeHooks(opts.NewVersion); err != nil {
		return plan, err
	}
	if plan.AfterHooks, err = hr.AfterHooks(opts.NewVersion); err != nil {
		return plan, err
	}
	if plan.Commands, err = gb.Commands(opts.NewVersion); err != nil {
		return plan, err
	}
	return plan, nil
}

func fillResult(res *Result, plan executor.Plan) {
	res.Patches = plan.Patches
	for _, h := range plan.BeforeHooks {
		res.BeforeHooks = append(res.BeforeHooks, h.Cmd)
	}
	for _, c := range plan.Commands {
		res.Commands = append(res.Commands, c.String())
	}
	for _, h := range plan.AfterHooks {
		res.AfterHooks = append(res.AfterHooks, h.Cmd)
	}
}

func opNames(ops Operations) []string {
	list := ops.List()
	out := make([]string, len(list))
	for i, op := range list {
		out[i] = string(op)
	}
	return out
}

func createRelease(ctx context.Context, opts Options, githubURL, tag string) (string, error) {
	owner, repo, err := github.ParseRepoURL(githubURL)
	if err != nil {
		return "", err
	}
	auth := opts.GitHub
	if auth.Owner == "" {
		auth.Owner = owner
	}
	if auth.BaseURL == "" && os.Getenv("GITHUB_API_URL") == "" {
		auth.BaseURL = github.EnterpriseAPIURL(githubURL)
	}
	client, err := github.NewClient(ctx, auth)
	if err != nil {
		return "", fmt.Errorf("creating GitHub release: %w", err)
	}
	return github.NewReleaser(client, owner, repo, github.WithLogger(opts.Logger)).CreateRelease(ctx, tag)
}
