package gitbump

import (
	"io"
	"log/slog"

	"github.com/MyCarrier-DevOps/go-gitbump/internal/bump"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/git"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/github"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/hooks"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/operation"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/output"
)

// Operation is one step a bump may perform.
type Operation = operation.Operation

// Operations is the set of steps requested for one bump.
type Operations = operation.Set

// Flags are the command-line switches that narrow the operation set.
type Flags = operation.Flags

// The operations a bump can perform.
const (
	Patch      = operation.Patch
	Hooks      = operation.Hooks
	Commit     = operation.Commit
	Tag        = operation.Tag
	PushCommit = operation.PushCommit
	PushTag    = operation.PushTag
)

// AllOperations returns every operation.
func AllOperations() Operations {
	return operation.All()
}

// OperationsFromFlags derives the operation set from command-line flags.
func OperationsFromFlags(f Flags) Operations {
	return operation.FromFlags(f)
}

// Prompter asks the user for confirmation in interactive mode.
type Prompter = output.Prompter

// CommandRunner runs git subprocesses.
type CommandRunner = git.CommandRunner

// Shell runs hook command lines.
type Shell = hooks.Shell

// GitHubAuth holds the credentials used to create GitHub releases.
type GitHubAuth = github.ClientConfig

// Options configures a bump.
type Options struct {
	// Dir is the project directory. Defaults to ".".
	Dir string

	// ConfigPath overrides the config file search. It is read as a bare
	// gitbump.yml file.
	ConfigPath string

	// NewVersion is the version to bump to.
	NewVersion string

	// DryRun computes and prints the plan without changing anything.
	DryRun bool

	// Interactive previews the plan and asks for confirmation.
	Interactive bool

	// TagMessage overrides the annotated tag message.
	TagMessage string

	// GitHubRelease creates a GitHub release for the pushed tag.
	GitHubRelease bool
	GitHub        GitHubAuth

	Stdout io.Writer
	Stderr io.Writer

	// Prompter defaults to a huh confirm form on Stdin.
	Prompter Prompter

	// Runner and Shell default to the git binary and the system shell.
	Runner CommandRunner
	Shell  Shell

	Logger *slog.Logger
}

// FilePatch is one planned line edit.
type FilePatch = bump.Patch
