package git

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidState is matched by every repository precondition failure.
var ErrInvalidState = errors.New("invalid repository state")

// DirtyRepositoryError is returned when tracked files have uncommitted
// changes.
type DirtyRepositoryError struct {
	Entries []StatusEntry
}

func (e *DirtyRepositoryError) Error() string {
	lines := make([]string, len(e.Entries))
	for i, entry := range e.Entries {
		lines[i] = "  " + entry.String()
	}
	return "repository is dirty:\n" + strings.Join(lines, "\n")
}

func (e *DirtyRepositoryError) Is(target error) bool { return target == ErrInvalidState }

// NotARepositoryError is returned when no git repository contains the
// project directory.
type NotARepositoryError struct {
	Dir string
}

func (e *NotARepositoryError) Error() string {
	return fmt.Sprintf("%s is not inside a git repository", e.Dir)
}

func (e *NotARepositoryError) Is(target error) bool { return target == ErrInvalidState }

// NotOnAnyBranchError is returned when HEAD is detached and a push was
// requested.
type NotOnAnyBranchError struct{}

func (e *NotOnAnyBranchError) Error() string { return "not on any branch" }

func (e *NotOnAnyBranchError) Is(target error) bool { return target == ErrInvalidState }

// NoTrackedBranchError is returned when the current branch has no upstream
// and a push was requested.
type NoTrackedBranchError struct {
	Branch string
}

func (e *NoTrackedBranchError) Error() string {
	return fmt.Sprintf("current branch (%s) does not track anything, cannot push", e.Branch)
}

func (e *NoTrackedBranchError) Is(target error) bool { return target == ErrInvalidState }

// RefAlreadyExistsError is returned when the tag to create already exists.
type RefAlreadyExistsError struct {
	Ref string
}

func (e *RefAlreadyExistsError) Error() string {
	return fmt.Sprintf("git ref %s already exists", e.Ref)
}

func (e *RefAlreadyExistsError) Is(target error) bool { return target == ErrInvalidState }

// CommandError is returned when a git subprocess exits with a non-zero
// status.
type CommandError struct {
	Args     []string
	ExitCode int
	Output   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s failed with exit code %d", strings.Join(e.Args, " "), e.ExitCode)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}
