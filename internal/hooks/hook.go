// Package hooks holds user-defined shell hooks and runs them around the git
// commands of a bump.
package hooks

import (
	"fmt"

	"github.com/MyCarrier-DevOps/go-gitbump/internal/version"
)

// Phase is the point of a bump at which a hook runs.
type Phase int

const (
	// BeforeCommit hooks run after files are patched and before any git
	// command.
	BeforeCommit Phase = iota
	// AfterPush hooks run once every git command has completed, and only
	// when a push was requested.
	AfterPush
)

func (p Phase) String() string {
	switch p {
	case BeforeCommit:
		return "before_commit"
	case AfterPush:
		return "after_push"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Hook is a configured shell command. Hooks are never modified after load;
// placeholders are resolved into a separate ResolvedHook.
type Hook struct {
	Name  string
	Cmd   string
	Phase Phase
}

// ResolvedHook is a hook whose command has its placeholders substituted.
type ResolvedHook struct {
	Name  string
	Cmd   string
	Phase Phase
}

// Placeholders that a hook command may reference.
const (
	CurrentVersionPlaceholder = "current_version"
	NewVersionPlaceholder     = "new_version"
)

// Resolve substitutes {current_version} and {new_version} into the hook's
// command.
func Resolve(h Hook, currentVersion, newVersion string) (ResolvedHook, error) {
	cmd, err := version.Render(h.Cmd, map[string]string{
		CurrentVersionPlaceholder: currentVersion,
		NewVersionPlaceholder:     newVersion,
	})
	if err != nil {
		return ResolvedHook{}, fmt.Errorf("resolving hook %q: %w", h.Name, err)
	}
	return ResolvedHook{Name: h.Name, Cmd: cmd, Phase: h.Phase}, nil
}

// HookError is returned when a hook exits with a non-zero status.
type HookError struct {
	Name       string
	Cmd        string
	ReturnCode int
}

func (e *HookError) Error() string {
	return fmt.Sprintf("hook %q: `%s` exited with return code %d", e.Name, e.Cmd, e.ReturnCode)
}
