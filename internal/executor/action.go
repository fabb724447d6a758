// Package executor prints and runs the planned actions of a bump in order.
package executor

import (
	"github.com/MyCarrier-DevOps/go-gitbump/internal/bump"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/config"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/git"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/hooks"
)

// Action is one planned side effect. The set of actions is closed:
// ConfigUpdate, PatchAction, GitAction and HookAction.
type Action interface {
	action()
}

// ConfigUpdate rewrites the current version in the config document.
type ConfigUpdate struct {
	Doc        config.Document
	NewVersion string
}

// PatchAction rewrites one line of one file.
type PatchAction struct {
	Patch bump.Patch
}

// GitAction runs one git command.
type GitAction struct {
	Command git.Command
}

// HookAction runs one resolved hook.
type HookAction struct {
	Hook hooks.ResolvedHook
}

func (ConfigUpdate) action() {}
func (PatchAction) action()  {}
func (GitAction) action()    {}
func (HookAction) action()   {}

// ActionGroup is a titled list of actions. DryRunDesc is printed when
// previewing, Desc when running. Enumerate prefixes each action with its
// position in the group.
type ActionGroup struct {
	DryRunDesc string
	Desc       string
	Actions    []Action
	Enumerate  bool
}
