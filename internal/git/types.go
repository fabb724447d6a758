// Package git checks repository preconditions for a bump and builds the git
// commands that commit, tag and push it.
package git

import (
	"fmt"
	"strings"
)

const (
	localBranchPrefix          = "refs/heads/"
	remoteTrackingBranchPrefix = "refs/remotes/"
	tagRefPrefix               = "refs/tags/"
)

// ReferenceName represents a git reference with canonical and friendly forms.
type ReferenceName struct {
	Canonical string // e.g., "refs/heads/main"
	Friendly  string // e.g., "main"
}

// NewReferenceName creates a ReferenceName from a canonical ref path.
func NewReferenceName(canonical string) ReferenceName {
	friendly := canonical
	for _, prefix := range []string{localBranchPrefix, remoteTrackingBranchPrefix, tagRefPrefix} {
		if strings.HasPrefix(canonical, prefix) {
			friendly = canonical[len(prefix):]
			break
		}
	}
	return ReferenceName{Canonical: canonical, Friendly: friendly}
}

// IsBranch returns true if this reference is a local branch.
func (r ReferenceName) IsBranch() bool {
	return strings.HasPrefix(r.Canonical, localBranchPrefix)
}

// IsTag returns true if this reference is a tag.
func (r ReferenceName) IsTag() bool {
	return strings.HasPrefix(r.Canonical, tagRefPrefix)
}

// Upstream is the remote and remote branch a local branch pushes to.
type Upstream struct {
	Remote string
	Branch string
}

func (u Upstream) String() string {
	return u.Remote + "/" + u.Branch
}

// StatusEntry is one line of a porcelain status: the staging and worktree
// codes followed by the path.
type StatusEntry struct {
	Staging  byte
	Worktree byte
	Path     string
}

// Untracked reports whether the entry is an untracked file.
func (e StatusEntry) Untracked() bool {
	return e.Staging == '?' && e.Worktree == '?'
}

func (e StatusEntry) String() string {
	return fmt.Sprintf("%c%c %s", orSpace(e.Staging), orSpace(e.Worktree), e.Path)
}

func orSpace(c byte) byte {
	if c == 0 {
		return ' '
	}
	return c
}
