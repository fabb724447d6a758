// Package operation names the steps a bump may perform and the set of
// steps requested for one run.
package operation

import (
	"sort"
	"strings"
)

// Operation is one step of a bump.
type Operation string

const (
	Patch      Operation = "patch"
	Hooks      Operation = "hooks"
	Commit     Operation = "commit"
	Tag        Operation = "tag"
	PushCommit Operation = "push_commit"
	PushTag    Operation = "push_tag"
)

// order is the canonical ordering used when rendering a Set.
var order = []Operation{Patch, Hooks, Commit, Tag, PushCommit, PushTag}

// Set is an immutable set of requested operations.
type Set struct {
	m map[Operation]bool
}

// NewSet returns a set holding ops.
func NewSet(ops ...Operation) Set {
	m := make(map[Operation]bool, len(ops))
	for _, op := range ops {
		m[op] = true
	}
	return Set{m: m}
}

// All returns the full operation set.
func All() Set {
	return NewSet(order...)
}

// Has reports whether op is requested.
func (s Set) Has(op Operation) bool {
	return s.m[op]
}

// HasAny reports whether any of ops is requested.
func (s Set) HasAny(ops ...Operation) bool {
	for _, op := range ops {
		if s.m[op] {
			return true
		}
	}
	return false
}

// Without returns a copy of s with ops removed.
func (s Set) Without(ops ...Operation) Set {
	out := make(map[Operation]bool, len(s.m))
	for op := range s.m {
		out[op] = true
	}
	for _, op := range ops {
		delete(out, op)
	}
	return Set{m: out}
}

// Pushes reports whether at least one push was requested.
func (s Set) Pushes() bool {
	return s.HasAny(PushCommit, PushTag)
}

// List returns the operations in canonical order.
func (s Set) List() []Operation {
	var out []Operation
	for _, op := range order {
		if s.m[op] {
			out = append(out, op)
		}
	}
	var extra []Operation
	for op := range s.m {
		if !isKnown(op) {
			extra = append(extra, op)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}

func (s Set) String() string {
	ops := s.List()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op)
	}
	return "{" + strings.Join(names, ", ") + "}"
}

func isKnown(op Operation) bool {
	for _, k := range order {
		if k == op {
			return true
		}
	}
	return false
}

// Flags carries the command-line switches that narrow the operation set.
type Flags struct {
	OnlyPatch bool
	NoTag     bool
	NoPush    bool
	NoTagPush bool
}

// FromFlags derives the operation set for a run. OnlyPatch wins over every
// other switch.
func FromFlags(f Flags) Set {
	if f.OnlyPatch {
		return NewSet(Patch)
	}
	s := All()
	if f.NoPush {
		s = s.Without(PushCommit, PushTag)
	}
	if f.NoTagPush {
		s = s.Without(PushTag)
	}
	if f.NoTag {
		s = s.Without(Tag, PushTag)
	}
	return s
}
