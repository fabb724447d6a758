package version

import (
	"sort"
	"strconv"
	"strings"
)

// Value is the outcome of one named group: either a matched (or defaulted)
// string, or unset. An unset value is distinct from a group that matched
// the empty string.
type Value struct {
	Str string
	Set bool
}

// Groups maps group names to their values for one parsed version.
type Groups map[string]Value

// Lookup returns the value of a set group.
func (g Groups) Lookup(name string) (string, bool) {
	v, ok := g[name]
	if !ok || !v.Set {
		return "", false
	}
	return v.Str, true
}

// Unset returns the names of unset groups, sorted.
func (g Groups) Unset() []string {
	var names []string
	for name, v := range g {
		if !v.Set {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// String renders the groups deterministically, e.g.
// {major: "1", minor: "2", patch: <unset>}.
func (g Groups) String() string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		if v := g[name]; v.Set {
			b.WriteString(strconv.Quote(v.Str))
		} else {
			b.WriteString("<unset>")
		}
	}
	b.WriteByte('}')
	return b.String()
}
