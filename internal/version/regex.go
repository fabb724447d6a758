// Package version decomposes version strings into named groups using a
// configured verbose-mode regular expression, and renders placeholder
// templates against those groups.
package version

import (
	"fmt"
	"regexp"
	"strings"
)

// Regex is a compiled version pattern. The source is written in verbose
// mode: unescaped whitespace and #-comments outside character classes are
// ignored. Matching is always against the whole input.
type Regex struct {
	source string
	re     *regexp.Regexp
	names  []string
}

// Compile strips verbose-mode formatting from pattern and compiles it for
// full matching.
func Compile(pattern string) (*Regex, error) {
	stripped := stripVerbose(pattern)
	re, err := regexp.Compile(`\A(?:` + stripped + `)\z`)
	if err != nil {
		return nil, fmt.Errorf("invalid version regex: %w", err)
	}

	seen := make(map[string]bool)
	var names []string
	for _, name := range re.SubexpNames() {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	return &Regex{source: pattern, re: re, names: names}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string) *Regex {
	r, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return r
}

// String returns the pattern as written in the configuration.
func (r *Regex) String() string {
	return r.source
}

// GroupNames returns the named groups in declaration order.
func (r *Regex) GroupNames() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// FullMatch reports whether s matches the pattern in its entirety.
func (r *Regex) FullMatch(s string) bool {
	return r.re.MatchString(s)
}

// Parse decomposes s into its named groups. Groups that did not take part
// in the match are unset, unless defaults carries a value for them.
func (r *Regex) Parse(s string, defaults map[string]string) (Groups, error) {
	loc := r.re.FindStringSubmatchIndex(s)
	if loc == nil {
		return nil, &InvalidVersionError{Version: s, Regex: r.source}
	}

	groups := make(Groups, len(r.names))
	for i, name := range r.re.SubexpNames() {
		if name == "" {
			continue
		}
		if v, ok := groups[name]; ok && v.Set {
			continue
		}
		start, end := loc[2*i], loc[2*i+1]
		if start < 0 {
			if def, ok := defaults[name]; ok {
				groups[name] = Value{Str: def, Set: true}
			} else {
				groups[name] = Value{}
			}
			continue
		}
		groups[name] = Value{Str: s[start:end], Set: true}
	}
	return groups, nil
}

// stripVerbose removes insignificant whitespace and comments from a
// verbose-mode pattern. Escaped whitespace is kept as a literal.
func stripVerbose(pattern string) string {
	var b strings.Builder
	inClass := false

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\':
			if i+1 >= len(pattern) {
				b.WriteByte(c)
				continue
			}
			i++
			next := pattern[i]
			if isSpace(next) {
				fmt.Fprintf(&b, `\x%02x`, next)
				continue
			}
			b.WriteByte(c)
			b.WriteByte(next)
		case inClass:
			if c == ']' {
				inClass = false
			}
			b.WriteByte(c)
		case c == '[':
			inClass = true
			b.WriteByte(c)
			if i+1 < len(pattern) && pattern[i+1] == '^' {
				i++
				b.WriteByte('^')
			}
			// A leading ']' is a literal member of the class.
			if i+1 < len(pattern) && pattern[i+1] == ']' {
				i++
				b.WriteByte(']')
			}
		case c == '#':
			for i+1 < len(pattern) && pattern[i+1] != '\n' {
				i++
			}
		case isSpace(c):
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
