package version

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// CompareHint returns a warning when both versions are semantic versions
// and next does not come after current. Versions that are not semver yield
// no hint; custom schemes are always allowed.
func CompareHint(current, next string) string {
	c, n := canonical(current), canonical(next)
	if !semver.IsValid(c) || !semver.IsValid(n) {
		return ""
	}
	switch semver.Compare(n, c) {
	case 0:
		return fmt.Sprintf("%s has the same precedence as the current version %s", next, current)
	case -1:
		return fmt.Sprintf("%s is lower than the current version %s", next, current)
	}
	return ""
}

func canonical(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
