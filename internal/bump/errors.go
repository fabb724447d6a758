package bump

import (
	"fmt"
	"strings"

	"github.com/MyCarrier-DevOps/go-gitbump/internal/version"
)

// SourceFileNotFoundError is returned when a configured src matches no file.
type SourceFileNotFoundError struct {
	Src string
}

func (e *SourceFileNotFoundError) Error() string {
	return fmt.Sprintf("%s does not exist", e.Src)
}

// CurrentVersionNotFoundError is returned when no line of a file contains
// the string the change request looks for.
type CurrentVersionNotFoundError struct {
	Src    string
	Sought string
}

func (e *CurrentVersionNotFoundError) Error() string {
	return fmt.Sprintf("current version string (%s) not found in %s", e.Sought, e.Src)
}

// BadSubstitutionError is returned when a version template references
// groups that are unset for the version being rendered.
type BadSubstitutionError struct {
	Src      string
	Verb     string
	Template string
	Groups   version.Groups
	Unset    []string
}

func (e *BadSubstitutionError) Error() string {
	return fmt.Sprintf("%s: refusing to %s a version built from unset groups %s (template: %s, groups: %s)",
		e.Src, e.Verb, strings.Join(e.Unset, ", "), e.Template, e.Groups)
}
