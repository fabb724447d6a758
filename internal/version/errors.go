package version

import (
	"fmt"
	"strings"
)

// InvalidVersionError is returned when a version string does not fully
// match the configured regex.
type InvalidVersionError struct {
	Version string
	Regex   string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("could not parse %q as a valid version string", e.Version)
}

// TemplateError reports a malformed placeholder template.
type TemplateError struct {
	Template string
	Reason   string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("malformed template %q: %s", e.Template, e.Reason)
}

// MissingPlaceholderError reports a placeholder with no value to resolve it.
type MissingPlaceholderError struct {
	Template string
	Name     string
}

func (e *MissingPlaceholderError) Error() string {
	return fmt.Sprintf("template %q uses unknown placeholder %q", e.Template, e.Name)
}

// UnsetGroupError reports placeholders naming groups that did not match and
// have no default.
type UnsetGroupError struct {
	Template string
	Names    []string
}

func (e *UnsetGroupError) Error() string {
	return fmt.Sprintf("template %q references unset groups: %s", e.Template, strings.Join(e.Names, ", "))
}
