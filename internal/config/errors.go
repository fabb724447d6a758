package config

import (
	"fmt"
	"strings"
)

// ConfigNotFoundError is returned when no configuration exists at any
// recognized location.
type ConfigNotFoundError struct {
	Dir   string
	Tried []string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("no configuration found in %s (looked for %s)", e.Dir, strings.Join(e.Tried, ", "))
}

// InvalidConfigError wraps an I/O, schema or semantic failure for one
// configuration file.
type InvalidConfigError struct {
	Path string
	Err  error
}

func (e *InvalidConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid configuration: %v", e.Err)
	}
	return fmt.Sprintf("invalid configuration %s: %v", e.Path, e.Err)
}

func (e *InvalidConfigError) Unwrap() error { return e.Err }

// SchemaError reports a structural problem at a dotted key path such as
// git.tag_template or file[2].src.
type SchemaError struct {
	Key    string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", e.Key, e.Reason)
}

// CurrentVersionInvalidError is returned when version.current does not
// fully match version.regex.
type CurrentVersionInvalidError struct {
	Current string
}

func (e *CurrentVersionInvalidError) Error() string {
	return fmt.Sprintf("current version %q does not match version regex", e.Current)
}

// UnknownPlaceholderError is returned when a template references a name
// that can never be resolved.
type UnknownPlaceholderError struct {
	Key      string
	Template string
	Name     string
}

func (e *UnknownPlaceholderError) Error() string {
	return fmt.Sprintf("%s: %q uses unknown placeholder {%s}", e.Key, e.Template, e.Name)
}

// TemplateContentError is returned when a git template lacks a required
// placeholder or cannot be parsed.
type TemplateContentError struct {
	Key    string
	Reason string
}

func (e *TemplateContentError) Error() string {
	return fmt.Sprintf("%s %s", e.Key, e.Reason)
}
