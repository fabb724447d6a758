// Package config loads and validates the gitbump configuration, and
// rewrites its current version in place.
package config

import (
	"github.com/MyCarrier-DevOps/go-gitbump/internal/hooks"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/version"
)

// Config is the validated configuration of a project. It is not modified
// after Parse returns.
type Config struct {
	CurrentVersion     string
	VersionRegex       *version.Regex
	GitTagTemplate     string
	GitMessageTemplate string
	AtomicPush         bool
	Files              []File
	Hooks              []hooks.Hook
	Fields             []Field
	GitHubURL          string

	// Warnings lists deprecations found while parsing.
	Warnings []string
}

// File is one file whose version string is bumped. Src may be a glob.
type File struct {
	Src             string
	Search          string
	VersionTemplate string
}

// Field supplies a value for an optional regex group that did not match.
type Field struct {
	Name    string
	Default *string
}

// FieldDefaults returns the declared defaults keyed by group name.
func (c *Config) FieldDefaults() map[string]string {
	out := make(map[string]string)
	for _, f := range c.Fields {
		if f.Default != nil {
			out[f.Name] = *f.Default
		}
	}
	return out
}

// ParseVersion decomposes v with the version regex, applying field
// defaults.
func (c *Config) ParseVersion(v string) (version.Groups, error) {
	return c.VersionRegex.Parse(v, c.FieldDefaults())
}

// rawConfig mirrors the on-disk table after the schema walk has checked
// node kinds.
type rawConfig struct {
	Version      rawVersion `yaml:"version"`
	Git          rawGit     `yaml:"git"`
	File         []rawFile  `yaml:"file" validate:"required,min=1,dive"`
	Field        []rawField `yaml:"field" validate:"dive"`
	BeforeCommit []rawHook  `yaml:"before_commit" validate:"dive"`
	AfterPush    []rawHook  `yaml:"after_push" validate:"dive"`
	Hook         []rawHook  `yaml:"hook" validate:"dive"`
	BeforePush   []rawHook  `yaml:"before_push" validate:"dive"`
	GitHubURL    string     `yaml:"github_url" validate:"omitempty,http_url"`
}

type rawVersion struct {
	Current string `yaml:"current" validate:"required"`
	Regex   string `yaml:"regex" validate:"required"`
}

type rawGit struct {
	MessageTemplate string `yaml:"message_template" validate:"required"`
	TagTemplate     string `yaml:"tag_template" validate:"required"`
	AtomicPush      *bool  `yaml:"atomic_push"`
}

type rawFile struct {
	Src             string `yaml:"src" validate:"required"`
	Search          string `yaml:"search"`
	VersionTemplate string `yaml:"version_template"`
}

type rawField struct {
	Name    string  `yaml:"name" validate:"required"`
	Default *string `yaml:"default"`
}

type rawHook struct {
	Name string `yaml:"name" validate:"required"`
	Cmd  string `yaml:"cmd" validate:"required"`
}
