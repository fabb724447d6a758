package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/MyCarrier-DevOps/go-gitbump/internal/hooks"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/version"
)

const newVersionToken = "{" + hooks.NewVersionPlaceholder + "}"

// gitPlaceholders are the names git and hook templates may reference.
var gitPlaceholders = map[string]bool{
	hooks.CurrentVersionPlaceholder: true,
	hooks.NewVersionPlaceholder:     true,
}

// ValidateConfig runs the semantic checks that need a built Config: the
// current version must match the regex, templates must only reference
// resolvable names and git templates must contain {new_version}.
func ValidateConfig(cfg *Config) error {
	if err := validateGitTemplate("git.message_template", cfg.GitMessageTemplate); err != nil {
		return err
	}
	if err := validateGitTemplate("git.tag_template", cfg.GitTagTemplate); err != nil {
		return err
	}

	if !cfg.VersionRegex.FullMatch(cfg.CurrentVersion) {
		return &CurrentVersionInvalidError{Current: cfg.CurrentVersion}
	}

	known := make(map[string]bool)
	for _, name := range cfg.VersionRegex.GroupNames() {
		known[name] = true
	}
	for _, f := range cfg.Fields {
		known[f.Name] = true
	}

	for i, f := range cfg.Files {
		if f.VersionTemplate != "" {
			key := fmt.Sprintf("file[%d].version_template", i)
			if err := checkPlaceholders(key, f.VersionTemplate, known); err != nil {
				return err
			}
		}
		if f.Search != "" {
			pattern := strings.ReplaceAll(f.Search, "{current_version}", regexp.QuoteMeta(cfg.CurrentVersion))
			if _, err := regexp.Compile(pattern); err != nil {
				return &SchemaError{Key: fmt.Sprintf("file[%d].search", i), Reason: err.Error()}
			}
		}
	}

	for _, h := range cfg.Hooks {
		key := fmt.Sprintf("%s hook %q", h.Phase, h.Name)
		if err := checkPlaceholders(key, h.Cmd, gitPlaceholders); err != nil {
			return err
		}
	}
	return nil
}

func validateGitTemplate(key, tmpl string) error {
	if !strings.Contains(tmpl, newVersionToken) {
		return &TemplateContentError{Key: key, Reason: "should contain the string " + newVersionToken}
	}
	return checkPlaceholders(key, tmpl, gitPlaceholders)
}

func checkPlaceholders(key, tmpl string, known map[string]bool) error {
	names, err := version.Placeholders(tmpl)
	if err != nil {
		return &TemplateContentError{Key: key, Reason: err.Error()}
	}
	for _, name := range names {
		if !known[name] {
			return &UnknownPlaceholderError{Key: key, Template: tmpl, Name: name}
		}
	}
	return nil
}
