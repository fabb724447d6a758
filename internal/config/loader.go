package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/MyCarrier-DevOps/go-gitbump/internal/hooks"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/version"
)

// candidate is a recognized configuration location, relative to the
// project directory.
type candidate struct {
	name  string
	shape Shape
}

// Locations are searched in order; the first existing file wins.
var candidates = []candidate{
	{".github/gitbump.yml", ShapeBareFile},
	{"gitbump.yml", ShapeBareFile},
	{"gitbump.yaml", ShapeBareFile},
	{"project.yml", ShapeNestedManifest},
	{"project.yaml", ShapeNestedManifest},
}

// Load finds, reads and validates the configuration for dir. A non-empty
// explicitPath bypasses the search and is always read as a bare file.
func Load(dir, explicitPath string) (Document, *Config, error) {
	path, shape, err := find(dir, explicitPath)
	if err != nil {
		return nil, nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &InvalidConfigError{Path: path, Err: err}
	}

	doc, cfg, err := ParseBytes(data, shape, path)
	if err != nil {
		return nil, nil, err
	}
	return doc, cfg, nil
}

func find(dir, explicitPath string) (string, Shape, error) {
	if explicitPath != "" {
		return explicitPath, ShapeBareFile, nil
	}

	tried := make([]string, 0, len(candidates))
	for _, c := range candidates {
		path := filepath.Join(dir, filepath.FromSlash(c.name))
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, c.shape, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", 0, &InvalidConfigError{Path: path, Err: err}
		}
		tried = append(tried, c.name)
	}
	return "", 0, &ConfigNotFoundError{Dir: dir, Tried: tried}
}

// ParseBytes parses and validates data as a configuration of the given
// shape. Any failure is an InvalidConfigError.
func ParseBytes(data []byte, shape Shape, path string) (Document, *Config, error) {
	doc, err := NewDocument(data, shape, path)
	if err != nil {
		return nil, nil, &InvalidConfigError{Path: path, Err: err}
	}
	cfg, err := Parse(doc)
	if err != nil {
		return nil, nil, &InvalidConfigError{Path: path, Err: err}
	}
	return doc, cfg, nil
}

// Parse builds and validates a Config from a document. It performs no I/O.
func Parse(doc Document) (*Config, error) {
	raw, err := decodeRaw(doc.RawTable())
	if err != nil {
		return nil, err
	}

	re, err := version.Compile(raw.Version.Regex)
	if err != nil {
		return nil, &SchemaError{Key: "version.regex", Reason: err.Error()}
	}

	cfg := &Config{
		CurrentVersion:     raw.Version.Current,
		VersionRegex:       re,
		GitTagTemplate:     raw.Git.TagTemplate,
		GitMessageTemplate: raw.Git.MessageTemplate,
		AtomicPush:         true,
		GitHubURL:          raw.GitHubURL,
	}
	if raw.Git.AtomicPush != nil {
		cfg.AtomicPush = *raw.Git.AtomicPush
	}

	for _, f := range raw.File {
		cfg.Files = append(cfg.Files, File(f))
	}
	for _, f := range raw.Field {
		cfg.Fields = append(cfg.Fields, Field(f))
	}

	// Deprecated aliases come first so existing configurations keep their
	// hook order.
	hookSections := []struct {
		key        string
		list       []rawHook
		phase      hooks.Phase
		deprecated bool
	}{
		{"hook", raw.Hook, hooks.BeforeCommit, true},
		{"before_push", raw.BeforePush, hooks.BeforeCommit, true},
		{"before_commit", raw.BeforeCommit, hooks.BeforeCommit, false},
		{"after_push", raw.AfterPush, hooks.AfterPush, false},
	}
	for _, s := range hookSections {
		if s.deprecated && len(s.list) > 0 {
			cfg.Warnings = append(cfg.Warnings,
				fmt.Sprintf("%q is deprecated, use \"before_commit\" instead", s.key))
		}
		for _, h := range s.list {
			cfg.Hooks = append(cfg.Hooks, hooks.Hook{Name: h.Name, Cmd: h.Cmd, Phase: s.phase})
		}
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the document back to its path, keeping the file mode.
func Save(doc Document) error {
	info, err := os.Stat(doc.Path())
	if err != nil {
		return fmt.Errorf("reading config file mode: %w", err)
	}
	if err := os.WriteFile(doc.Path(), doc.Serialize(), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
