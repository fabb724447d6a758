// Package bump computes and applies the line edits that replace the current
// version with a new one in the configured files.
package bump

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/MyCarrier-DevOps/go-gitbump/internal/config"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/version"
)

const currentVersionPlaceholder = "{current_version}"

// ChangeRequest is the substitution intended for one file.
type ChangeRequest struct {
	// Src is the file path, slash-separated and relative to the working
	// directory unless the configured src was absolute.
	Src       string
	OldString string
	NewString string
	// Search, when set, is a regular expression a line must also match.
	Search string
}

// FileBumper plans the file edits of a bump.
type FileBumper struct {
	workDir       string
	cfg           *config.Config
	currentGroups version.Groups

	// configSrc and configLine locate the version.current line of the
	// configuration document when it is known.
	configSrc  string
	configLine int
}

// Option configures a FileBumper.
type Option func(*FileBumper)

// WithConfigDocument tells the bumper where the configuration document
// lives. Its version.current line is rewritten by the config update, so no
// patch is planned for it.
func WithConfigDocument(doc config.Document) Option {
	return func(b *FileBumper) {
		line, ok := doc.CurrentVersionLine()
		if !ok {
			return
		}
		src, err := b.srcFor(doc.Path())
		if err != nil {
			return
		}
		b.configSrc, b.configLine = src, line
	}
}

// New creates a FileBumper for the project in workDir.
func New(workDir string, cfg *config.Config, opts ...Option) (*FileBumper, error) {
	groups, err := cfg.ParseVersion(cfg.CurrentVersion)
	if err != nil {
		return nil, err
	}
	b := &FileBumper{workDir: workDir, cfg: cfg, currentGroups: groups, configLine: -1}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// CheckFilesExist fails with SourceFileNotFoundError for the first
// configured src that matches nothing.
func (b *FileBumper) CheckFilesExist() error {
	for _, f := range b.cfg.Files {
		if _, err := b.expand(f.Src); err != nil {
			return err
		}
	}
	return nil
}

// ComputeChangeRequests returns one change request per matched file, in
// configuration order and then in sorted match order.
func (b *FileBumper) ComputeChangeRequests(newVersion string) ([]ChangeRequest, error) {
	newGroups, err := b.cfg.ParseVersion(newVersion)
	if err != nil {
		return nil, err
	}

	var out []ChangeRequest
	for _, f := range b.cfg.Files {
		paths, err := b.expand(f.Src)
		if err != nil {
			return nil, err
		}

		oldString, newString := b.cfg.CurrentVersion, newVersion
		if f.VersionTemplate != "" {
			if oldString, err = renderFor(f, "look for", b.currentGroups); err != nil {
				return nil, err
			}
			if newString, err = renderFor(f, "replace by", newGroups); err != nil {
				return nil, err
			}
		}

		var search string
		if f.Search != "" {
			search = strings.ReplaceAll(f.Search, currentVersionPlaceholder, regexp.QuoteMeta(oldString))
		}

		for _, p := range paths {
			out = append(out, ChangeRequest{
				Src:       p,
				OldString: oldString,
				NewString: newString,
				Search:    search,
			})
		}
	}
	return out, nil
}

// GetPatches resolves every change request against file contents. Change
// requests for the same file are applied in order to a working copy, so a
// later request sees the edits of an earlier one. The version.current line
// of the configuration document counts as a match but is left to the
// config update.
func (b *FileBumper) GetPatches(newVersion string) ([]Patch, error) {
	requests, err := b.ComputeChangeRequests(newVersion)
	if err != nil {
		return nil, err
	}

	contents := make(map[string][]line)
	var patches []Patch
	for _, cr := range requests {
		lines, ok := contents[cr.Src]
		if !ok {
			data, err := os.ReadFile(b.abs(cr.Src))
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", cr.Src, err)
			}
			lines = splitLines(data)
		}

		found, err := patchesFor(cr, lines)
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			if cr.Src == b.configSrc && p.LineNo == b.configLine {
				continue
			}
			lines[p.LineNo].text = p.NewLine
			patches = append(patches, p)
		}
		contents[cr.Src] = lines
	}
	return patches, nil
}

func patchesFor(cr ChangeRequest, lines []line) ([]Patch, error) {
	if cr.OldString == "" {
		return nil, fmt.Errorf("%s: refusing to look for an empty version string", cr.Src)
	}

	var re *regexp.Regexp
	if cr.Search != "" {
		var err error
		if re, err = regexp.Compile(cr.Search); err != nil {
			return nil, fmt.Errorf("%s: invalid search pattern: %w", cr.Src, err)
		}
	}

	eligible := 0
	var patches []Patch
	for i, l := range lines {
		if !strings.Contains(l.text, cr.OldString) {
			continue
		}
		if re != nil && !re.MatchString(l.text) {
			continue
		}
		eligible++
		newText := strings.ReplaceAll(l.text, cr.OldString, cr.NewString)
		if newText == l.text {
			continue
		}
		patches = append(patches, Patch{
			Src:     cr.Src,
			LineNo:  i,
			OldLine: l.text,
			NewLine: newText,
			Ending:  l.ending,
		})
	}
	if eligible == 0 {
		return nil, &CurrentVersionNotFoundError{Src: cr.Src, Sought: cr.OldString}
	}
	return patches, nil
}

func renderFor(f config.File, verb string, groups version.Groups) (string, error) {
	s, err := version.RenderGroups(f.VersionTemplate, groups)
	var unset *version.UnsetGroupError
	if errors.As(err, &unset) {
		return "", &BadSubstitutionError{
			Src:      f.Src,
			Verb:     verb,
			Template: f.VersionTemplate,
			Groups:   groups,
			Unset:    unset.Names,
		}
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", f.Src, err)
	}
	return s, nil
}

// expand resolves src, which may be a doublestar glob, to the sorted list of
// matching regular files. Patterns inside the working directory are matched
// through its file system; the others, starting with ".." or absolute, on
// the host file system.
func (b *FileBumper) expand(src string) ([]string, error) {
	pattern := path.Clean(filepath.ToSlash(src))

	var matches []string
	var err error
	if filepath.IsAbs(src) || pattern == ".." || strings.HasPrefix(pattern, "../") {
		matches, err = b.globOutside(pattern)
	} else {
		matches, err = doublestar.Glob(os.DirFS(b.workDir), pattern, doublestar.WithFilesOnly())
	}
	if err != nil {
		return nil, fmt.Errorf("expanding %s: %w", src, err)
	}
	if len(matches) == 0 {
		return nil, &SourceFileNotFoundError{Src: src}
	}
	sort.Strings(matches)
	return matches, nil
}

func (b *FileBumper) globOutside(pattern string) ([]string, error) {
	full := filepath.FromSlash(pattern)
	absolute := filepath.IsAbs(full)
	if !absolute {
		full = filepath.Join(b.workDir, full)
	}
	found, err := doublestar.FilepathGlob(full, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	matches := make([]string, 0, len(found))
	for _, f := range found {
		if absolute {
			matches = append(matches, filepath.ToSlash(f))
			continue
		}
		rel, err := filepath.Rel(b.workDir, f)
		if err != nil {
			return nil, err
		}
		matches = append(matches, filepath.ToSlash(rel))
	}
	return matches, nil
}

// srcFor converts a file path into the Src form change requests use.
func (b *FileBumper) srcFor(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	root, err := filepath.Abs(b.workDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return filepath.ToSlash(abs), nil
	}
	return filepath.ToSlash(rel), nil
}

func (b *FileBumper) abs(src string) string {
	return resolve(b.workDir, src)
}
