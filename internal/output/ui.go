// Package output renders bump progress for humans and asks for
// confirmation before anything is changed.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Line prefixes, from the most to the least prominent.
const (
	headingPrefix = "::"
	sectionPrefix = "=>"
	stepPrefix    = "*"
)

type styles struct {
	heading lipgloss.Style
	section lipgloss.Style
	step    lipgloss.Style
	bold    lipgloss.Style
	muted   lipgloss.Style
	removed lipgloss.Style
	added   lipgloss.Style
	changed lipgloss.Style
	version lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
	success lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		section: r.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		step:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		bold:    r.NewStyle().Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		removed: r.NewStyle().Foreground(lipgloss.Color("1")),
		added:   r.NewStyle().Foreground(lipgloss.Color("2")),
		changed: r.NewStyle().Underline(true).Bold(true),
		version: r.NewStyle().Foreground(lipgloss.Color("4")),
		warn:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		err:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		success: r.NewStyle().Foreground(lipgloss.Color("2")),
	}
}

// UI writes styled progress lines. Colors are only emitted when the
// destination is a terminal.
type UI struct {
	out    io.Writer
	errOut io.Writer
	s      styles
}

// New creates a UI writing progress to out and errors to errOut.
func New(out, errOut io.Writer) *UI {
	return &UI{
		out:    out,
		errOut: errOut,
		s:      newStyles(lipgloss.NewRenderer(out)),
	}
}

// Discard returns a UI that prints nothing.
func Discard() *UI {
	return New(io.Discard, io.Discard)
}

func (u *UI) println(w io.Writer, parts ...string) {
	fmt.Fprintln(w, strings.Join(parts, " "))
}

// Blank prints an empty line.
func (u *UI) Blank() {
	fmt.Fprintln(u.out)
}

// Info prints a plain line.
func (u *UI) Info(text string) {
	u.println(u.out, text)
}

// Bumping prints the run header.
func (u *UI) Bumping(current, next string, dryRun bool) {
	parts := []string{
		u.s.heading.Render(headingPrefix), "Bumping from",
		u.s.bold.Render(current), "to", u.s.bold.Render(next),
	}
	if dryRun {
		parts = append(parts, u.s.warn.Render("(dry run)"))
	}
	u.println(u.out, parts...)
}

// Section prints a group header.
func (u *UI) Section(text string) {
	u.println(u.out, u.s.section.Render(sectionPrefix), text)
}

// SetCurrentVersion reports the config file rewrite.
func (u *UI) SetCurrentVersion(newVersion, file string) {
	u.println(u.out,
		u.s.step.Render(stepPrefix), "Set current version to",
		u.s.version.Render(newVersion), "in", u.s.bold.Render(file))
}

// Count prints an enumerated item header such as "* (1/3) name".
func (u *UI) Count(i, n int, name string) {
	u.println(u.out, u.s.step.Render(fmt.Sprintf("%s (%d/%d)", stepPrefix, i+1, n)), u.s.bold.Render(name))
}

// Diff prints a removed and an added line for a patch. lineNo is
// zero-based; the changed spans are emphasized.
func (u *UI) Diff(src string, lineNo int, oldLine, newLine string) {
	oldLine, newLine = strings.TrimSpace(oldLine), strings.TrimSpace(newLine)
	loc := u.s.bold.Render(fmt.Sprintf("%s:%d", src, lineNo+1))
	oldText, newText := u.emphasize(oldLine, newLine)
	fmt.Fprintf(u.out, "%s%s %s\n", u.s.removed.Render("- "), loc, oldText)
	fmt.Fprintf(u.out, "%s%s %s\n", u.s.added.Render("+ "), loc, newText)
}

// Command prints a command line that is about to run.
func (u *UI) Command(cmdline string) {
	u.println(u.out, u.s.muted.Render("$"), cmdline)
}

// Done prints the final success line.
func (u *UI) Done() {
	u.println(u.out, u.s.success.Render("Done ✓"))
}

// Warn prints a warning to the error stream.
func (u *UI) Warn(text string) {
	u.println(u.errOut, u.s.warn.Render("Warning:"), text)
}

// Error prints an error to the error stream.
func (u *UI) Error(text string) {
	u.println(u.errOut, u.s.err.Render("Error:"), text)
}
