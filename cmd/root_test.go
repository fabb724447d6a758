package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/MyCarrier-DevOps/go-gitbump/internal/testutil"
)

const testConfig = `version:
  current: "1.2.3"
  regex: '(?P<major>\d+)\.(?P<minor>\d+)\.(?P<patch>\d+)'
git:
  message_template: "Bump to {new_version}"
  tag_template: "v{new_version}"
file:
  - src: VERSION
`

// execute runs the root command with args after resetting every flag.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		require.NoError(t, f.Value.Set(f.DefValue))
		f.Changed = false
	}
	rootCmd.Flags().VisitAll(reset)
	rootCmd.PersistentFlags().VisitAll(reset)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeProject(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gitbump.yml"), []byte(testConfig), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "VERSION"), []byte("1.2.3\n"), 0o644))
}

func TestRootCmd_HasExpectedFlags(t *testing.T) {
	persistent := rootCmd.PersistentFlags()
	for _, name := range []string{"cwd", "config", "output", "verbosity"} {
		require.NotNil(t, persistent.Lookup(name), name)
	}
	local := rootCmd.Flags()
	for _, name := range []string{
		"non-interactive", "dry-run", "tag-message", "only-patch", "no-tag",
		"no-push", "no-tag-push", "github-release", "github-token", "github-app-id", "github-app-key",
	} {
		require.NotNil(t, local.Lookup(name), name)
	}
	require.Equal(t, "C", persistent.Lookup("cwd").Shorthand)
	require.Equal(t, "c", persistent.Lookup("config").Shorthand)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	var names []string
	for _, sub := range rootCmd.Commands() {
		names = append(names, sub.Name())
	}
	require.Contains(t, names, "version")
	require.Contains(t, names, "current-version")
}

func TestBump_OnlyPatch(t *testing.T) {
	dir := t.TempDir()
	writeProject(t, dir)

	stdout, _, err := execute(t, "-C", dir, "--non-interactive", "--only-patch", "1.3.0")
	require.NoError(t, err)
	require.Contains(t, stdout, "Bumping from 1.2.3 to 1.3.0")

	data, err := os.ReadFile(filepath.Join(dir, "VERSION"))
	require.NoError(t, err)
	require.Equal(t, "1.3.0\n", string(data))
}

func TestBump_TextOutput(t *testing.T) {
	dir := t.TempDir()
	writeProject(t, dir)

	stdout, _, err := execute(t, "-C", dir, "--non-interactive", "--only-patch", "-o", "text", "1.3.0")
	require.NoError(t, err)
	require.Contains(t, stdout, "Bumping from 1.2.3 to 1.3.0")
	require.Contains(t, stdout, "Done")
}

func TestCurrentVersion_TextOutput(t *testing.T) {
	dir := t.TempDir()
	writeProject(t, dir)

	stdout, _, err := execute(t, "current-version", "-C", dir, "-o", "text")
	require.NoError(t, err)
	require.Equal(t, "1.2.3\n", stdout)
}

func TestBump_DryRunJSON(t *testing.T) {
	dir := t.TempDir()
	writeProject(t, dir)

	stdout, stderr, err := execute(t, "-C", dir, "--dry-run", "--only-patch", "-o", "json", "1.3.0")
	require.NoError(t, err)
	require.Contains(t, stderr, "Would patch these files")

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	require.Equal(t, "1.3.0", res["new_version"])
	require.Equal(t, true, res["dry_run"])
	require.Len(t, res["patches"], 1)

	data, err := os.ReadFile(filepath.Join(dir, "VERSION"))
	require.NoError(t, err)
	require.Equal(t, "1.2.3\n", string(data))
}

func TestBump_DryRunInvalidGitStateExitsWithOne(t *testing.T) {
	tr := testutil.NewTestRepo(t)
	writeProject(t, tr.Path())
	tr.CommitAll("initial")
	tr.WriteFile("VERSION", "1.2.3\n\n")

	_, stderr, err := execute(t, "-C", tr.Path(), "--dry-run", "--non-interactive", "1.3.0")
	var exit *exitError
	require.ErrorAs(t, err, &exit)
	require.Equal(t, 1, exit.code)
	require.Contains(t, stderr, "Git repository state is invalid")
}

func TestBump_Errors(t *testing.T) {
	dir := t.TempDir()
	writeProject(t, dir)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing version", []string{"-C", dir}, "accepts 1 arg(s)"},
		{"unknown verbosity", []string{"-C", dir, "-v", "loud", "1.3.0"}, `unknown verbosity "loud"`},
		{"unknown output", []string{"-C", dir, "-o", "xml", "1.3.0"}, `unknown output format "xml"`},
		{"no config", []string{"-C", t.TempDir(), "--non-interactive", "1.3.0"}, "no configuration found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestCurrentVersion(t *testing.T) {
	dir := t.TempDir()
	writeProject(t, dir)

	stdout, _, err := execute(t, "current-version", "-C", dir)
	require.NoError(t, err)
	require.Equal(t, "1.2.3\n", stdout)

	stdout, _, err = execute(t, "current-version", "-C", dir, "-o", "json")
	require.NoError(t, err)
	require.JSONEq(t, `{"current_version": "1.2.3"}`, stdout)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := newLogger("debug", &buf)
	require.NoError(t, err)
	logger.Debug("probe", "dir", "/repo")
	require.Contains(t, buf.String(), "msg=probe dir=/repo")

	buf.Reset()
	logger, err = newLogger("info", &buf)
	require.NoError(t, err)
	logger.Debug("hidden")
	require.Empty(t, buf.String())

	logger, err = newLogger("quiet", &buf)
	require.NoError(t, err)
	logger.Error("hidden")
	require.Empty(t, buf.String())
}

func TestIsTerminal(t *testing.T) {
	require.False(t, isTerminal(strings.NewReader("")))
	require.False(t, isTerminal(&bytes.Buffer{}))
}
