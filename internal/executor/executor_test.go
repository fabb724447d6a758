package executor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MyCarrier-DevOps/go-gitbump/internal/bump"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/config"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/git"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/hooks"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/output"
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

// recorder captures git commands and hooks in the order they run.
type recorder struct {
	calls   []string
	failOn  string
	gitCode int
}

func (r *recorder) Run(_ context.Context, _, name string, args ...string) (string, int, error) {
	call := name + " " + strings.Join(args, " ")
	r.calls = append(r.calls, call)
	if r.failOn != "" && strings.HasPrefix(call, r.failOn) {
		return "rejected", r.gitCode, nil
	}
	return "", 0, nil
}

type hookRecorder struct {
	rec *recorder
	rc  map[string]int
}

func (h hookRecorder) Run(_ context.Context, hook hooks.ResolvedHook) error {
	h.rec.calls = append(h.rec.calls, "hook "+hook.Name)
	if rc := h.rc[hook.Name]; rc != 0 {
		return &hooks.HookError{Name: hook.Name, Cmd: hook.Cmd, ReturnCode: rc}
	}
	return nil
}

type fixture struct {
	dir  string
	doc  config.Document
	plan Plan
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "gitbump.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(testConfig), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "VERSION"), []byte("1.2.3\n"), 0o644))

	doc, _, err := config.Load(dir, "")
	require.NoError(t, err)

	return fixture{
		dir: dir,
		doc: doc,
		plan: Plan{
			Doc:        doc,
			NewVersion: "1.3.0",
			Patches: []bump.Patch{
				{Src: "VERSION", LineNo: 0, OldLine: "1.2.3", NewLine: "1.3.0", Ending: "\n"},
			},
			BeforeHooks: []hooks.ResolvedHook{
				{Name: "lint", Cmd: "make lint", Phase: hooks.BeforeCommit},
				{Name: "lock", Cmd: "make lock", Phase: hooks.BeforeCommit},
			},
			Commands: []git.Command{
				{Args: []string{"add", "--update"}},
				{Args: []string{"commit", "--message", "Bump to 1.3.0"}},
				{Args: []string{"push", "--atomic", "origin", "main", "v1.3.0"}},
			},
			AfterHooks: []hooks.ResolvedHook{
				{Name: "publish", Cmd: "make publish", Phase: hooks.AfterPush},
			},
		},
	}
}

func TestNew_GroupOrder(t *testing.T) {
	f := newFixture(t)
	e := New(f.dir, f.plan, nil)

	groups := e.Groups()
	require.Len(t, groups, 5)

	var kinds []string
	for _, g := range groups {
		for _, a := range g.Actions {
			switch a.(type) {
			case ConfigUpdate:
				kinds = append(kinds, "config")
			case PatchAction:
				kinds = append(kinds, "patch")
			case GitAction:
				kinds = append(kinds, "git")
			case HookAction:
				kinds = append(kinds, "hook")
			}
		}
	}
	require.Equal(t, []string{"config", "patch", "hook", "hook", "git", "git", "git", "hook"}, kinds)
	require.True(t, groups[2].Enumerate)
	require.False(t, groups[3].Enumerate)
}

func TestPrint_DryRun(t *testing.T) {
	f := newFixture(t)
	var out bytes.Buffer
	e := New(f.dir, f.plan, nil, WithUI(output.New(&out, &out)))

	e.Print(true)

	require.Equal(t, ""+
		"=> Would update current version in gitbump.yml\n"+
		"=> Would patch these files\n"+
		"- VERSION:1 1.2.3\n"+
		"+ VERSION:1 1.3.0\n"+
		"=> Would run these hooks before commit\n"+
		"* (1/2) lint\n"+
		"$ make lint\n"+
		"* (2/2) lock\n"+
		"$ make lock\n"+
		"=> Would run these git commands\n"+
		"$ git add --update\n"+
		"$ git commit --message 'Bump to 1.3.0'\n"+
		"$ git push --atomic origin main v1.3.0\n"+
		"=> Would run these hooks after push\n"+
		"* (1/1) publish\n"+
		"$ make publish\n",
		out.String())

	data, err := os.ReadFile(filepath.Join(f.dir, "VERSION"))
	require.NoError(t, err)
	require.Equal(t, "1.2.3\n", string(data))
}

func TestPrint_EmptyGroupsAreSkipped(t *testing.T) {
	f := newFixture(t)
	f.plan.BeforeHooks, f.plan.Commands, f.plan.AfterHooks = nil, nil, nil

	var out bytes.Buffer
	New(f.dir, f.plan, nil, WithUI(output.New(&out, &out))).Print(false)

	require.NotContains(t, out.String(), "hooks")
	require.NotContains(t, out.String(), "git")
	require.Contains(t, out.String(), "=> Patching files\n")
}

func TestRun(t *testing.T) {
	f := newFixture(t)
	rec := &recorder{}
	var out bytes.Buffer
	e := New(f.dir, f.plan, hookRecorder{rec: rec}, WithCommandRunner(rec), WithUI(output.New(&out, &out)))

	require.NoError(t, e.Run(context.Background()))

	require.Equal(t, []string{
		"hook lint",
		"hook lock",
		"git add --update",
		"git commit --message Bump to 1.3.0",
		"git push --atomic origin main v1.3.0",
		"hook publish",
	}, rec.calls)

	data, err := os.ReadFile(filepath.Join(f.dir, "VERSION"))
	require.NoError(t, err)
	require.Equal(t, "1.3.0\n", string(data))

	cfgData, err := os.ReadFile(filepath.Join(f.dir, "gitbump.yml"))
	require.NoError(t, err)
	require.Equal(t, strings.Replace(testConfig, `"1.2.3"`, `"1.3.0"`, 1), string(cfgData))

	require.Contains(t, out.String(), "* Set current version to 1.3.0 in gitbump.yml\n")
}

func TestRun_StopsAtFailingHook(t *testing.T) {
	f := newFixture(t)
	rec := &recorder{}
	e := New(f.dir, f.plan, hookRecorder{rec: rec, rc: map[string]int{"lint": 2}}, WithCommandRunner(rec))

	err := e.Run(context.Background())
	var hookErr *hooks.HookError
	require.ErrorAs(t, err, &hookErr)
	require.Equal(t, "lint", hookErr.Name)
	require.Equal(t, 2, hookErr.ReturnCode)
	require.Equal(t, []string{"hook lint"}, rec.calls)

	// Earlier groups are not rolled back.
	data, err := os.ReadFile(filepath.Join(f.dir, "VERSION"))
	require.NoError(t, err)
	require.Equal(t, "1.3.0\n", string(data))
}

func TestRun_StopsAtFailingGitCommand(t *testing.T) {
	f := newFixture(t)
	rec := &recorder{failOn: "git commit", gitCode: 1}
	e := New(f.dir, f.plan, hookRecorder{rec: rec}, WithCommandRunner(rec))

	err := e.Run(context.Background())
	var cmdErr *git.CommandError
	require.ErrorAs(t, err, &cmdErr)
	require.Equal(t, 1, cmdErr.ExitCode)
	require.NotContains(t, rec.calls, "git push --atomic origin main v1.3.0")
	require.NotContains(t, rec.calls, "hook publish")
}

func TestRun_StalePatch(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "VERSION"), []byte("9.9.9\n"), 0o644))

	rec := &recorder{}
	err := New(f.dir, f.plan, hookRecorder{rec: rec}, WithCommandRunner(rec)).Run(context.Background())
	require.ErrorContains(t, err, "changed since the patch was computed")
	require.Empty(t, rec.calls)
}

func TestRun_HookWithoutRunner(t *testing.T) {
	f := newFixture(t)
	f.plan.Commands = nil
	err := New(f.dir, f.plan, nil, WithCommandRunner(&recorder{})).Run(context.Background())
	require.ErrorContains(t, err, `no hook runner for hook "lint"`)
}
