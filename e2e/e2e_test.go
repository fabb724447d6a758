// Package e2e runs complete bumps against real temporary git repositories
// with bare remotes, using the git binary and the system shell.
package e2e

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"

	"github.com/MyCarrier-DevOps/go-gitbump/internal/git"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/testutil"
	"github.com/MyCarrier-DevOps/go-gitbump/pkg/gitbump"
)

const projectConfig = `# release settings
version:
  current: "1.2.3"
  regex: '(?P<major>\d+)\.(?P<minor>\d+)\.(?P<patch>\d+)'
git:
  message_template: "Bump to {new_version}"
  tag_template: "v{new_version}"
file:
  - src: VERSION
  - src: src/*.go
    search: 'const Version = "{current_version}"'
before_commit:
  - name: changelog
    cmd: 'printf "%s -> %s\n" {current_version} {new_version} > CHANGELOG'
after_push:
  - name: marker
    cmd: "echo {new_version} > pushed.txt"
`

func requireTools(t *testing.T) {
	t.Helper()
	testutil.RequireGit(t)
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found in PATH")
	}
}

// newProject creates a committed project whose main branch tracks an
// empty bare remote. Returns the repo and the remote path.
func newProject(t *testing.T, config string) (*testutil.TestRepo, string) {
	t.Helper()
	tr := testutil.NewTestRepo(t)
	tr.WriteConfig(config)
	tr.WriteFile("VERSION", "1.2.3\n")
	tr.WriteFile("CHANGELOG", "\n")
	tr.WriteFile("src/version.go", "package src\n\nconst Version = \"1.2.3\"\n")
	tr.WriteFile("src/other.go", "package src\n\n// compatible with 1.2.3\nconst Version = \"1.2.3\"\n")
	tr.CommitAll("initial")
	remote := tr.AddBareRemote("origin")
	tr.SetUpstream("main", "origin", "main")
	return tr, remote
}

func bump(t *testing.T, dir, newVersion string, ops gitbump.Operations) (*gitbump.Result, string, error) {
	t.Helper()
	var out bytes.Buffer
	res, err := gitbump.Bump(context.Background(), gitbump.Options{
		Dir:        dir,
		NewVersion: newVersion,
		Stdout:     &out,
		Stderr:     &out,
	}, ops)
	return res, out.String(), err
}

func tagExists(t *testing.T, path, tag string) bool {
	t.Helper()
	repo, err := gogit.PlainOpen(path)
	require.NoError(t, err)
	_, err = repo.Reference(plumbing.NewTagReferenceName(tag), false)
	return err == nil
}

func requireClean(t *testing.T, dir string) {
	t.Helper()
	repo, err := git.Open(dir)
	require.NoError(t, err)
	entries, err := repo.Status()
	require.NoError(t, err)
	for _, e := range entries {
		require.True(t, e.Untracked(), "unexpected change: %s", e)
	}
}

func TestE2E_FullBump(t *testing.T) {
	requireTools(t)
	tr, remote := newProject(t, projectConfig)

	res, out, err := bump(t, tr.Path(), "1.3.0", gitbump.AllOperations())
	require.NoError(t, err, out)

	require.Equal(t, "1.3.0\n", tr.ReadFile("VERSION"))
	require.Equal(t, "package src\n\nconst Version = \"1.3.0\"\n", tr.ReadFile("src/version.go"))
	require.Equal(t, "package src\n\n// compatible with 1.2.3\nconst Version = \"1.3.0\"\n", tr.ReadFile("src/other.go"))
	require.Equal(t, "1.2.3 -> 1.3.0\n", tr.ReadFile("CHANGELOG"))
	require.Equal(t, "1.3.0\n", tr.ReadFile("pushed.txt"))
	require.Contains(t, tr.ReadFile("gitbump.yml"), "# release settings\n")
	require.Contains(t, tr.ReadFile("gitbump.yml"), `current: "1.3.0"`)

	// The hook edit, the patches and the config rewrite are all committed.
	requireClean(t, tr.Path())
	require.Equal(t, "Bump to 1.3.0", strings.TrimSpace(tr.HeadMessage()))

	head := tr.HeadSha()
	require.Equal(t, head, testutil.RefSha(t, remote, "refs/heads/main"))
	require.True(t, tagExists(t, tr.Path(), "v1.3.0"))
	require.True(t, tagExists(t, remote, "v1.3.0"))
	require.Equal(t, "v1.3.0", res.Tag)
	require.Contains(t, out, "Done")
}

func TestE2E_NonAtomicPush(t *testing.T) {
	requireTools(t)
	tr, remote := newProject(t, strings.Replace(projectConfig,
		`  tag_template: "v{new_version}"`,
		"  tag_template: \"v{new_version}\"\n  atomic_push: false", 1))

	res, out, err := bump(t, tr.Path(), "2.0.0", gitbump.AllOperations())
	require.NoError(t, err, out)
	require.Equal(t, []string{
		"git add --update",
		"git commit --message 'Bump to 2.0.0'",
		"git tag --annotate --message v2.0.0 v2.0.0",
		"git push origin main",
		"git push origin v2.0.0",
	}, res.Commands)
	require.Equal(t, tr.HeadSha(), testutil.RefSha(t, remote, "refs/heads/main"))
	require.True(t, tagExists(t, remote, "v2.0.0"))
}

func TestE2E_NoPush(t *testing.T) {
	requireTools(t)
	tr, remote := newProject(t, projectConfig)

	_, out, err := bump(t, tr.Path(), "1.3.0", gitbump.OperationsFromFlags(gitbump.Flags{NoPush: true}))
	require.NoError(t, err, out)

	require.True(t, tagExists(t, tr.Path(), "v1.3.0"))
	require.False(t, tagExists(t, remote, "v1.3.0"))
	require.Empty(t, testutil.RefSha(t, remote, "refs/heads/main"))
	// after_push hooks only run when something is pushed.
	require.NoFileExists(t, tr.Path()+"/pushed.txt")
}

func TestE2E_OnlyPatch(t *testing.T) {
	requireTools(t)
	tr, _ := newProject(t, projectConfig)
	before := tr.HeadSha()

	_, out, err := bump(t, tr.Path(), "1.3.0", gitbump.OperationsFromFlags(gitbump.Flags{OnlyPatch: true}))
	require.NoError(t, err, out)

	require.Equal(t, "1.3.0\n", tr.ReadFile("VERSION"))
	require.Equal(t, "\n", tr.ReadFile("CHANGELOG"))
	require.Equal(t, before, tr.HeadSha())
	require.False(t, tagExists(t, tr.Path(), "v1.3.0"))
}

func TestE2E_TagExistsBeforeAnyWrite(t *testing.T) {
	requireTools(t)
	tr, _ := newProject(t, projectConfig)
	tr.CreateAnnotatedTag("v1.3.0", tr.HeadSha(), "already released")

	_, _, err := bump(t, tr.Path(), "1.3.0", gitbump.AllOperations())
	var exists *git.RefAlreadyExistsError
	require.ErrorAs(t, err, &exists)
	require.Equal(t, "1.2.3\n", tr.ReadFile("VERSION"))
	requireClean(t, tr.Path())
}

func TestE2E_DetachedHead(t *testing.T) {
	requireTools(t)
	tr, _ := newProject(t, projectConfig)
	tr.DetachHead(tr.HeadSha())

	_, _, err := bump(t, tr.Path(), "1.3.0", gitbump.AllOperations())
	var detached *git.NotOnAnyBranchError
	require.ErrorAs(t, err, &detached)

	// Without pushes a detached HEAD is fine.
	_, out, err := bump(t, tr.Path(), "1.3.0", gitbump.OperationsFromFlags(gitbump.Flags{NoPush: true}))
	require.NoError(t, err, out)
	require.True(t, tagExists(t, tr.Path(), "v1.3.0"))
}

func TestE2E_PushRejectedStopsAfterHooks(t *testing.T) {
	requireTools(t)
	tr, _ := newProject(t, projectConfig)
	tr.SetUpstream("main", "nowhere", "main")

	_, _, err := bump(t, tr.Path(), "1.3.0", gitbump.AllOperations())
	var cmdErr *git.CommandError
	require.ErrorAs(t, err, &cmdErr)
	require.Equal(t, "push", cmdErr.Args[0])

	// The local commit and tag stay.
	require.Equal(t, "Bump to 1.3.0", strings.TrimSpace(tr.HeadMessage()))
	require.True(t, tagExists(t, tr.Path(), "v1.3.0"))
	require.NoFileExists(t, tr.Path()+"/pushed.txt")
}
