package git

import (
	"fmt"
	"log/slog"

	"github.com/MyCarrier-DevOps/go-gitbump/internal/config"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/hooks"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/operation"
	"github.com/MyCarrier-DevOps/go-gitbump/internal/version"
)

// Bumper checks repository preconditions and plans the git commands of a
// bump. The precondition checks must run before Commands.
type Bumper struct {
	repo            Repository
	ops             operation.Set
	currentVersion  string
	messageTemplate string
	tagTemplate     string
	atomicPush      bool
	tagMessage      string
	logger          *slog.Logger

	branch   string
	upstream Upstream
}

// Option configures a Bumper.
type Option func(*Bumper)

// WithTagMessage overrides the annotated tag message, which defaults to
// the tag name.
func WithTagMessage(msg string) Option {
	return func(b *Bumper) { b.tagMessage = msg }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bumper) { b.logger = l }
}

// NewBumper creates a Bumper for the requested operations.
func NewBumper(repo Repository, cfg *config.Config, ops operation.Set, opts ...Option) *Bumper {
	b := &Bumper{
		repo:            repo,
		ops:             ops,
		currentVersion:  cfg.CurrentVersion,
		messageTemplate: cfg.GitMessageTemplate,
		tagTemplate:     cfg.GitTagTemplate,
		atomicPush:      cfg.AtomicPush,
		logger:          slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// CheckDirty fails with DirtyRepositoryError if any tracked file is
// modified or staged. Untracked files are ignored. Nothing is checked
// unless a commit was requested.
func (b *Bumper) CheckDirty() error {
	if !b.ops.Has(operation.Commit) {
		return nil
	}

	entries, err := b.repo.Status()
	if err != nil {
		return err
	}

	var dirty []StatusEntry
	for _, e := range entries {
		if !e.Untracked() {
			dirty = append(dirty, e)
		}
	}
	b.logger.Debug("checked working tree", "dir", b.repo.WorkingDirectory(), "changed", len(dirty), "untracked", len(entries)-len(dirty))

	if len(dirty) > 0 {
		return &DirtyRepositoryError{Entries: dirty}
	}
	return nil
}

// CheckBranchState verifies that the tag to create does not exist yet and,
// when a push was requested, resolves the branch and its upstream for the
// push commands. Nothing is checked unless a commit was requested.
func (b *Bumper) CheckBranchState(newVersion string) error {
	if !b.ops.Has(operation.Commit) {
		return nil
	}

	if b.ops.Has(operation.Tag) {
		tag, err := b.TagName(newVersion)
		if err != nil {
			return err
		}
		exists, err := b.repo.RefExists(tag)
		if err != nil {
			return err
		}
		if exists {
			return &RefAlreadyExistsError{Ref: tag}
		}
	}

	if !b.ops.Pushes() {
		return nil
	}

	if b.repo.IsHeadDetached() {
		return &NotOnAnyBranchError{}
	}
	branch, err := b.repo.CurrentBranch()
	if err != nil {
		return err
	}
	upstream, ok, err := b.repo.Upstream(branch)
	if err != nil {
		return err
	}
	if !ok {
		return &NoTrackedBranchError{Branch: branch}
	}
	b.logger.Debug("resolved upstream", "branch", branch, "upstream", upstream.String())

	b.branch = branch
	b.upstream = upstream
	return nil
}

// TagName renders the tag template for newVersion.
func (b *Bumper) TagName(newVersion string) (string, error) {
	return b.render("git.tag_template", b.tagTemplate, newVersion)
}

// CommitMessage renders the message template for newVersion.
func (b *Bumper) CommitMessage(newVersion string) (string, error) {
	return b.render("git.message_template", b.messageTemplate, newVersion)
}

func (b *Bumper) render(key, tmpl, newVersion string) (string, error) {
	s, err := version.Render(tmpl, map[string]string{
		hooks.CurrentVersionPlaceholder: b.currentVersion,
		hooks.NewVersionPlaceholder:     newVersion,
	})
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", key, err)
	}
	return s, nil
}

// Commands returns the git commands for the requested operations, in the
// order they must run. It is empty unless a commit was requested.
func (b *Bumper) Commands(newVersion string) ([]Command, error) {
	if !b.ops.Has(operation.Commit) {
		return nil, nil
	}

	msg, err := b.CommitMessage(newVersion)
	if err != nil {
		return nil, err
	}
	tag, err := b.TagName(newVersion)
	if err != nil {
		return nil, err
	}

	cmds := []Command{
		{Args: []string{"add", "--update"}},
		{Args: []string{"commit", "--message", msg}},
	}

	if b.ops.Has(operation.Tag) {
		tagMsg := b.tagMessage
		if tagMsg == "" {
			tagMsg = tag
		}
		cmds = append(cmds, Command{Args: []string{"tag", "--annotate", "--message", tagMsg, tag}})
	}

	pushCommit, pushTag := b.ops.Has(operation.PushCommit), b.ops.Has(operation.PushTag)
	remote, refspec := b.upstream.Remote, b.branchRefspec()
	switch {
	case pushCommit && pushTag && b.atomicPush:
		cmds = append(cmds, Command{Args: []string{"push", "--atomic", remote, refspec, tag}})
	case pushCommit && pushTag:
		cmds = append(cmds,
			Command{Args: []string{"push", remote, refspec}},
			Command{Args: []string{"push", remote, tag}},
		)
	case pushCommit:
		cmds = append(cmds, Command{Args: []string{"push", remote, refspec}})
	case pushTag:
		cmds = append(cmds, Command{Args: []string{"push", remote, tag}})
	}
	return cmds, nil
}

// branchRefspec pushes the local branch to its upstream branch.
func (b *Bumper) branchRefspec() string {
	if b.branch == "" || b.branch == b.upstream.Branch {
		return b.upstream.Branch
	}
	return b.branch + ":" + b.upstream.Branch
}
