package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/MyCarrier-DevOps/go-gitbump/internal/output"
	"github.com/MyCarrier-DevOps/go-gitbump/pkg/gitbump"
)

// Global flags shared across commands.
var (
	flagCwd       string
	flagConfig    string
	flagOutput    string
	flagVerbosity string
)

// Bump flags.
var (
	flagNonInteractive bool
	flagDryRun         bool
	flagTagMessage     string
	flagOnlyPatch      bool
	flagNoTag          bool
	flagNoPush         bool
	flagNoTagPush      bool
	flagGitHubRelease  bool
	flagGitHubToken    string
	flagGitHubAppID    int64
	flagGitHubAppKey   string
)

// rootCmd bumps the project to the version given as argument.
var rootCmd = &cobra.Command{
	Use:   "gitbump [flags] <new_version>",
	Short: "Bump the version of a project",
	Long: "gitbump replaces the current version with a new one in the configured files, " +
		"then commits, tags and pushes the change, running the configured hooks around it.",
	Args:          cobra.ExactArgs(1),
	RunE:          bumpRunE,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagCwd, "cwd", "C", ".", "project directory")
	pf.StringVarP(&flagConfig, "config", "c", "", "path to a gitbump.yml config file (default: auto-detect)")
	pf.StringVarP(&flagOutput, "output", "o", "", "output format: text or json")
	pf.StringVarP(&flagVerbosity, "verbosity", "v", "info", "log verbosity: quiet, info, debug")

	f := rootCmd.Flags()
	f.BoolVar(&flagNonInteractive, "non-interactive", false, "never prompt for confirmation")
	f.BoolVar(&flagDryRun, "dry-run", false, "only display the changes that would be made")
	f.StringVar(&flagTagMessage, "tag-message", "", "message of the annotated tag (default: the tag name)")
	f.BoolVar(&flagOnlyPatch, "only-patch", false, "only patch files, skipping git operations and hooks")
	f.BoolVar(&flagNoTag, "no-tag", false, "do not create a tag")
	f.BoolVar(&flagNoPush, "no-push", false, "do not push the commit or the tag")
	f.BoolVar(&flagNoTagPush, "no-tag-push", false, "create a tag but do not push it")
	f.BoolVar(&flagGitHubRelease, "github-release", false, "create a GitHub release for the pushed tag")
	f.StringVar(&flagGitHubToken, "github-token", "", "GitHub token (default: GITHUB_TOKEN)")
	f.Int64Var(&flagGitHubAppID, "github-app-id", 0, "GitHub App ID (default: GH_APP_ID)")
	f.StringVar(&flagGitHubAppKey, "github-app-key", "", "GitHub App private key file (default: GH_APP_PRIVATE_KEY)")
}

// exitError ends the process with a status code. Whatever explains it has
// already been printed.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func bumpRunE(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(flagVerbosity, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if err := checkOutputFormat(); err != nil {
		return err
	}

	// JSON goes to stdout, so progress moves to stderr.
	progress := cmd.OutOrStdout()
	if flagOutput == "json" {
		progress = cmd.ErrOrStderr()
	}

	opts := gitbump.Options{
		Dir:           flagCwd,
		ConfigPath:    flagConfig,
		NewVersion:    args[0],
		DryRun:        flagDryRun,
		Interactive:   !flagNonInteractive,
		TagMessage:    flagTagMessage,
		GitHubRelease: flagGitHubRelease,
		GitHub: gitbump.GitHubAuth{
			Token:      flagGitHubToken,
			AppID:      flagGitHubAppID,
			AppKeyPath: flagGitHubAppKey,
		},
		Stdout: progress,
		Stderr: cmd.ErrOrStderr(),
		Prompter: &output.HuhPrompter{
			In:         cmd.InOrStdin(),
			Out:        cmd.ErrOrStderr(),
			Accessible: !isTerminal(cmd.InOrStdin()),
		},
		Logger: logger,
	}
	ops := gitbump.OperationsFromFlags(gitbump.Flags{
		OnlyPatch: flagOnlyPatch,
		NoTag:     flagNoTag,
		NoPush:    flagNoPush,
		NoTagPush: flagNoTagPush,
	})

	res, err := gitbump.Bump(cmd.Context(), opts, ops)
	if err != nil {
		return err
	}
	if flagOutput == "json" {
		if err := output.WriteJSON(cmd.OutOrStdout(), res); err != nil {
			return err
		}
	}
	if res.GitStateError != nil {
		return &exitError{code: 1}
	}
	return nil
}

func checkOutputFormat() error {
	switch flagOutput {
	case "", "text", "json":
		return nil
	default:
		return fmt.Errorf("unknown output format %q", flagOutput)
	}
}

// newLogger maps the verbosity flag to a text logger on w.
func newLogger(verbosity string, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	switch verbosity {
	case "quiet":
		return slog.New(slog.DiscardHandler), nil
	case "info":
		level = slog.LevelInfo
	case "debug":
		level = slog.LevelDebug
	default:
		return nil, fmt.Errorf("unknown verbosity %q: use quiet, info or debug", verbosity)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
