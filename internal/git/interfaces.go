package git

// Repository provides the read-only queries a bump checks before it mutates
// anything. It is the abstraction point for testing; mutations go through
// the git binary via CommandRunner.
type Repository interface {
	// Path returns the path to the .git directory.
	Path() string

	// WorkingDirectory returns the path to the working directory.
	WorkingDirectory() string

	// Status returns every changed or untracked path in the working tree.
	Status() ([]StatusEntry, error)

	// IsHeadDetached returns true if HEAD is not pointing to a branch.
	IsHeadDetached() bool

	// CurrentBranch returns the short name of the checked out branch.
	CurrentBranch() (string, error)

	// Upstream returns the tracking configuration of a local branch. The
	// boolean is false when the branch tracks nothing.
	Upstream(branch string) (Upstream, bool, error)

	// RefExists reports whether name resolves to a ref the way
	// git rev-parse looks it up: as given, then under refs/, refs/tags/,
	// refs/heads/ and refs/remotes/.
	RefExists(name string) (bool, error)
}
