package git

import (
	"context"
	"strings"
)

// Client provides the repository-level git surface used by the commands.
type Client struct {
	// Dir is the repository directory. Empty means the current directory.
	Dir string
	// Runner can be set for testing; defaults to a capture-only ExecRunner.
	Runner Runner
}

// NewClient returns a Client operating on the repository at dir.
func NewClient(dir string) *Client {
	return &Client{Dir: dir}
}

// Run executes a raw git command in the client's directory. A non-zero
// exit is reported through the Result, not the error.
func (c *Client) Run(ctx context.Context, args ...string) (*Result, error) {
	runner := c.Runner
	if runner == nil {
		runner = &ExecRunner{}
	}
	return runner.Run(ctx, c.Dir, args...)
}

// runChecked runs a git command and converts a non-zero exit into a
// *CommandError.
func (c *Client) runChecked(ctx context.Context, args ...string) error {
	result, err := c.Run(ctx, args...)
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return &CommandError{Args: args, ExitCode: result.ExitCode, Stderr: result.Stderr}
	}
	return nil
}

// IsRepo reports whether the client's directory is inside a git work tree.
func (c *Client) IsRepo(ctx context.Context) bool {
	result, err := c.Run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && result.ExitCode == 0
}

// TagExists reports whether name exists as a local tag.
//
// It probes with `git show-ref --verify --quiet refs/tags/<name>`:
// exit 0 means the ref exists, exit 1 means it does not. Any other
// status is an error.
func (c *Client) TagExists(ctx context.Context, name string) (bool, error) {
	args := []string{"show-ref", "--verify", "--quiet", "refs/tags/" + name}
	result, err := c.Run(ctx, args...)
	if err != nil {
		return false, err
	}
	switch result.ExitCode {
	case 0:
		return true, nil
	case 1:
		return false, nil
	default:
		return false, &CommandError{Args: args, ExitCode: result.ExitCode, Stderr: result.Stderr}
	}
}

// ListTags returns the names of all local tags, in git's default order.
func (c *Client) ListTags(ctx context.Context) ([]string, error) {
	args := []string{"tag", "--list"}
	result, err := c.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		return nil, &CommandError{Args: args, ExitCode: result.ExitCode, Stderr: result.Stderr}
	}
	var tags []string
	for _, line := range strings.Split(result.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			tags = append(tags, line)
		}
	}
	return tags, nil
}

// TagTarget returns the commit id the named tag ultimately points at,
// following annotated tags to the commit.
func (c *Client) TagTarget(ctx context.Context, name string) (string, error) {
	args := []string{"rev-list", "-n", "1", name}
	result, err := c.Run(ctx, args...)
	if err != nil {
		return "", err
	}
	if result.ExitCode != 0 {
		return "", &CommandError{Args: args, ExitCode: result.ExitCode, Stderr: result.Stderr}
	}
	return strings.TrimSpace(result.Stdout), nil
}

// RemoteURL returns the URL configured for the named remote.
func (c *Client) RemoteURL(ctx context.Context, remote string) (string, error) {
	args := []string{"remote", "get-url", remote}
	result, err := c.Run(ctx, args...)
	if err != nil {
		return "", err
	}
	if result.ExitCode != 0 {
		return "", &CommandError{Args: args, ExitCode: result.ExitCode, Stderr: result.Stderr}
	}
	return strings.TrimSpace(result.Stdout), nil
}

// IsClean reports whether the work tree has no uncommitted changes and
// no untracked files.
func (c *Client) IsClean(ctx context.Context) (bool, error) {
	args := []string{"status", "--porcelain"}
	result, err := c.Run(ctx, args...)
	if err != nil {
		return false, err
	}
	if result.ExitCode != 0 {
		return false, &CommandError{Args: args, ExitCode: result.ExitCode, Stderr: result.Stderr}
	}
	return strings.TrimSpace(result.Stdout) == "", nil
}

// FetchTags fetches all tags from the named remote.
func (c *Client) FetchTags(ctx context.Context, remote string) error {
	return c.runChecked(ctx, "fetch", "--tags", remote)
}

// Add stages the given paths.
func (c *Client) Add(ctx context.Context, paths ...string) error {
	args := append([]string{"add", "--"}, paths...)
	return c.runChecked(ctx, args...)
}

// Commit records staged changes with the given message.
func (c *Client) Commit(ctx context.Context, message string) error {
	return c.runChecked(ctx, "commit", "-m", message)
}

// Push pushes the current branch to the named remote.
func (c *Client) Push(ctx context.Context, remote string) error {
	return c.runChecked(ctx, "push", remote)
}

// CreateTag creates a lightweight tag at HEAD.
func (c *Client) CreateTag(ctx context.Context, name string) error {
	return c.runChecked(ctx, "tag", name)
}

// PushTag pushes a single tag to the named remote.
func (c *Client) PushTag(ctx context.Context, remote, name string) error {
	return c.runChecked(ctx, "push", remote, name)
}
