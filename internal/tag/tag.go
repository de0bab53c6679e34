// Package tag implements the safe tag rename operation.
//
// A rename moves a tag name locally and on one remote. All
// preconditions are validated before any mutation; the mutation itself
// is an ordered, fail-fast plan of four git commands. There is no
// automatic rollback: if a later step fails, earlier steps' effects
// persist and the operator resumes by hand from the echoed commands.
// Rolling back a partially-pushed tag automatically risks compounding
// the error, e.g. deleting a tag another clone just fetched.
package tag

import (
	"context"
	"fmt"
	"io"

	"github.com/retaglabs/retag/internal/git"
	"github.com/retaglabs/retag/internal/plan"
)

// Options configure a rename.
type Options struct {
	Old    string
	New    string
	Remote string // defaults to git.DefaultRemote when empty
}

// NotFoundError reports that the tag to rename does not exist locally.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tag %q not found locally", e.Name)
}

// ExistsError reports that the destination tag already exists locally.
type ExistsError struct {
	Name string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("tag %q already exists locally", e.Name)
}

// Steps returns the ordered git commands that realize the rename:
// create the new tag at the old tag's target, delete the old tag
// locally, push the new tag, delete the old tag from the remote.
func Steps(opts Options) []plan.Step {
	remote := opts.Remote
	if remote == "" {
		remote = git.DefaultRemote
	}
	return []plan.Step{
		{
			Desc: fmt.Sprintf("create tag %s at %s", opts.New, opts.Old),
			Args: []string{"tag", opts.New, opts.Old},
		},
		{
			Desc: fmt.Sprintf("delete local tag %s", opts.Old),
			Args: []string{"tag", "-d", opts.Old},
		},
		{
			Desc: fmt.Sprintf("push tag %s to %s", opts.New, remote),
			Args: []string{"push", remote, opts.New},
		},
		{
			Desc: fmt.Sprintf("delete tag %s from %s", opts.Old, remote),
			Args: []string{"push", "--delete", remote, opts.Old},
		},
	}
}

// Rename renames opts.Old to opts.New locally and on opts.Remote.
//
// Preconditions, checked before any mutation: the old tag must exist
// locally, and the new tag must not. On success every step has run and
// nil is returned. On a step failure the returned error is a
// *plan.StepError carrying the failed command's own exit status.
func Rename(ctx context.Context, client *git.Client, out io.Writer, opts Options) error {
	oldExists, err := client.TagExists(ctx, opts.Old)
	if err != nil {
		return fmt.Errorf("checking tag %q: %w", opts.Old, err)
	}
	if !oldExists {
		return &NotFoundError{Name: opts.Old}
	}

	newExists, err := client.TagExists(ctx, opts.New)
	if err != nil {
		return fmt.Errorf("checking tag %q: %w", opts.New, err)
	}
	if newExists {
		return &ExistsError{Name: opts.New}
	}

	return plan.Run(ctx, client, out, Steps(opts))
}
