// Package release bumps pyproject.toml versions and writes the
// matching version tags.
//
// A bump runs in two phases. Plan discovers the target files, computes
// each one's next version, and snapshots every enclosing repository's
// tag set without touching anything. Apply then writes the edited
// documents back atomically and commits, pushes, and tags per
// repository. Keeping the phases separate is what makes dry runs and
// reporting cheap.
package release

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/retaglabs/retag/internal/git"
)

// Options configure a bump run.
type Options struct {
	Sources    []string
	Level      Level
	Root       string // base for report paths; empty means the current directory
	Remote     string // defaults to git.DefaultRemote when empty
	FetchTags  bool   // fetch remote tags before planning
	CreateTags bool   // create and push the new version tags
	DryRun     bool
	Verbose    bool
}

func (o Options) remote() string {
	if o.Remote == "" {
		return git.DefaultRemote
	}
	return o.Remote
}

// Result describes the planned bump for one target.
type Result struct {
	Target     Target
	Doc        *Pyproject
	OldVersion string
	NewVersion string

	// AllTags is the repository's local tag set at plan time (after the
	// fetch, when one was requested). FetchedTags are the names the
	// fetch brought in; Fetched records whether a fetch happened.
	AllTags     []string
	FetchedTags []string
	Fetched     bool
}

// RelPath returns the target's directory relative to root, for
// reporting. Targets outside root report their full path.
func (r *Result) RelPath(root string) string {
	rel, err := filepath.Rel(root, filepath.Dir(r.Target.Path))
	if err != nil || strings.HasPrefix(rel, "..") {
		return r.Target.Path
	}
	return rel
}

// OldTagExists reports whether the current version's tag is present in
// the repository's tag set.
func (r *Result) OldTagExists() bool { return r.hasTag(VersionTag(r.OldVersion)) }

// NewTagExists reports whether the next version's tag is already taken.
func (r *Result) NewTagExists() bool { return r.hasTag(VersionTag(r.NewVersion)) }

func (r *Result) hasTag(name string) bool {
	for _, t := range r.AllTags {
		if t == name {
			return true
		}
	}
	return false
}

// Bumper plans and applies version bumps.
type Bumper struct {
	// NewClient returns the git client for a repository directory.
	// Replaceable for testing; defaults to git.NewClient.
	NewClient func(dir string) *git.Client
	// Out receives report and progress lines; defaults to os.Stdout.
	Out io.Writer
}

func (b *Bumper) client(dir string) *git.Client {
	if b.NewClient != nil {
		return b.NewClient(dir)
	}
	return git.NewClient(dir)
}

func (b *Bumper) out() io.Writer {
	if b.Out != nil {
		return b.Out
	}
	return os.Stdout
}

// Plan discovers targets and computes each one's bump. Nothing is
// written; the only side effect is the optional tag fetch.
func (b *Bumper) Plan(ctx context.Context, opts Options) ([]*Result, error) {
	targets, err := Discover(opts.Sources)
	if err != nil {
		return nil, err
	}

	type repoTags struct {
		all     []string
		fetched []string
	}
	cache := map[string]*repoTags{}

	var results []*Result
	for _, target := range targets {
		doc, err := LoadPyproject(target.Path)
		if err != nil {
			return nil, err
		}
		oldVersion, err := doc.Version()
		if err != nil {
			return nil, err
		}
		newVersion, err := Bump(oldVersion, opts.Level)
		if err != nil {
			return nil, fmt.Errorf("bumping %s: %w", target.Path, err)
		}
		if err := doc.SetVersion(newVersion); err != nil {
			return nil, err
		}

		result := &Result{
			Target:     target,
			Doc:        doc,
			OldVersion: oldVersion,
			NewVersion: newVersion,
		}

		if target.RepoDir != "" {
			tags, ok := cache[target.RepoDir]
			if !ok {
				tags = &repoTags{}
				client := b.client(target.RepoDir)
				if opts.FetchTags {
					before, err := client.ListTags(ctx)
					if err != nil {
						return nil, fmt.Errorf("listing tags in %s: %w", target.RepoDir, err)
					}
					if err := client.FetchTags(ctx, opts.remote()); err != nil {
						return nil, fmt.Errorf("fetching tags in %s: %w", target.RepoDir, err)
					}
					after, err := client.ListTags(ctx)
					if err != nil {
						return nil, fmt.Errorf("listing tags in %s: %w", target.RepoDir, err)
					}
					tags.all = after
					tags.fetched = diffTags(before, after)
				} else {
					all, err := client.ListTags(ctx)
					if err != nil {
						return nil, fmt.Errorf("listing tags in %s: %w", target.RepoDir, err)
					}
					tags.all = all
				}
				cache[target.RepoDir] = tags
			}
			result.AllTags = tags.all
			result.FetchedTags = tags.fetched
			result.Fetched = opts.FetchTags
		}

		results = append(results, result)
	}
	return results, nil
}

// Report writes one summary line per target, plus the fetched-tag
// delta when a fetch ran.
func (b *Bumper) Report(results []*Result, opts Options) {
	root := opts.Root
	if root == "" {
		root = "."
	}
	fmt.Fprintf(b.out(), "Bumping %s version in %s\n", opts.Level, strings.Join(opts.Sources, " "))
	for _, r := range results {
		oldTag := VersionTag(r.OldVersion)
		oldNote := oldTag + " untagged"
		if r.OldTagExists() {
			oldNote = oldTag + " tagged"
		}
		newNote := "will create " + VersionTag(r.NewVersion)
		if r.NewTagExists() {
			newNote = VersionTag(r.NewVersion) + " already exists"
		}
		fmt.Fprintf(b.out(), "  %s: %s -> %s (%s, %s)\n",
			r.RelPath(root), r.OldVersion, r.NewVersion, oldNote, newNote)
		if r.Fetched {
			if len(r.FetchedTags) > 0 {
				fmt.Fprintf(b.out(), "    fetched tags: %s\n", strings.Join(r.FetchedTags, ", "))
			} else {
				fmt.Fprintf(b.out(), "    fetched tags: none\n")
			}
		}
	}
}

// Apply writes the bumped documents back, then commits and pushes each
// repository's change. Writes are atomic across all targets: every
// document is staged to a .tmp sibling first, and no original is
// replaced unless all staging writes succeeded.
func (b *Bumper) Apply(ctx context.Context, results []*Result, opts Options) error {
	checked := map[string]bool{}
	for _, r := range results {
		dir := r.Target.RepoDir
		if dir == "" || checked[dir] {
			continue
		}
		checked[dir] = true
		clean, err := b.client(dir).IsClean(ctx)
		if err != nil {
			return fmt.Errorf("checking repository %s: %w", dir, err)
		}
		if !clean {
			return fmt.Errorf("repository %s has uncommitted changes", dir)
		}
	}

	type stagedWrite struct {
		tmp   string
		final string
	}
	var staged []stagedWrite
	removeStaged := func(from int) {
		for _, s := range staged[from:] {
			_ = os.Remove(s.tmp)
		}
	}

	for _, r := range results {
		data, err := r.Doc.Encode()
		if err != nil {
			removeStaged(0)
			return err
		}
		tmp := r.Target.Path + ".tmp"
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			removeStaged(0)
			return fmt.Errorf("writing %s: %w", tmp, err)
		}
		staged = append(staged, stagedWrite{tmp: tmp, final: r.Target.Path})
	}

	for i, s := range staged {
		if err := os.Rename(s.tmp, s.final); err != nil {
			removeStaged(i)
			return fmt.Errorf("replacing %s: %w", s.final, err)
		}
	}

	for _, r := range results {
		dir := r.Target.RepoDir
		if dir == "" {
			continue
		}
		client := b.client(dir)
		path, err := filepath.Abs(r.Target.Path)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", r.Target.Path, err)
		}
		if err := client.Add(ctx, path); err != nil {
			return fmt.Errorf("staging %s: %w", r.Target.Path, err)
		}
		if err := client.Commit(ctx, "Bump version to "+VersionTag(r.NewVersion)); err != nil {
			return fmt.Errorf("committing in %s: %w", dir, err)
		}
		if err := client.Push(ctx, opts.remote()); err != nil {
			return fmt.Errorf("pushing %s: %w", dir, err)
		}
	}
	return nil
}

// WriteTags creates and pushes the new version tag for every result in
// a repository, skipping tags that already exist.
func (b *Bumper) WriteTags(ctx context.Context, results []*Result, opts Options) error {
	for _, r := range results {
		dir := r.Target.RepoDir
		if dir == "" {
			continue
		}
		name := VersionTag(r.NewVersion)
		client := b.client(dir)

		exists, err := client.TagExists(ctx, name)
		if err != nil {
			return fmt.Errorf("checking tag %q in %s: %w", name, dir, err)
		}
		if exists {
			continue
		}
		if err := client.CreateTag(ctx, name); err != nil {
			return fmt.Errorf("creating tag %q in %s: %w", name, dir, err)
		}
		if err := client.PushTag(ctx, opts.remote(), name); err != nil {
			return fmt.Errorf("pushing tag %q from %s: %w", name, dir, err)
		}
	}
	return nil
}

// diffTags returns the names present in after but not before, sorted.
func diffTags(before, after []string) []string {
	seen := make(map[string]bool, len(before))
	for _, t := range before {
		seen[t] = true
	}
	var fresh []string
	for _, t := range after {
		if !seen[t] {
			fresh = append(fresh, t)
		}
	}
	sort.Strings(fresh)
	return fresh
}
