//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retaglabs/retag/internal/git"
	"github.com/retaglabs/retag/internal/plan"
	"github.com/retaglabs/retag/internal/tag"
)

func TestRenameMovesTagLocallyAndOnRemote(t *testing.T) {
	r := newRepo(t)
	gitRun(t, r.Work, "tag", "v1.0.0")
	gitRun(t, r.Work, "push", "origin", "v1.0.0")
	target := tagTarget(t, r.Work, "v1.0.0")

	client := git.NewClient(r.Work)
	var trace bytes.Buffer
	opts := tag.Options{Old: "v1.0.0", New: "v1.0.0-beta"}
	if err := tag.Rename(context.Background(), client, &trace, opts); err != nil {
		t.Fatalf("Rename: %v\ntrace:\n%s", err, trace.String())
	}

	assertTags(t, r.Work, "v1.0.0-beta")
	assertTags(t, r.Remote, "v1.0.0-beta")
	if got := tagTarget(t, r.Work, "v1.0.0-beta"); got != target {
		t.Errorf("local v1.0.0-beta points at %s, want %s", got, target)
	}
	if got := tagTarget(t, r.Remote, "v1.0.0-beta"); got != target {
		t.Errorf("remote v1.0.0-beta points at %s, want %s", got, target)
	}

	// Every step's command must have been echoed before execution.
	for _, cmd := range []string{
		"git tag v1.0.0-beta v1.0.0",
		"git tag -d v1.0.0",
		"git push origin v1.0.0-beta",
		"git push --delete origin v1.0.0",
	} {
		if !strings.Contains(trace.String(), cmd) {
			t.Errorf("trace is missing %q:\n%s", cmd, trace.String())
		}
	}

	// Re-running the same rename fails: the old tag is gone.
	err := tag.Rename(context.Background(), client, &trace, opts)
	var notFound *tag.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("second Rename error = %v, want *tag.NotFoundError", err)
	}
	if notFound.Name != "v1.0.0" {
		t.Errorf("NotFoundError.Name = %q, want v1.0.0", notFound.Name)
	}
}

func TestRenameMissingOldTag(t *testing.T) {
	r := newRepo(t)
	gitRun(t, r.Work, "tag", "v2.0.0")
	gitRun(t, r.Work, "push", "origin", "v2.0.0")

	client := git.NewClient(r.Work)
	var trace bytes.Buffer
	err := tag.Rename(context.Background(), client, &trace, tag.Options{Old: "v1.0.0", New: "v1.1.0"})

	var notFound *tag.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Rename error = %v, want *tag.NotFoundError", err)
	}
	// No mutation: both tag sets untouched, nothing echoed.
	assertTags(t, r.Work, "v2.0.0")
	assertTags(t, r.Remote, "v2.0.0")
	if trace.Len() != 0 {
		t.Errorf("expected empty trace, got:\n%s", trace.String())
	}
}

func TestRenameExistingNewTag(t *testing.T) {
	r := newRepo(t)
	gitRun(t, r.Work, "tag", "v1.0.0")
	gitRun(t, r.Work, "tag", "v2.0.0")

	client := git.NewClient(r.Work)
	var trace bytes.Buffer
	err := tag.Rename(context.Background(), client, &trace, tag.Options{Old: "v1.0.0", New: "v2.0.0"})

	var exists *tag.ExistsError
	if !errors.As(err, &exists) {
		t.Fatalf("Rename error = %v, want *tag.ExistsError", err)
	}
	if exists.Name != "v2.0.0" {
		t.Errorf("ExistsError.Name = %q, want v2.0.0", exists.Name)
	}
	assertTags(t, r.Work, "v1.0.0", "v2.0.0")
}

func TestRenameSameName(t *testing.T) {
	r := newRepo(t)
	gitRun(t, r.Work, "tag", "v1.0.0")

	client := git.NewClient(r.Work)
	var trace bytes.Buffer
	err := tag.Rename(context.Background(), client, &trace, tag.Options{Old: "v1.0.0", New: "v1.0.0"})

	// The old name already exists, so the new-tag check rejects it.
	var exists *tag.ExistsError
	if !errors.As(err, &exists) {
		t.Fatalf("Rename error = %v, want *tag.ExistsError", err)
	}
	assertTags(t, r.Work, "v1.0.0")
}

func TestRenameNoRollbackOnPushFailure(t *testing.T) {
	r := newRepo(t)
	gitRun(t, r.Work, "tag", "v1.0.0")
	gitRun(t, r.Work, "push", "origin", "v1.0.0")

	// Break the remote so step 3 (push of the new tag) fails.
	gitRun(t, r.Work, "remote", "set-url", "origin", filepath.Join(t.TempDir(), "missing.git"))

	client := git.NewClient(r.Work)
	var trace bytes.Buffer
	err := tag.Rename(context.Background(), client, &trace, tag.Options{Old: "v1.0.0", New: "v1.0.0-beta"})

	var stepErr *plan.StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("Rename error = %v, want *plan.StepError", err)
	}
	if stepErr.Index != 2 {
		t.Errorf("StepError.Index = %d, want 2 (the push step)", stepErr.Index)
	}
	if stepErr.ExitCode == 0 {
		t.Error("StepError.ExitCode = 0, want the push's non-zero status")
	}

	// Steps 1 and 2 took effect and stayed: new tag local, old tag gone.
	// The remote never saw any of it.
	assertTags(t, r.Work, "v1.0.0-beta")
	assertTags(t, r.Remote, "v1.0.0")
}
