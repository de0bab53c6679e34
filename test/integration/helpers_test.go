//go:build integration

package integration_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// requireGit skips the test when git is not installed.
func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}
}

// gitRun runs git in dir and fails the test on a non-zero exit.
// Returns trimmed combined output.
func gitRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=retag-test",
		"GIT_AUTHOR_EMAIL=retag@test.invalid",
		"GIT_COMMITTER_NAME=retag-test",
		"GIT_COMMITTER_EMAIL=retag@test.invalid",
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s in %s: %v\n%s", strings.Join(args, " "), dir, err, out)
	}
	return strings.TrimSpace(string(out))
}

// repo is a throwaway work tree wired to a local bare remote named origin.
type repo struct {
	Work   string
	Remote string // bare repository backing origin
}

// newRepo creates a work tree with one commit, a bare remote, and the
// initial branch pushed with upstream tracking.
func newRepo(t *testing.T) *repo {
	t.Helper()
	requireGit(t)

	work := t.TempDir()
	remote := t.TempDir()

	gitRun(t, remote, "init", "--bare")
	gitRun(t, work, "init")
	gitRun(t, work, "config", "user.name", "retag-test")
	gitRun(t, work, "config", "user.email", "retag@test.invalid")

	writeFile(t, filepath.Join(work, "README.md"), "# fixture\n")
	gitRun(t, work, "add", ".")
	gitRun(t, work, "commit", "-m", "initial commit")
	gitRun(t, work, "remote", "add", "origin", remote)
	gitRun(t, work, "push", "-u", "origin", "HEAD")

	return &repo{Work: work, Remote: remote}
}

// commitFile writes a file in the work tree and commits it.
func (r *repo) commitFile(t *testing.T, name, content, message string) {
	t.Helper()
	writeFile(t, filepath.Join(r.Work, name), content)
	gitRun(t, r.Work, "add", name)
	gitRun(t, r.Work, "commit", "-m", message)
}

// tags lists the tag names in dir, which may be a work tree or a bare
// repository.
func tags(t *testing.T, dir string) []string {
	t.Helper()
	out := gitRun(t, dir, "tag", "--list")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// tagTarget resolves the commit a tag points at.
func tagTarget(t *testing.T, dir, name string) string {
	t.Helper()
	return gitRun(t, dir, "rev-list", "-n", "1", name)
}

func hasTag(list []string, name string) bool {
	for _, tag := range list {
		if tag == name {
			return true
		}
	}
	return false
}

// assertTags fails unless dir's tag set is exactly want.
func assertTags(t *testing.T, dir string, want ...string) {
	t.Helper()
	got := tags(t, dir)
	if len(got) != len(want) {
		t.Errorf("tags in %s = %v, want %v", dir, got, want)
		return
	}
	for _, name := range want {
		if !hasTag(got, name) {
			t.Errorf("tags in %s = %v, want %v", dir, got, want)
			return
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
