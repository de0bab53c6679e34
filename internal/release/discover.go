package release

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Target is one pyproject.toml to bump, together with the git
// repository, if any, whose tags and history cover it.
type Target struct {
	Path    string // path to the pyproject.toml
	RepoDir string // nearest enclosing git repository; empty if none
}

// Discover expands sources into bump targets. A source may be a
// pyproject.toml file or a directory searched recursively. A directory
// source containing no pyproject.toml at all is an error.
func Discover(sources []string) ([]Target, error) {
	var targets []Target
	for _, source := range sources {
		info, err := os.Stat(source)
		if err != nil {
			return nil, fmt.Errorf("reading source %s: %w", source, err)
		}

		if !info.IsDir() {
			targets = append(targets, Target{Path: source, RepoDir: findRepo(filepath.Dir(source))})
			continue
		}

		found := 0
		err = filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == ".git" {
					return fs.SkipDir
				}
				return nil
			}
			if d.Name() != "pyproject.toml" {
				return nil
			}
			targets = append(targets, Target{Path: path, RepoDir: findRepo(filepath.Dir(path))})
			found++
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("searching %s: %w", source, err)
		}
		if found == 0 {
			return nil, fmt.Errorf("no pyproject.toml found in %s", source)
		}
	}
	return targets, nil
}

// findRepo walks up from dir looking for a .git entry.
func findRepo(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
