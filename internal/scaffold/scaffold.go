package scaffold

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/retaglabs/retag/internal/release"
)

// ReleaseData holds the template variables for a starter release.yaml.
type ReleaseData struct {
	Source string // first source directory, e.g. "."
	Level  string // default bump level
	Remote string // remote pushed to
}

var releaseTemplate = template.Must(template.New("release.yaml").Parse(
	`# Release configuration. Sources are directories searched for
# pyproject.toml files, or the files themselves.
sources:
  - {{.Source}}

bump:
  # Version component bumped by default: major, minor, or patch.
  level: {{.Level}}
  # Create and push the vX.Y.Z tag after bumping.
  tag: false
  # Fetch remote tags before planning the bump.
  fetch: false

# Remote pushed to.
remote: {{.Remote}}
`))

// WriteReleaseConfig renders a starter release.yaml into dir and
// returns its path. An existing file is never overwritten.
func WriteReleaseConfig(dir string, data ReleaseData) (string, error) {
	if data.Source == "" {
		data.Source = "."
	}
	if data.Level == "" {
		data.Level = "patch"
	}
	if data.Remote == "" {
		data.Remote = "origin"
	}

	path := filepath.Join(dir, release.DefaultConfigName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists; not overwriting", path)
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("checking %s: %w", path, err)
	}

	var buf bytes.Buffer
	if err := releaseTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", release.DefaultConfigName, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
