package release

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Pyproject is a parsed pyproject.toml held as a generic document so
// sections unrelated to the version survive a rewrite.
type Pyproject struct {
	Path string
	doc  map[string]any
}

// LoadPyproject reads and parses the pyproject.toml at path.
func LoadPyproject(path string) (*Pyproject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &Pyproject{Path: path, doc: doc}, nil
}

func (p *Pyproject) project() (map[string]any, error) {
	project, ok := p.doc["project"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("no [project] section in %s", p.Path)
	}
	return project, nil
}

// Version returns the [project] version field.
func (p *Pyproject) Version() (string, error) {
	project, err := p.project()
	if err != nil {
		return "", err
	}
	version, ok := project["version"].(string)
	if !ok || version == "" {
		return "", fmt.Errorf("no version in [project] section of %s", p.Path)
	}
	return version, nil
}

// SetVersion replaces the [project] version field.
func (p *Pyproject) SetVersion(version string) error {
	project, err := p.project()
	if err != nil {
		return err
	}
	project["version"] = version
	return nil
}

// Encode serializes the document back to TOML. Comments and formatting
// from the original file are not preserved.
func (p *Pyproject) Encode() ([]byte, error) {
	data, err := toml.Marshal(p.doc)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", p.Path, err)
	}
	return data, nil
}
