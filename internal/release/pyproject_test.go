package release

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

const samplePyproject = `[project]
name = "to-3mf"
version = "1.2.3"
dependencies = ["numpy"]

[tool.pytest.ini_options]
testpaths = ["tests"]

[build-system]
requires = ["setuptools"]
`

// writePyproject writes content to dir/pyproject.toml and returns the path.
func writePyproject(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "pyproject.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing pyproject: %v", err)
	}
	return path
}

func TestLoadPyprojectVersion(t *testing.T) {
	path := writePyproject(t, t.TempDir(), samplePyproject)

	doc, err := LoadPyproject(path)
	if err != nil {
		t.Fatalf("LoadPyproject: %v", err)
	}
	version, err := doc.Version()
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if version != "1.2.3" {
		t.Errorf("version = %q, want 1.2.3", version)
	}
}

func TestSetVersionPreservesOtherSections(t *testing.T) {
	path := writePyproject(t, t.TempDir(), samplePyproject)

	doc, err := LoadPyproject(path)
	if err != nil {
		t.Fatalf("LoadPyproject: %v", err)
	}
	if err := doc.SetVersion("1.3.0"); err != nil {
		t.Fatalf("SetVersion: %v", err)
	}
	data, err := doc.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var reread map[string]any
	if err := toml.Unmarshal(data, &reread); err != nil {
		t.Fatalf("re-parsing encoded TOML: %v", err)
	}
	project, ok := reread["project"].(map[string]any)
	if !ok {
		t.Fatalf("encoded TOML lost [project]: %s", data)
	}
	if project["version"] != "1.3.0" {
		t.Errorf("encoded version = %v, want 1.3.0", project["version"])
	}
	if project["name"] != "to-3mf" {
		t.Errorf("encoded name = %v, want to-3mf", project["name"])
	}
	if _, ok := reread["build-system"]; !ok {
		t.Error("encoded TOML lost [build-system]")
	}
	if _, ok := reread["tool"]; !ok {
		t.Error("encoded TOML lost [tool] tables")
	}
}

func TestVersionErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "no project section",
			content: "[build-system]\nrequires = [\"setuptools\"]\n",
			wantMsg: "no [project] section",
		},
		{
			name:    "no version",
			content: "[project]\nname = \"x\"\n",
			wantMsg: "no version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePyproject(t, t.TempDir(), tt.content)
			doc, err := LoadPyproject(path)
			if err != nil {
				t.Fatalf("LoadPyproject: %v", err)
			}
			_, err = doc.Version()
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Version() error = %v, want containing %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadPyprojectBadTOML(t *testing.T) {
	path := writePyproject(t, t.TempDir(), "[project\nversion=")
	if _, err := LoadPyproject(path); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}
