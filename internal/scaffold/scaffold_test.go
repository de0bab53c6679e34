package scaffold

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/retaglabs/retag/internal/release"
)

func TestWriteReleaseConfig(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteReleaseConfig(dir, ReleaseData{Source: "packages", Level: "minor", Remote: "upstream"})
	if err != nil {
		t.Fatalf("WriteReleaseConfig: %v", err)
	}
	if path != filepath.Join(dir, release.DefaultConfigName) {
		t.Errorf("path = %q, want it under %q", path, dir)
	}

	// The generated file must pass the release config loader, schema
	// validation included.
	cfg, err := release.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig on generated file: %v", err)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0] != "packages" {
		t.Errorf("Sources = %v, want [packages]", cfg.Sources)
	}
	if cfg.Bump.Level != "minor" {
		t.Errorf("Bump.Level = %q, want minor", cfg.Bump.Level)
	}
	if cfg.Remote != "upstream" {
		t.Errorf("Remote = %q, want upstream", cfg.Remote)
	}
}

func TestWriteReleaseConfigDefaults(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteReleaseConfig(dir, ReleaseData{})
	if err != nil {
		t.Fatalf("WriteReleaseConfig: %v", err)
	}
	cfg, err := release.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig on generated file: %v", err)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0] != "." {
		t.Errorf("Sources = %v, want [.]", cfg.Sources)
	}
	if cfg.Bump.Level != "patch" {
		t.Errorf("Bump.Level = %q, want patch", cfg.Bump.Level)
	}
	if cfg.Remote != "origin" {
		t.Errorf("Remote = %q, want origin", cfg.Remote)
	}
}

func TestWriteReleaseConfigRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()

	if _, err := WriteReleaseConfig(dir, ReleaseData{}); err != nil {
		t.Fatalf("first WriteReleaseConfig: %v", err)
	}
	_, err := WriteReleaseConfig(dir, ReleaseData{})
	if err == nil {
		t.Fatal("expected error on second write, got nil")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("error = %q, want it to mention the existing file", err)
	}
}
