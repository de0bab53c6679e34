package config

import (
	"os"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

// setup points HOME at a temp dir and resets viper's global state.
func setup(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	viper.Reset()
	t.Cleanup(viper.Reset)
	Load()
}

func TestSetGetRoundTrip(t *testing.T) {
	setup(t)

	if err := Set(KeyRemote, "upstream"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := Get(KeyRemote); got != "upstream" {
		t.Errorf("Get(remote) = %q, want upstream", got)
	}
	if _, err := os.Stat(FilePath()); err != nil {
		t.Errorf("config file not written: %v", err)
	}

	// A fresh load must see the persisted value.
	viper.Reset()
	Load()
	if got := Get(KeyRemote); got != "upstream" {
		t.Errorf("Get(remote) after reload = %q, want upstream", got)
	}
}

func TestSetRejectsUnknownKey(t *testing.T) {
	setup(t)

	err := Set("remotee", "origin")
	if err == nil {
		t.Fatal("expected error for unknown key, got nil")
	}
	if !strings.Contains(err.Error(), "unknown config key") {
		t.Errorf("err = %v, want unknown-key error", err)
	}
}

func TestDefaults(t *testing.T) {
	setup(t)

	if got := Remote(); got != "origin" {
		t.Errorf("Remote() = %q, want origin", got)
	}
	if got := BumpLevel(); got != "patch" {
		t.Errorf("BumpLevel() = %q, want patch", got)
	}
	if !UpdateCheckEnabled() {
		t.Error("UpdateCheckEnabled() = false, want true by default")
	}

	if err := Set(KeyUpdateCheck, "false"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if UpdateCheckEnabled() {
		t.Error("UpdateCheckEnabled() = true after disabling")
	}
}

func TestEnvOverride(t *testing.T) {
	setup(t)
	t.Setenv("RETAG_REMOTE", "fork")
	t.Setenv("RETAG_BUMP_LEVEL", "major")
	viper.Reset()
	Load()

	if got := Remote(); got != "fork" {
		t.Errorf("Remote() = %q, want env override fork", got)
	}
	if got := BumpLevel(); got != "major" {
		t.Errorf("BumpLevel() = %q, want env override major", got)
	}
}

func TestKeysSortedAndDescribed(t *testing.T) {
	keys := Keys()
	if len(keys) != 3 {
		t.Fatalf("Keys() = %v, want 3 entries", keys)
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			t.Errorf("Keys() not sorted: %v", keys)
		}
	}
	for _, k := range keys {
		if Describe(k) == "" {
			t.Errorf("Describe(%q) empty", k)
		}
	}
}

func TestCheckFile(t *testing.T) {
	setup(t)

	exists, err := CheckFile()
	if err != nil || exists {
		t.Errorf("CheckFile() with no file = (%v, %v), want (false, nil)", exists, err)
	}

	if err := Set(KeyRemote, "upstream"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	exists, err = CheckFile()
	if err != nil || !exists {
		t.Errorf("CheckFile() with valid file = (%v, %v), want (true, nil)", exists, err)
	}

	if err := os.WriteFile(FilePath(), []byte("remote: [unclosed"), 0644); err != nil {
		t.Fatalf("corrupting config: %v", err)
	}
	exists, err = CheckFile()
	if !exists || err == nil {
		t.Errorf("CheckFile() with corrupt file = (%v, %v), want (true, error)", exists, err)
	}
}
