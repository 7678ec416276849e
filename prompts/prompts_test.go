package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsAvailableWithoutLoad(t *testing.T) {
	store = nil

	sys := Get("autoissue_system")
	if !strings.Contains(sys, "%s") {
		t.Errorf("system template missing placeholder:\n%s", sys)
	}
	if !strings.Contains(Get("autoissue_user"), "TITLE: <title>") {
		t.Error("user template missing reply format instructions")
	}
}

func TestLoadMergesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	if err := os.WriteFile(path, []byte("autoissue_system: \"custom %s prompt\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Load(path); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	t.Cleanup(func() { store = nil })

	if got := Get("autoissue_system"); got != "custom %s prompt" {
		t.Errorf("override not applied, got %q", got)
	}
	if !strings.Contains(Get("autoissue_user"), "TITLE: <title>") {
		t.Error("unoverridden key lost its default")
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for explicitly named missing file")
	}
}

func TestMustGetUnknownKeyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustGet on unknown key should panic")
		}
	}()
	MustGet("no_such_prompt")
}
