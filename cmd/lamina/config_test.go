package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseConfig(t *testing.T) {
	data := []byte("prompt: \"lamina> \"\nprelude:\n  - setup.lam\n  - util.lam\n")
	cfg, err := parseConfig(data)
	if err != nil {
		t.Fatalf("parseConfig failed: %v", err)
	}

	want := &Config{Prompt: "lamina> ", Prelude: []string{"setup.lam", "util.lam"}}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConfigDefaultsPrompt(t *testing.T) {
	cfg, err := parseConfig([]byte("prelude: []\n"))
	if err != nil {
		t.Fatalf("parseConfig failed: %v", err)
	}
	if cfg.Prompt != "> " {
		t.Errorf("prompt = %q, want %q", cfg.Prompt, "> ")
	}
}

func TestParseConfigRejectsMalformedYAML(t *testing.T) {
	if _, err := parseConfig([]byte("prompt: [unclosed")); err == nil {
		t.Error("parseConfig accepted malformed YAML")
	}
}

func TestLoadConfigMissingDefaultIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(prev) }()

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed with no default file: %v", err)
	}
	if cfg.Prompt != "> " {
		t.Errorf("prompt = %q, want default", cfg.Prompt)
	}
}

func TestLoadConfigMissingExplicitFileIsAnError(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("loadConfig accepted a missing explicit config file")
	}
}
