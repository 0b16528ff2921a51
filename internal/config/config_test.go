package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(&Config{}, cfg); diff != "" {
		t.Errorf("expected zero config (-want +got):\n%s", diff)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dnsweeper", "config.json")

	want := &Config{
		DNSProvider: "cloudflare",
		Concurrency: 10,
		Resolvers:   []string{"9.9.9.9", "1.1.1.1:53"},
		LogLevel:    "debug",
		LogFormat:   "json",
		NamingRules: "/tmp/rules.yaml",
	}
	if err := want.SaveTo(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deep")
	path := filepath.Join(dir, "config.json")

	cfg := &Config{DNSProvider: "porkbun"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file at %s: %v", path, err)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSave_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	first := &Config{DNSProvider: "cloudflare", Concurrency: 3}
	if err := first.SaveTo(path); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	second := &Config{DNSProvider: "porkbun"}
	if err := second.SaveTo(path); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(second, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestPath_Override(t *testing.T) {
	SetPath("/tmp/custom.json")
	t.Cleanup(ResetPath)

	got, err := Path()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/tmp/custom.json" {
		t.Errorf("Path() = %q, want override", got)
	}
}

func TestPath_Env(t *testing.T) {
	t.Setenv(EnvPath, "/tmp/from-env.json")

	got, err := Path()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/tmp/from-env.json" {
		t.Errorf("Path() = %q, want env path", got)
	}

	SetPath("/tmp/custom.json")
	t.Cleanup(ResetPath)
	if got, _ := Path(); got != "/tmp/custom.json" {
		t.Errorf("Path() = %q, SetPath should win over the env", got)
	}
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	for _, cfg := range []*Config{{DNSProvider: "cloudflare"}, {Concurrency: 7}} {
		if err := cfg.SaveTo(path); err != nil {
			t.Fatalf("SaveTo: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "config.json" {
		t.Errorf("expected only config.json in %s, got %v", dir, entries)
	}
}
