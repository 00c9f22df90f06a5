package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Animation.DurationMS != 330 {
		t.Errorf("expected default duration 330, got %d", cfg.Animation.DurationMS)
	}
	if cfg.Duration() != 330*time.Millisecond {
		t.Errorf("expected 330ms, got %v", cfg.Duration())
	}
	if cfg.UI.Theme != "auto" {
		t.Errorf("expected theme 'auto', got %q", cfg.UI.Theme)
	}
	if !cfg.List.Mouse || !cfg.Source.Watch {
		t.Error("expected mouse and watch enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.Animation.FPS != DefaultFPS {
		t.Errorf("expected default config, got fps %d", cfg.Animation.FPS)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
animation:
  duration_ms: 500
  fps: 60
list:
  gap: 1
  mouse: false
  wrap: true
source:
  paths:
    - ~/rows.jsonl
    - /abs/rows.db
  table: items
ui:
  theme: dark
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Animation.DurationMS != 500 || cfg.Animation.FPS != 60 {
		t.Errorf("unexpected animation %+v", cfg.Animation)
	}
	if cfg.FrameInterval() != time.Second/60 {
		t.Errorf("unexpected frame interval %v", cfg.FrameInterval())
	}
	if cfg.List.Gap != 1 || cfg.List.Mouse || !cfg.List.Wrap {
		t.Errorf("unexpected list %+v", cfg.List)
	}
	if cfg.Source.Table != "items" {
		t.Errorf("expected table 'items', got %q", cfg.Source.Table)
	}
	if len(cfg.Source.Paths) != 2 || strings.HasPrefix(cfg.Source.Paths[0], "~") {
		t.Errorf("expected expanded paths, got %v", cfg.Source.Paths)
	}
	if !cfg.Source.Watch {
		t.Error("unset keys should keep their defaults")
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("expected theme 'dark', got %q", cfg.UI.Theme)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFrom_OutOfRange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := "animation:\n  duration_ms: -5\n  fps: 500\nui:\n  theme: neon\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"duration_ms", "fps", "theme"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in error: %v", want, err)
		}
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Animation.DurationMS = 0
	cfg.List.Gap = 2
	cfg.Source.Paths = []string{"/data/rows.yaml"}
	cfg.UI.Theme = "light"

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load after save failed: %v", err)
	}

	if loaded.Animation.DurationMS != 0 {
		t.Errorf("expected duration 0 to survive, got %d", loaded.Animation.DurationMS)
	}
	if loaded.List.Gap != 2 {
		t.Errorf("expected gap 2, got %d", loaded.List.Gap)
	}
	if len(loaded.Source.Paths) != 1 || loaded.Source.Paths[0] != "/data/rows.yaml" {
		t.Errorf("unexpected paths %v", loaded.Source.Paths)
	}
	if loaded.UI.Theme != "light" {
		t.Errorf("expected 'light', got %q", loaded.UI.Theme)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	t.Setenv("ACCORDION_DURATION_MS", "120")
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Animation.DurationMS != 120 {
		t.Errorf("expected 120, got %d", cfg.Animation.DurationMS)
	}

	t.Setenv("ACCORDION_DURATION_MS", "fast")
	if err := cfg.ApplyEnv(); err == nil {
		t.Error("expected error for non-numeric duration")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home dir")
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"~/foo", filepath.Join(home, "foo")},
		{"~/", filepath.Join(home, "")},
		{"/absolute", "/absolute"},
		{"relative", "relative"},
	}

	for _, tt := range tests {
		got := expandHome(tt.input)
		if got != tt.expected {
			t.Errorf("expandHome(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestConfigDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if got, expected := ConfigDir(), filepath.Join(dir, "accordion"); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
	if got, expected := ConfigPath(), filepath.Join(dir, "accordion", "config.yaml"); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestWizardAnswersApply(t *testing.T) {
	a := answersFrom(DefaultConfig())
	if a.Duration != "330" {
		t.Errorf("expected prefilled duration, got %q", a.Duration)
	}

	a.Duration = " 200 "
	a.FPS = 60
	a.Theme = "dark"
	a.Sources = "a.jsonl, , b.db"
	cfg, err := a.Apply(DefaultConfig())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.Animation.DurationMS != 200 || cfg.Animation.FPS != 60 {
		t.Errorf("unexpected animation %+v", cfg.Animation)
	}
	if len(cfg.Source.Paths) != 2 || cfg.Source.Paths[1] != "b.db" {
		t.Errorf("unexpected sources %v", cfg.Source.Paths)
	}

	a.Duration = "-1"
	if _, err := a.Apply(DefaultConfig()); err == nil {
		t.Error("expected validation error")
	}
	if validateDuration("abc") == nil {
		t.Error("expected non-numeric duration rejected")
	}
}
