package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/bento/internal/errors"
	"github.com/vango-dev/bento/pkg/box"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Surface.Width != DefaultWidth {
		t.Errorf("Surface.Width = %v, want %v", cfg.Surface.Width, DefaultWidth)
	}
	if !cfg.Surface.Separators {
		t.Error("Surface.Separators should default to true")
	}
	if cfg.Inspect.Port != DefaultPort {
		t.Errorf("Inspect.Port = %d, want %d", cfg.Inspect.Port, DefaultPort)
	}
	if cfg.Metrics.Namespace != DefaultNamespace || !cfg.Metrics.Enabled {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if !errors.HasCode(err, "E121") {
		t.Errorf("missing config: got %v, want E121", err)
	}

	configJSON := `{
  "surface": {
    "width": 320,
    "margins": {"left": 20, "right": 20},
    "separators": false
  },
  "inspect": {"port": 8080},
  "metrics": {"enabled": false},
  "log": {"level": "DEBUG"}
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Surface.Width != 320 {
		t.Errorf("Surface.Width = %v, want 320", cfg.Surface.Width)
	}
	if cfg.Surface.Separators {
		t.Error("Surface.Separators should be false")
	}
	if cfg.Surface.ContentScaleFactor != DefaultScale {
		t.Errorf("Surface.ContentScaleFactor = %v, want default %v", cfg.Surface.ContentScaleFactor, DefaultScale)
	}
	if cfg.Inspect.Port != 8080 || cfg.Inspect.Host != DefaultHost {
		t.Errorf("Inspect = %+v", cfg.Inspect)
	}
	if cfg.Metrics.Enabled || cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	if level, err := cfg.SlogLevel(); err != nil || level != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, %v", level, err)
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	// Write invalid JSON
	if err := os.WriteFile(configPath, []byte("not valid json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), "E120") {
		t.Errorf("Expected E120 error, got: %v", err)
	}
}

func TestZeroScaleMeansOne(t *testing.T) {
	tmpDir := t.TempDir()
	data := `{"surface": {"width": 100, "contentScaleFactor": 0, "separators": true}}`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.Geometry().SeparatorHeight(); got != 1 {
		t.Errorf("SeparatorHeight() = %v, want 1", got)
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	cfg.Inspect.Port = 9000
	cfg.Metrics.Enabled = false

	// Save should fail without configPath set
	if err := cfg.Save(); err == nil {
		t.Error("Expected error when saving without path")
	}

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	loaded, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Inspect.Port != 9000 {
		t.Errorf("Inspect.Port = %d, want 9000", loaded.Inspect.Port)
	}
	if loaded.Metrics.Enabled {
		t.Error("disabled metrics did not survive a save")
	}

	loaded.Surface.Width = 414
	if err := loaded.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	reloaded, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if reloaded.Surface.Width != 414 {
		t.Errorf("Surface.Width = %v, want 414", reloaded.Surface.Width)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative width", func(c *Config) { c.Surface.Width = -1 }},
		{"negative scale", func(c *Config) { c.Surface.ContentScaleFactor = -2 }},
		{"negative margin", func(c *Config) { c.Surface.Margins.Top = -4 }},
		{"margins wider than surface", func(c *Config) { c.Surface.Width = 30 }},
		{"negative port", func(c *Config) { c.Inspect.Port = -1 }},
		{"port too large", func(c *Config) { c.Inspect.Port = 70000 }},
		{"bad namespace", func(c *Config) { c.Metrics.Namespace = "my-app" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.HasCode(err, "E122") {
				t.Errorf("Validate() = %v, want E122", err)
			}
		})
	}
}

func TestGeometry(t *testing.T) {
	cfg := New()
	cfg.Surface.Margins = MarginsConfig{Top: 8, Left: 12, Bottom: 8, Right: 12}

	g := cfg.Geometry()
	if g.Width != DefaultWidth || g.ContentScaleFactor != DefaultScale || !g.Separators {
		t.Errorf("Geometry() = %+v", g)
	}
	if g.Margins != (box.Insets{Top: 8, Left: 12, Bottom: 8, Right: 12}) {
		t.Errorf("Margins = %+v", g.Margins)
	}
	if g.SeparatorHeight() != 0.5 {
		t.Errorf("SeparatorHeight() = %v, want 0.5", g.SeparatorHeight())
	}
}

func TestInspectAddress(t *testing.T) {
	cfg := New()
	cfg.Inspect.Host = "0.0.0.0"
	cfg.Inspect.Port = 8080

	if addr := cfg.InspectAddress(); addr != "0.0.0.0:8080" {
		t.Errorf("InspectAddress = %q, want %q", addr, "0.0.0.0:8080")
	}
}

func TestExists(t *testing.T) {
	tmpDir := t.TempDir()

	if Exists(tmpDir) {
		t.Error("Exists should be false for empty directory")
	}

	configPath := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(configPath, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	if !Exists(tmpDir) {
		t.Error("Exists should be true after creating config")
	}
}

func TestFindProjectRoot(t *testing.T) {
	tmpDir := t.TempDir()
	nestedDir := filepath.Join(tmpDir, "a", "b", "c")
	if err := os.MkdirAll(nestedDir, 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := FindProjectRoot(nestedDir); err == nil {
		t.Error("FindProjectRoot should fail when no config exists")
	}

	configPath := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(configPath, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, dir := range []string{nestedDir, filepath.Join(tmpDir, "a")} {
		root, err := FindProjectRoot(dir)
		if err != nil {
			t.Fatalf("FindProjectRoot error: %v", err)
		}
		if root != tmpDir {
			t.Errorf("FindProjectRoot(%q) = %q, want %q", dir, root, tmpDir)
		}
	}
}

func TestLoadFromWorkingDir(t *testing.T) {
	tmpDir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := LoadFromWorkingDir()
	if err != nil {
		t.Fatalf("LoadFromWorkingDir() without bento.json: %v", err)
	}
	if cfg.Path() != "" || cfg.Surface.Width != DefaultWidth {
		t.Errorf("expected defaults, got %+v from %q", cfg, cfg.Path())
	}

	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(`{"log": {"level": "warn"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadFromWorkingDir()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
}
