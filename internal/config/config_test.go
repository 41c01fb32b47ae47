package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/framekit/internal/placement"
)

func TestParse(t *testing.T) {
	input := `
theme = dark
save_dir = /tmp/composites
canvas = portrait
fit = contain

[notify]
export = false
save = true
upload = true

[export]
dir = /tmp/exports

[storage]
endpoint = https://content.example.com/api
token = "secret-token"
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "dark" {
		t.Errorf("Expected theme 'dark', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/composites" {
		t.Errorf("Expected save_dir '/tmp/composites', got '%s'", cfg.SaveDir)
	}
	if cfg.Canvas != placement.CanvasPortrait {
		t.Errorf("Expected canvas portrait, got '%s'", cfg.Canvas)
	}
	if cfg.Fit != placement.FitContain {
		t.Errorf("Expected fit contain, got '%s'", cfg.Fit)
	}

	if cfg.Notify.Export {
		t.Error("Expected notify.export to be false")
	}
	if !cfg.Notify.Save {
		t.Error("Expected notify.save to be true")
	}
	if !cfg.Notify.Upload {
		t.Error("Expected notify.upload to be true")
	}

	if cfg.Export.Dir != "/tmp/exports" {
		t.Errorf("Expected export dir '/tmp/exports', got '%s'", cfg.Export.Dir)
	}
	if cfg.Storage.Endpoint != "https://content.example.com/api" {
		t.Errorf("Unexpected storage endpoint '%s'", cfg.Storage.Endpoint)
	}
	if cfg.Storage.Token != "secret-token" {
		t.Errorf("Expected quoted token to be unwrapped, got '%s'", cfg.Storage.Token)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Canvas != placement.CanvasSquare {
		t.Errorf("Expected default canvas square, got '%s'", cfg.Canvas)
	}
	if cfg.Fit != placement.FitCover {
		t.Errorf("Expected default fit cover, got '%s'", cfg.Fit)
	}
	if !cfg.Notify.Export {
		t.Error("Expected notify.export default true")
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	if _, err := Parse(strings.NewReader("canvas = widescreen\n")); err == nil {
		t.Error("Expected error for unknown canvas mode")
	}
	if _, err := Parse(strings.NewReader("fit = stretch\n")); err == nil {
		t.Error("Expected error for unknown fit mode")
	}
	if _, err := Parse(strings.NewReader("[notify]\nexport = maybe\n")); err == nil {
		t.Error("Expected error for invalid boolean")
	}
}

func TestParseIgnoresUnknownSections(t *testing.T) {
	cfg, err := Parse(strings.NewReader("[future]\nkey = value\n\ncanvas = story\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	// The canvas line is inside [future]; root keys before any section
	// would still apply, section keys must not leak.
	if cfg.Canvas != placement.CanvasSquare {
		t.Errorf("Section key leaked into root config: %s", cfg.Canvas)
	}
}

func TestStringRoundTrip(t *testing.T) {
	cfg := New()
	cfg.Theme = "dark"
	cfg.SaveDir = "/data/out"
	cfg.Canvas = placement.CanvasStory
	cfg.Notify.Save = true
	cfg.Export.Dir = "/data/zips"
	cfg.Storage.Endpoint = "https://cdn.example.com"

	parsed, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("Parse of String() failed: %v", err)
	}
	if *parsed != *cfg {
		t.Errorf("Round trip mismatch:\n got %+v\nwant %+v", parsed, cfg)
	}
}

func TestLoaderMissingFileReturnsDefaults(t *testing.T) {
	loader := NewLoader("release", filepath.Join(t.TempDir(), "nope.rc"))
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Canvas != placement.CanvasSquare {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoaderOverridePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "framekit.rc")
	if err := os.WriteFile(path, []byte("canvas = landscape\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader("release", path)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Canvas != placement.CanvasLandscape {
		t.Errorf("Expected canvas landscape, got '%s'", cfg.Canvas)
	}
}

func TestLoaderEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "env.rc")
	if err := os.WriteFile(path, []byte("fit = fill\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FRAMEKIT_CONFIG", path)

	loader := NewLoader("release", "")
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Fit != placement.FitFill {
		t.Errorf("Expected fit fill from env config, got '%s'", cfg.Fit)
	}
}
