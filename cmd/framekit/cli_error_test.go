package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/example/framekit/internal/config"
)

func testRoot() *root {
	return &root{program: "framekit", config: config.New()}
}

func TestParseComposeRequiresPhoto(t *testing.T) {
	_, err := parseComposeCmd([]string{"-frame", "frame.png"}, testRoot())
	if err == nil {
		t.Fatalf("expected error")
	}
	var ue *UsageError
	if !errors.As(err, &ue) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestComposeUnknownCanvasMode(t *testing.T) {
	cmd, err := parseComposeCmd([]string{"-photo", "p.png", "-canvas", "widescreen"}, testRoot())
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	_, err = cmd.placementConfig()
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := `unknown canvas mode "widescreen"`; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestComposeUnknownFitMode(t *testing.T) {
	cmd, err := parseComposeCmd([]string{"-photo", "p.png", "-fit", "stretch"}, testRoot())
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	_, err = cmd.placementConfig()
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := `unknown fit mode "stretch"`; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestComposeCropFlagDetection(t *testing.T) {
	cmd, err := parseComposeCmd([]string{"-photo", "p.png", "-crop-size", "80"}, testRoot())
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if !cmd.cropped {
		t.Fatalf("expected crop flags to select cropped composition")
	}

	cmd, err = parseComposeCmd([]string{"-photo", "p.png", "-frame-scale", "1.2"}, testRoot())
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if cmd.cropped {
		t.Fatalf("expected fit composition when no crop flags are given")
	}
}

func TestParseBatchRequiresFrameAndPhotos(t *testing.T) {
	var ue *UsageError
	if _, err := parseBatchCmd([]string{"a.png", "b.png"}, testRoot()); !errors.As(err, &ue) {
		t.Fatalf("expected usage error without -frame, got %v", err)
	}
	if _, err := parseBatchCmd([]string{"-frame", "frame.png"}, testRoot()); !errors.As(err, &ue) {
		t.Fatalf("expected usage error without photos, got %v", err)
	}
}

func TestBatchMissingPlacementsFile(t *testing.T) {
	cmd, err := parseBatchCmd([]string{"-frame", "frame.png", "-placements", "does-not-exist.place", "a.png"}, testRoot())
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	_, err = cmd.buildJob()
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "read placements"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseStudioRequiresInput(t *testing.T) {
	_, err := parseStudioCmd(nil, testRoot())
	if err == nil {
		t.Fatalf("expected error")
	}
	var ue *UsageError
	if !errors.As(err, &ue) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestParseGalleryRejectsUploadAndDelete(t *testing.T) {
	_, err := parseGalleryCmd([]string{"-upload", "a.png", "-delete", "https://example.com/a.png"}, testRoot())
	if err == nil {
		t.Fatalf("expected error")
	}
	var ue *UsageError
	if !errors.As(err, &ue) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestGalleryRequiresEndpoint(t *testing.T) {
	g := &galleryCmd{root: testRoot()}
	if _, err := g.client(); err == nil {
		t.Fatalf("expected error")
	} else if want := "endpoint configured"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestConfigUnknownSubcommand(t *testing.T) {
	cmd, err := parseConfigCmd([]string{"bogus"}, testRoot())
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := cmd.Run(); err == nil {
		t.Fatalf("expected error")
	} else if want := "unknown config command"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestUsageErrorRendersTemplate(t *testing.T) {
	r := testRoot()
	cmd, err := parseBatchCmd(nil, r)
	if cmd != nil || err == nil {
		t.Fatalf("expected usage error, got cmd=%v err=%v", cmd, err)
	}
	msg := err.Error()
	for _, want := range []string{"Usage:", "framekit", "-frame"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected rendered usage to contain %q, got:\n%s", want, msg)
		}
	}
}
