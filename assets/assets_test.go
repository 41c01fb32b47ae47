package assets

import (
	"bytes"
	"image/png"
	"testing"
)

func TestDemoFrameHasTransparentWindow(t *testing.T) {
	img, err := DemoFrame()
	if err != nil {
		t.Fatalf("DemoFrame: %v", err)
	}
	if got := img.Bounds().Dx(); got != 1080 {
		t.Fatalf("expected 1080px frame, got %d", got)
	}
	if _, _, _, a := img.At(540, 540).RGBA(); a != 0 {
		t.Fatalf("expected transparent center, alpha=%d", a)
	}
	if _, _, _, a := img.At(5, 5).RGBA(); a == 0 {
		t.Fatalf("expected opaque border")
	}
}

func TestDemoFramePNGDecodes(t *testing.T) {
	data, err := DemoFramePNG()
	if err != nil {
		t.Fatalf("DemoFramePNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 1080 {
		t.Fatalf("unexpected size %v", img.Bounds())
	}
}
