// Package imgio decodes photo and frame sources into RGBA rasters and
// writes composited output.
package imgio

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // register JPEG for image.Decode
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotPNG reports a frame upload that is not PNG-typed. Frames need an
// alpha channel, so only PNG is accepted.
var ErrNotPNG = errors.New("frame must be a PNG file")

// LoadPhoto reads a PNG or JPEG photo from disk.
func LoadPhoto(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return ToRGBA(img), nil
}

// LoadFrame reads the overlay frame. Non-PNG files are rejected before any
// decoding happens.
func LoadFrame(path string) (*image.RGBA, error) {
	if !strings.EqualFold(filepath.Ext(path), ".png") {
		return nil, fmt.Errorf("%w: %s", ErrNotPNG, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode frame %s: %w", path, err)
	}
	return ToRGBA(img), nil
}

// SavePNG writes img to path, creating parent directories as needed.
func SavePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return fmt.Errorf("write PNG to %q: %w", path, err)
	}
	return out.Close()
}

// EncodePNG writes img as PNG to w.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// ToRGBA converts any decoded image to RGBA, copying only when necessary.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
