// Package assets provides the built-in demo frame. It is generated rather
// than embedded so the repository carries no binary artwork.
package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"
)

// DemoFrameSource is the placeholder source name reported for the built-in
// frame, used where a file path would otherwise appear.
const DemoFrameSource = "builtin:demo-frame"

var (
	demoOnce sync.Once
	demoImg  *image.RGBA
	demoPNG  []byte
	demoErr  error
)

func buildDemo() {
	const (
		side   = 1080
		border = 54
		mat    = 18
	)
	img := image.NewRGBA(image.Rect(0, 0, side, side))

	wood := color.RGBA{92, 62, 36, 255}
	highlight := color.RGBA{128, 90, 56, 255}
	matCol := color.RGBA{238, 233, 222, 255}

	draw.Draw(img, img.Bounds(), &image.Uniform{wood}, image.Point{}, draw.Src)
	inset := image.Rect(border/3, border/3, side-border/3, side-border/3)
	draw.Draw(img, inset, &image.Uniform{highlight}, image.Point{}, draw.Src)
	outer := image.Rect(border-mat, border-mat, side-border+mat, side-border+mat)
	draw.Draw(img, outer, &image.Uniform{wood}, image.Point{}, draw.Src)
	matRect := image.Rect(border, border, side-border, side-border)
	draw.Draw(img, matRect, &image.Uniform{matCol}, image.Point{}, draw.Src)

	// Transparent window the photo shows through.
	window := image.Rect(border+mat, border+mat, side-border-mat, side-border-mat)
	draw.Draw(img, window, image.Transparent, image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		demoErr = err
		return
	}
	demoImg = img
	demoPNG = buf.Bytes()
}

// DemoFrame returns the built-in square frame with a transparent center
// window. Callers must not mutate the returned image.
func DemoFrame() (*image.RGBA, error) {
	demoOnce.Do(buildDemo)
	return demoImg, demoErr
}

// DemoFramePNG returns a copy of the built-in frame encoded as PNG.
func DemoFramePNG() ([]byte, error) {
	demoOnce.Do(buildDemo)
	if demoErr != nil {
		return nil, demoErr
	}
	out := make([]byte, len(demoPNG))
	copy(out, demoPNG)
	return out, nil
}
