// Package render draws the matte drop shadow behind a photo that floats on
// the canvas, the gallery-wall look contain fit produces.
package render

import (
	"image"
	"image/color"
	"image/draw"
)

// MatteOptions configures the drop shadow drawn behind a floating photo.
type MatteOptions struct {
	Blur    int
	Offset  image.Point
	Opacity float64
}

// DefaultMatte returns the shadow used for letterboxed composites.
func DefaultMatte() MatteOptions {
	return MatteOptions{
		Blur:    24,
		Offset:  image.Pt(10, 14),
		Opacity: 0.45,
	}
}

// DropShadow draws a blurred rectangular shadow for rect onto dst. The photo
// itself is drawn by the caller afterwards, covering the unblurred core of
// the shadow. Out-of-range options are clamped; a zero opacity draws nothing.
func DropShadow(dst *image.RGBA, rect image.Rectangle, opts MatteOptions) {
	if dst == nil || rect.Empty() {
		return
	}
	opacity := opts.Opacity
	if opacity <= 0 {
		return
	}
	if opacity > 1 {
		opacity = 1
	}
	blur := opts.Blur
	if blur < 0 {
		blur = 0
	}

	// Mask covers the shadow rect plus the blur falloff on every side.
	padded := rect.Add(opts.Offset).Inset(-blur)
	mask := image.NewGray(padded.Sub(padded.Min))
	core := rect.Add(opts.Offset).Sub(padded.Min)
	draw.Draw(mask, core, image.NewUniform(color.Gray{Y: 255}), image.Point{}, draw.Src)

	blurred := boxBlur(mask, blur)
	alpha := uint8(opacity*255 + 0.5)
	draw.DrawMask(dst,
		padded.Intersect(dst.Bounds()),
		image.NewUniform(color.RGBA{0, 0, 0, alpha}), image.Point{},
		blurred, padded.Intersect(dst.Bounds()).Min.Sub(padded.Min),
		draw.Over)
}

// boxBlur runs a separable box blur over src using row and column prefix
// sums, so cost is independent of the radius.
func boxBlur(src *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		out := image.NewGray(src.Bounds())
		copy(out.Pix, src.Pix)
		return out
	}
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	tmp := image.NewGray(bounds)
	dst := image.NewGray(bounds)

	prefix := make([]int, w+1)
	for y := 0; y < h; y++ {
		row := y * src.Stride
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(src.Pix[row+x])
		}
		out := y * tmp.Stride
		for x := 0; x < w; x++ {
			x0 := max(x-radius, 0)
			x1 := min(x+radius, w-1)
			tmp.Pix[out+x] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
		}
	}

	colPrefix := make([]int, h+1)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			colPrefix[y+1] = colPrefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0 := max(y-radius, 0)
			y1 := min(y+radius, h-1)
			dst.Pix[y*dst.Stride+x] = uint8((colPrefix[y1+1] - colPrefix[y0]) / (y1 - y0 + 1))
		}
	}

	return dst
}
