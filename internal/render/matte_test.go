package render

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func whiteCanvas(w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return dst
}

func TestDropShadowDarkensBehindRect(t *testing.T) {
	dst := whiteCanvas(200, 200)
	rect := image.Rect(60, 60, 140, 140)
	DropShadow(dst, rect, MatteOptions{Blur: 8, Offset: image.Pt(6, 6), Opacity: 0.5})

	center := dst.RGBAAt(100, 100)
	if center.R >= 255 {
		t.Fatalf("expected shadow core to darken canvas, got %v", center)
	}
	corner := dst.RGBAAt(2, 2)
	if corner.R != 255 || corner.G != 255 || corner.B != 255 {
		t.Fatalf("expected far corner untouched, got %v", corner)
	}
}

func TestDropShadowFalloff(t *testing.T) {
	dst := whiteCanvas(200, 200)
	rect := image.Rect(60, 60, 140, 140)
	DropShadow(dst, rect, MatteOptions{Blur: 12, Offset: image.Point{}, Opacity: 1})

	core := dst.RGBAAt(100, 100)
	edge := dst.RGBAAt(145, 100)
	far := dst.RGBAAt(190, 100)
	if !(core.R < edge.R && edge.R < far.R) {
		t.Fatalf("expected monotone falloff, got core=%d edge=%d far=%d", core.R, edge.R, far.R)
	}
}

func TestDropShadowZeroOpacityDrawsNothing(t *testing.T) {
	dst := whiteCanvas(50, 50)
	DropShadow(dst, image.Rect(10, 10, 40, 40), MatteOptions{Blur: 4, Opacity: 0})
	for _, p := range []image.Point{{25, 25}, {12, 12}, {38, 38}} {
		if c := dst.RGBAAt(p.X, p.Y); c.R != 255 {
			t.Fatalf("expected untouched canvas at %v, got %v", p, c)
		}
	}
}

func TestDropShadowNilAndEmptyInputs(t *testing.T) {
	DropShadow(nil, image.Rect(0, 0, 10, 10), DefaultMatte())
	dst := whiteCanvas(10, 10)
	DropShadow(dst, image.Rectangle{}, DefaultMatte())
	if c := dst.RGBAAt(5, 5); c.R != 255 {
		t.Fatalf("expected empty rect to draw nothing, got %v", c)
	}
}

func TestBoxBlurZeroRadiusCopies(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	src.SetGray(1, 1, color.Gray{Y: 200})
	out := boxBlur(src, 0)
	if out.GrayAt(1, 1).Y != 200 || out.GrayAt(3, 3).Y != 0 {
		t.Fatalf("expected identity copy at radius 0")
	}
}
