// Package compose draws crop-overlay previews and final composites. The
// same placement geometry feeds both paths so the preview is an honest
// picture of the export.
package compose

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/framekit/internal/placement"
	"github.com/example/framekit/internal/render"
)

// Quality selects the scaler used for blits. Preview trades accuracy for
// latency; export does the opposite.
type Quality int

const (
	Preview Quality = iota
	Export
)

func (q Quality) scaler() xdraw.Scaler {
	if q == Export {
		return xdraw.CatmullRom
	}
	return xdraw.ApproxBiLinear
}

var (
	backdrop  = color.RGBA{24, 24, 28, 255}
	dimMask   = color.RGBA{A: 153} // ~0.4 source opacity once dimmed
	labelCol  = color.RGBA{200, 200, 200, 255}
	dashLight = color.White
	dashDark  = color.Black
)

// Composite renders the export view: the resolved crop window scaled to
// fill the entire canvas, then the frame at its resolved rectangle. photo
// and frame may each be nil; whatever is present still draws.
func Composite(dst *image.RGBA, photo, frame *image.RGBA, cfg placement.Config, q Quality) {
	fill(dst, backdrop)
	b := dst.Bounds()
	if photo != nil {
		src := placement.ResolveCrop(photo.Bounds().Dx(), photo.Bounds().Dy(), b.Dx(), b.Dy(), cfg)
		if !src.Empty() {
			q.scaler().Scale(dst, b, photo, src, draw.Src, nil)
		}
	}
	if frame != nil {
		r := placement.ResolveFrame(frame.Bounds().Dx(), frame.Bounds().Dy(), b.Dx(), b.Dy(), cfg)
		if !r.Empty() {
			q.scaler().Scale(dst, r, frame, frame.Bounds(), draw.Over, nil)
		}
	}
}

// Overlay renders the crop-editing view: the whole photo fitted into the
// canvas at reduced opacity, the crop window redrawn at full opacity from
// the source, and a dashed border around it. The frame is deliberately not
// drawn in this mode.
func Overlay(dst *image.RGBA, photo *image.RGBA, cfg placement.Config) {
	fill(dst, backdrop)
	if photo == nil {
		Placeholder(dst)
		return
	}
	b := dst.Bounds()
	imgW, imgH := photo.Bounds().Dx(), photo.Bounds().Dy()

	// Letterboxed fit of the full photo.
	disp := placement.FitRect(imgW, imgH, b.Dx(), b.Dy(), placement.FitContain)
	Preview.scaler().Scale(dst, disp, photo, photo.Bounds(), draw.Src, nil)
	draw.DrawMask(dst, disp, image.NewUniform(backdrop), image.Point{}, image.NewUniform(dimMask), image.Point{}, draw.Over)

	// The crop window in display coordinates mirrors the source-space
	// window proportionally, so the highlighted region and the source
	// sub-rectangle always describe the same pixels.
	src := placement.ResolveCrop(imgW, imgH, b.Dx(), b.Dy(), cfg)
	if src.Empty() {
		return
	}
	sx := float64(disp.Dx()) / float64(imgW)
	sy := float64(disp.Dy()) / float64(imgH)
	win := image.Rect(
		disp.Min.X+int(float64(src.Min.X)*sx),
		disp.Min.Y+int(float64(src.Min.Y)*sy),
		disp.Min.X+int(float64(src.Max.X)*sx),
		disp.Min.Y+int(float64(src.Max.Y)*sy),
	)
	Preview.scaler().Scale(dst, win, photo, src, draw.Src, nil)
	drawDashedRect(dst, win, 4, 2, dashLight, dashDark)
}

// FrameOnly renders just the frame fitted to the canvas, used before any
// photo has been uploaded.
func FrameOnly(dst *image.RGBA, frame *image.RGBA, cfg placement.Config) {
	fill(dst, backdrop)
	b := dst.Bounds()
	r := placement.ResolveFrame(frame.Bounds().Dx(), frame.Bounds().Dy(), b.Dx(), b.Dy(), cfg)
	if !r.Empty() {
		Preview.scaler().Scale(dst, r, frame, frame.Bounds(), draw.Over, nil)
	}
}

// Placeholder fills dst with the dark backdrop and a centered label, shown
// when neither a photo nor a frame is present.
func Placeholder(dst *image.RGBA) {
	fill(dst, backdrop)
	b := dst.Bounds()
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(labelCol), Face: basicfont.Face7x13}
	msg := "No content"
	w := d.MeasureString(msg).Ceil()
	d.Dot = fixed.P(b.Min.X+(b.Dx()-w)/2, b.Min.Y+b.Dy()/2)
	d.DrawString(msg)
}

// Single renders the one-shot compose path: the photo under the fit policy
// (no interactive crop), then the frame. Contain mode letterboxes against
// the backdrop with a matte drop shadow behind the photo.
func Single(dst *image.RGBA, photo, frame *image.RGBA, cfg placement.Config, q Quality) {
	fill(dst, backdrop)
	b := dst.Bounds()
	if photo != nil {
		r := placement.FitRect(photo.Bounds().Dx(), photo.Bounds().Dy(), b.Dx(), b.Dy(), cfg.Fit)
		if cfg.Fit == placement.FitContain && r != b {
			render.DropShadow(dst, r, render.DefaultMatte())
		}
		q.scaler().Scale(dst, r, photo, photo.Bounds(), draw.Src, nil)
	}
	if frame != nil {
		r := placement.ResolveFrame(frame.Bounds().Dx(), frame.Bounds().Dy(), b.Dx(), b.Dy(), cfg)
		if !r.Empty() {
			q.scaler().Scale(dst, r, frame, frame.Bounds(), draw.Over, nil)
		}
	}
}

func fill(dst *image.RGBA, c color.Color) {
	draw.Draw(dst, dst.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
}

func drawDashedLine(img *image.RGBA, x0, y0, x1, y1, dash, thickness int, c1, c2 color.Color) {
	horiz := y0 == y1
	length := x1 - x0
	if !horiz {
		length = y1 - y0
	}
	if length < 0 {
		length = -length
	}
	for i := 0; i <= length; i += dash * 2 {
		for j := 0; j < dash && i+j <= length; j++ {
			plotDash(img, x0, y0, x1, y1, i+j, thickness, horiz, c1)
		}
		for j := 0; j < dash && i+dash+j <= length; j++ {
			plotDash(img, x0, y0, x1, y1, i+dash+j, thickness, horiz, c2)
		}
	}
}

func plotDash(img *image.RGBA, x0, y0, x1, y1, step, thickness int, horiz bool, col color.Color) {
	for t := 0; t < thickness; t++ {
		var p image.Point
		if horiz {
			if x0 < x1 {
				p = image.Pt(x0+step, y0+t)
			} else {
				p = image.Pt(x0-step, y0+t)
			}
		} else {
			if y0 < y1 {
				p = image.Pt(x0+t, y0+step)
			} else {
				p = image.Pt(x0+t, y0-step)
			}
		}
		if p.In(img.Bounds()) {
			img.Set(p.X, p.Y, col)
		}
	}
}

func drawDashedRect(img *image.RGBA, rect image.Rectangle, dash, thickness int, c1, c2 color.Color) {
	drawDashedLine(img, rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y, dash, thickness, c1, c2)
	drawDashedLine(img, rect.Max.X, rect.Min.Y, rect.Max.X, rect.Max.Y, dash, thickness, c1, c2)
	drawDashedLine(img, rect.Max.X, rect.Max.Y, rect.Min.X, rect.Max.Y, dash, thickness, c1, c2)
	drawDashedLine(img, rect.Min.X, rect.Max.Y, rect.Min.X, rect.Min.Y, dash, thickness, c1, c2)
}
