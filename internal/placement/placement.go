package placement

import (
	"image"
	"math"
)

// FitMode selects how a photo is scaled into a target rectangle when no
// explicit crop has been configured. The interactive crop supersedes it for
// per-photo control; the one-shot compose path still honors it.
type FitMode string

const (
	FitCover   FitMode = "cover"
	FitContain FitMode = "contain"
	FitFill    FitMode = "fill"
)

// CanvasMode names an output aspect-ratio preset.
type CanvasMode string

const (
	CanvasSquare    CanvasMode = "square"
	CanvasOriginal  CanvasMode = "original"
	CanvasPortrait  CanvasMode = "portrait"
	CanvasLandscape CanvasMode = "landscape"
	CanvasStory     CanvasMode = "story"
)

const (
	// CropSizeMin is the smallest crop window as a percentage of the
	// limiting dimension. 100 means no zoom.
	CropSizeMin = 10
	CropSizeMax = 100

	FrameScaleMin = 0.01
	FrameScaleMax = 2

	FrameOffsetMin = -50
	FrameOffsetMax = 50

	// previewMaxSide caps the longer canvas side in "original" mode so the
	// interactive preview stays cheap to redraw.
	previewMaxSide = 1080
	// exportMaxSide caps the longer canvas side in "original" mode at
	// export time.
	exportMaxSide = 4096
)

// Config is the complete normalized description of how one photo is
// composited. CropX/CropY position the crop window as a percentage of the
// available slack (image size minus window size), not of the full image.
// Frame fields position the overlay in canvas space and are independent of
// the photo.
type Config struct {
	CropX      float64
	CropY      float64
	CropSize   float64
	FrameScale float64
	FrameX     float64
	FrameY     float64
	Fit        FitMode
	Canvas     CanvasMode
}

// Default returns the config assigned to a freshly uploaded photo: no zoom,
// crop flush to the top-left, frame fitted and centered.
func Default() Config {
	return Config{
		CropSize:   CropSizeMax,
		FrameScale: 1,
		Fit:        FitCover,
		Canvas:     CanvasSquare,
	}
}

// Clamp normalizes every field into its legal domain. Unknown enum values
// fall back to the defaults.
func (c Config) Clamp() Config {
	c.CropX = clamp(c.CropX, 0, 100)
	c.CropY = clamp(c.CropY, 0, 100)
	c.CropSize = clamp(c.CropSize, CropSizeMin, CropSizeMax)
	c.FrameScale = clamp(c.FrameScale, FrameScaleMin, FrameScaleMax)
	c.FrameX = clamp(c.FrameX, FrameOffsetMin, FrameOffsetMax)
	c.FrameY = clamp(c.FrameY, FrameOffsetMin, FrameOffsetMax)
	switch c.Fit {
	case FitCover, FitContain, FitFill:
	default:
		c.Fit = FitCover
	}
	switch c.Canvas {
	case CanvasSquare, CanvasOriginal, CanvasPortrait, CanvasLandscape, CanvasStory:
	default:
		c.Canvas = CanvasSquare
	}
	return c
}

// ResetCrop restores the crop fields to their defaults without touching the
// frame placement.
func (c *Config) ResetCrop() {
	c.CropSize = CropSizeMax
	c.CropX = 0
	c.CropY = 0
}

// ResetFrame restores the frame fields to their defaults without touching
// the crop.
func (c *Config) ResetFrame() {
	c.FrameScale = 1
	c.FrameX = 0
	c.FrameY = 0
}

// ZoomPercent reports the displayed zoom level for a crop size. The slider
// semantics are inverted: more zoom reads higher while CropSize shrinks.
func ZoomPercent(cropSize float64) int {
	if cropSize <= 0 {
		return 0
	}
	return int(math.Round(100 / cropSize * 100))
}

// ResolveCrop resolves the source rectangle of the crop window inside a
// photo of imgW x imgH for a canvas of canvasW x canvasH. The window uses
// the limiting dimension for the canvas aspect, so the result always fills
// the whole canvas with no letterboxing, and is always fully contained in
// the image bounds.
func ResolveCrop(imgW, imgH, canvasW, canvasH int, cfg Config) image.Rectangle {
	if imgW <= 0 || imgH <= 0 || canvasW <= 0 || canvasH <= 0 {
		return image.Rectangle{}
	}
	cfg = cfg.Clamp()
	canvasAspect := float64(canvasW) / float64(canvasH)
	imageAspect := float64(imgW) / float64(imgH)

	var cropW, cropH float64
	if imageAspect > canvasAspect {
		// Image relatively wider than the target: height limits.
		cropH = cfg.CropSize / 100 * float64(imgH)
		cropW = cropH * canvasAspect
	} else {
		cropW = cfg.CropSize / 100 * float64(imgW)
		cropH = cropW / canvasAspect
	}
	if cropW > float64(imgW) {
		cropW = float64(imgW)
	}
	if cropH > float64(imgH) {
		cropH = float64(imgH)
	}

	maxOffsetX := float64(imgW) - cropW
	maxOffsetY := float64(imgH) - cropH
	srcX := cfg.CropX / 100 * maxOffsetX
	srcY := cfg.CropY / 100 * maxOffsetY

	return clampedRect(srcX, srcY, cropW, cropH, imgW, imgH)
}

// ResolveFrame resolves the destination rectangle of the overlay frame on
// the canvas. At scale 1 the frame fits the canvas contain-style with its
// native aspect preserved; FrameScale multiplies both dimensions and
// FrameX/FrameY shift the centered position by a percentage of the canvas
// size.
func ResolveFrame(frameW, frameH, canvasW, canvasH int, cfg Config) image.Rectangle {
	if frameW <= 0 || frameH <= 0 || canvasW <= 0 || canvasH <= 0 {
		return image.Rectangle{}
	}
	cfg = cfg.Clamp()
	fit := math.Min(float64(canvasW)/float64(frameW), float64(canvasH)/float64(frameH))
	w := float64(frameW) * fit * cfg.FrameScale
	h := float64(frameH) * fit * cfg.FrameScale
	x := (float64(canvasW)-w)/2 + cfg.FrameX/100*float64(canvasW)
	y := (float64(canvasH)-h)/2 + cfg.FrameY/100*float64(canvasH)

	x0 := int(math.Round(x))
	y0 := int(math.Round(y))
	return image.Rect(x0, y0, x0+int(math.Round(w)), y0+int(math.Round(h)))
}

// CanvasSize maps a canvas mode to preview raster dimensions. Original mode
// derives the aspect from the photo, capped so the longer side does not
// exceed the preview ceiling.
func CanvasSize(mode CanvasMode, imgW, imgH int) (int, int) {
	return canvasSize(mode, imgW, imgH, previewMaxSide)
}

// ExportCanvasSize maps a canvas mode to export raster dimensions. The
// fixed presets are identical to the preview table; original mode keeps the
// photo's native dimensions up to the export ceiling.
func ExportCanvasSize(mode CanvasMode, imgW, imgH int) (int, int) {
	return canvasSize(mode, imgW, imgH, exportMaxSide)
}

func canvasSize(mode CanvasMode, imgW, imgH, maxSide int) (int, int) {
	switch mode {
	case CanvasPortrait:
		return 1080, 1350
	case CanvasLandscape:
		return 1920, 1080
	case CanvasStory:
		return 1080, 1920
	case CanvasOriginal:
		if imgW <= 0 || imgH <= 0 {
			return 1080, 1080
		}
		w, h := float64(imgW), float64(imgH)
		if longest := math.Max(w, h); longest > float64(maxSide) {
			scale := float64(maxSide) / longest
			w *= scale
			h *= scale
		}
		return int(math.Round(w)), int(math.Round(h))
	default:
		return 1080, 1080
	}
}

// FitRect returns the destination rectangle for drawing an imgW x imgH photo
// onto a dstW x dstH canvas under the given fit policy. Cover overfills the
// canvas, contain letterboxes inside it, fill ignores the aspect ratio.
func FitRect(imgW, imgH, dstW, dstH int, fit FitMode) image.Rectangle {
	if imgW <= 0 || imgH <= 0 || dstW <= 0 || dstH <= 0 {
		return image.Rectangle{}
	}
	var scale float64
	switch fit {
	case FitFill:
		return image.Rect(0, 0, dstW, dstH)
	case FitContain:
		scale = math.Min(float64(dstW)/float64(imgW), float64(dstH)/float64(imgH))
	default: // cover
		scale = math.Max(float64(dstW)/float64(imgW), float64(dstH)/float64(imgH))
	}
	w := float64(imgW) * scale
	h := float64(imgH) * scale
	x0 := int(math.Round((float64(dstW) - w) / 2))
	y0 := int(math.Round((float64(dstH) - h) / 2))
	return image.Rect(x0, y0, x0+int(math.Round(w)), y0+int(math.Round(h)))
}

// clampedRect converts a float rectangle to integer pixels without letting
// rounding push it outside the image bounds.
func clampedRect(x, y, w, h float64, imgW, imgH int) image.Rectangle {
	x0 := int(math.Round(x))
	y0 := int(math.Round(y))
	x1 := int(math.Round(x + w))
	y1 := int(math.Round(y + h))
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > imgW {
		x1 = imgW
	}
	if y1 > imgH {
		y1 = imgH
	}
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return image.Rect(x0, y0, x1, y1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
