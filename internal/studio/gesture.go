package studio

import (
	"math"

	"golang.org/x/mobile/event/mouse"

	"github.com/example/framekit/internal/placement"
)

// Mode selects which placement fields respond to pointer input.
type Mode int

const (
	ModeCrop Mode = iota
	ModeFrame
)

func (m Mode) String() string {
	if m == ModeFrame {
		return "frame"
	}
	return "crop"
}

const (
	// cropDragSensitivity converts pointer pixels into crop offset percent.
	cropDragSensitivity = 0.35
	wheelCropStep       = 0.5
	wheelFrameStep      = 0.002
	pinchCropStep       = 0.2
	pinchFrameStep      = 0.005

	// wheelTickDelta is the synthesized scroll delta for one wheel step.
	wheelTickDelta = 10.0
)

// Drag is a gesture transaction. The placement snapshot is taken at
// pointer-down and all movement is resolved against it so repeated deltas
// never compound against a live config.
type Drag struct {
	Active         bool
	StartX, StartY float64
	Start          placement.Config
}

// BeginDrag opens a drag transaction at the given pointer position.
func BeginDrag(x, y float64, cfg placement.Config) Drag {
	return Drag{Active: true, StartX: x, StartY: y, Start: cfg}
}

// Move resolves the pointer position against the drag snapshot. In crop mode
// the delta maps to crop offsets at a fixed sensitivity; in frame mode the
// frame follows the pointer 1:1 against the canvas display size.
func (d Drag) Move(mode Mode, x, y float64, canvasW, canvasH int) placement.Config {
	cfg := d.Start
	if !d.Active {
		return cfg
	}
	dx := x - d.StartX
	dy := y - d.StartY
	switch mode {
	case ModeCrop:
		cfg.CropX = d.Start.CropX + dx*cropDragSensitivity
		cfg.CropY = d.Start.CropY + dy*cropDragSensitivity
	case ModeFrame:
		if canvasW > 0 {
			cfg.FrameX = d.Start.FrameX + dx/float64(canvasW)*100
		}
		if canvasH > 0 {
			cfg.FrameY = d.Start.FrameY + dy/float64(canvasH)*100
		}
	}
	return cfg.Clamp()
}

// endsDrag reports whether a mouse event terminates an in-progress drag.
// Button-up ends the gesture no matter which UI region the pointer is over;
// a release above the tab bar or toolbar must not leave the drag live.
func endsDrag(e mouse.Event, d Drag) bool {
	return d.Active && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease
}

// Wheel applies a scroll delta to the mode's zoom field.
func Wheel(mode Mode, cfg placement.Config, deltaY float64) placement.Config {
	switch mode {
	case ModeCrop:
		cfg.CropSize += deltaY * wheelCropStep
	case ModeFrame:
		cfg.FrameScale += -deltaY * wheelFrameStep
	}
	return cfg.Clamp()
}

// Pinch tracks a two-finger gesture. The inter-touch distance is compared
// frame to frame rather than against the gesture start.
type Pinch struct {
	Active   bool
	LastDist float64
}

// BeginPinch opens a pinch at the given inter-touch distance.
func BeginPinch(dist float64) Pinch {
	return Pinch{Active: true, LastDist: dist}
}

// Move applies the distance delta since the last frame. Pinching out zooms
// the crop in (smaller crop window) and scales the frame up.
func (p *Pinch) Move(mode Mode, cfg placement.Config, dist float64) placement.Config {
	if !p.Active {
		return cfg
	}
	delta := dist - p.LastDist
	p.LastDist = dist
	switch mode {
	case ModeCrop:
		cfg.CropSize -= delta * pinchCropStep
	case ModeFrame:
		cfg.FrameScale += delta * pinchFrameStep
	}
	return cfg.Clamp()
}

func touchDistance(x0, y0, x1, y1 float32) float64 {
	dx := float64(x1 - x0)
	dy := float64(y1 - y0)
	return math.Hypot(dx, dy)
}
