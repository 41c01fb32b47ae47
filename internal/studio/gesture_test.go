package studio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/framekit/internal/placement"
)

func TestDragCropUsesSnapshot(t *testing.T) {
	cfg := placement.Default()
	cfg.CropX = 20
	cfg.CropY = 40
	d := BeginDrag(100, 100, cfg)

	got := d.Move(ModeCrop, 140, 100, 1080, 1080)
	assert.InDelta(t, 20+40*cropDragSensitivity, got.CropX, 1e-9)
	assert.InDelta(t, 40.0, got.CropY, 1e-9)

	// A second move is still relative to the snapshot, not the last result.
	got = d.Move(ModeCrop, 120, 120, 1080, 1080)
	assert.InDelta(t, 20+20*cropDragSensitivity, got.CropX, 1e-9)
	assert.InDelta(t, 40+20*cropDragSensitivity, got.CropY, 1e-9)
}

func TestDragCropClamps(t *testing.T) {
	d := BeginDrag(0, 0, placement.Default())
	got := d.Move(ModeCrop, 100000, -100000, 1080, 1080)
	assert.Equal(t, 100.0, got.CropX)
	assert.Equal(t, 0.0, got.CropY)
}

func TestDragFrameTracksCanvas(t *testing.T) {
	cfg := placement.Default()
	d := BeginDrag(0, 0, cfg)

	// Moving a quarter of the canvas width shifts the frame by 25 percent.
	got := d.Move(ModeFrame, 270, 0, 1080, 1080)
	assert.InDelta(t, 25.0, got.FrameX, 1e-9)
	assert.InDelta(t, 0.0, got.FrameY, 1e-9)

	got = d.Move(ModeFrame, 0, -540, 1080, 1080)
	assert.InDelta(t, placement.FrameOffsetMin, got.FrameY, 1e-9)
}

func TestDragFrameDoesNotTouchCrop(t *testing.T) {
	cfg := placement.Default()
	cfg.CropX = 33
	d := BeginDrag(0, 0, cfg)
	got := d.Move(ModeFrame, 50, 50, 1080, 1080)
	assert.Equal(t, 33.0, got.CropX)
	assert.Equal(t, cfg.CropSize, got.CropSize)
}

func TestInactiveDragIsNoop(t *testing.T) {
	cfg := placement.Default()
	cfg.CropX = 12
	var d Drag
	d.Start = cfg
	assert.Equal(t, cfg, d.Move(ModeCrop, 500, 500, 1080, 1080))
}

func TestWheelCrop(t *testing.T) {
	cfg := placement.Default()
	require.Equal(t, 100.0, cfg.CropSize)

	got := Wheel(ModeCrop, cfg, -wheelTickDelta)
	assert.InDelta(t, 95.0, got.CropSize, 1e-9)

	// Clamped at both ends of the domain.
	got = Wheel(ModeCrop, cfg, -10000)
	assert.Equal(t, float64(placement.CropSizeMin), got.CropSize)
	got = Wheel(ModeCrop, cfg, 10000)
	assert.Equal(t, float64(placement.CropSizeMax), got.CropSize)
}

func TestWheelFrame(t *testing.T) {
	cfg := placement.Default()
	got := Wheel(ModeFrame, cfg, -wheelTickDelta)
	assert.InDelta(t, 1.02, got.FrameScale, 1e-9)

	got = Wheel(ModeFrame, cfg, 100000)
	assert.Equal(t, placement.FrameScaleMin, got.FrameScale)
}

func TestPinchCropInverted(t *testing.T) {
	cfg := placement.Default()
	cfg.CropSize = 60
	p := BeginPinch(100)

	// Pinching out zooms in, shrinking the crop window.
	got := p.Move(ModeCrop, cfg, 150)
	assert.InDelta(t, 50.0, got.CropSize, 1e-9)

	// The next delta is measured against the previous frame.
	got = p.Move(ModeCrop, got, 140)
	assert.InDelta(t, 52.0, got.CropSize, 1e-9)
}

func TestPinchFrame(t *testing.T) {
	cfg := placement.Default()
	p := BeginPinch(200)
	got := p.Move(ModeFrame, cfg, 300)
	assert.InDelta(t, 1.5, got.FrameScale, 1e-9)
}

func TestTouchDistance(t *testing.T) {
	assert.InDelta(t, 5.0, touchDistance(0, 0, 3, 4), 1e-9)
	assert.InDelta(t, 0.0, touchDistance(7, 7, 7, 7), 1e-9)
}

func TestReleaseEndsDragOverAnyRegion(t *testing.T) {
	d := BeginDrag(400, 300, placement.Default())
	require.True(t, d.Active)

	// Release coordinates across the tab bar, toolbar, status bar and
	// canvas: button-up must end the gesture wherever the pointer is.
	points := []struct{ x, y float32 }{
		{200, 10},  // tab bar
		{10, 200},  // toolbar
		{400, 790}, // status bar
		{400, 300}, // canvas
	}
	for _, pt := range points {
		ev := mouse.Event{X: pt.x, Y: pt.y, Button: mouse.ButtonLeft, Direction: mouse.DirRelease}
		assert.True(t, endsDrag(ev, d), "release at (%v,%v) must end the drag", pt.x, pt.y)
	}
}

func TestEndsDragIgnoresOtherEvents(t *testing.T) {
	d := BeginDrag(0, 0, placement.Default())

	move := mouse.Event{X: 10, Y: 10, Direction: mouse.DirNone}
	assert.False(t, endsDrag(move, d))

	press := mouse.Event{Button: mouse.ButtonLeft, Direction: mouse.DirPress}
	assert.False(t, endsDrag(press, d))

	wheel := mouse.Event{Button: mouse.ButtonWheelUp, Direction: mouse.DirRelease}
	assert.False(t, endsDrag(wheel, d))

	d.Active = false
	release := mouse.Event{Button: mouse.ButtonLeft, Direction: mouse.DirRelease}
	assert.False(t, endsDrag(release, d))
}
