package studio

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"golang.org/x/exp/shiny/screen"

	"github.com/example/framekit/internal/compose"
	"github.com/example/framekit/internal/placement"
	"github.com/example/framekit/internal/store"
	"github.com/example/framekit/internal/theme"
)

const (
	tabHeight    = 24
	statusHeight = 24
	tabWidth     = 96
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

type viewportClass int

const (
	viewportDesktop viewportClass = iota
	viewportMobile
)

// mobileBreakpoint is the window width below which the layout compacts.
const mobileBreakpoint = 700

func classifyViewport(widthPx int) viewportClass {
	if widthPx < mobileBreakpoint {
		return viewportMobile
	}
	return viewportDesktop
}

func (v viewportClass) toolbarWidth() int {
	if v == viewportMobile {
		return 72
	}
	return 96
}

func (v viewportClass) buttonHeight() int {
	if v == viewportMobile {
		return 20
	}
	return 24
}

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) Rect() image.Rectangle { return cb.Button.Rect() }

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

func (cb *CacheButton) Activate() { cb.Button.Activate() }

// ActionButton is a labelled toolbar button bound to a named action.
type ActionButton struct {
	label    string
	action   string
	th       *theme.Theme
	rect     image.Rectangle
	active   func() bool
	onSelect func()
}

func (ab *ActionButton) Draw(dst *image.RGBA, state ButtonState) {
	c := ab.th.ButtonBackground
	switch state {
	case StateHover:
		c = ab.th.ButtonBackgroundHover
	case StatePressed:
		c = ab.th.ButtonBackgroundPress
	}
	draw.Draw(dst, ab.rect, &image.Uniform{c}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(ab.th.ButtonText), Face: basicfont.Face7x13,
		Dot: fixed.P(ab.rect.Min.X+4, ab.rect.Min.Y+16)}
	d.DrawString(ab.label)
}

func (ab *ActionButton) Rect() image.Rectangle { return ab.rect }

func (ab *ActionButton) SetRect(r image.Rectangle) {
	if r != ab.rect {
		ab.rect = r
	}
}

func (ab *ActionButton) Activate() {
	if ab.onSelect != nil {
		ab.onSelect()
	}
}

// TabButton draws a photo name in the header bar.
type TabButton struct {
	label    string
	th       *theme.Theme
	rect     image.Rectangle
	onSelect func()
}

func (tb *TabButton) Draw(dst *image.RGBA, state ButtonState) {
	c := tb.th.TabBackground
	switch state {
	case StateHover:
		c = tb.th.TabHover
	case StatePressed:
		c = tb.th.TabActive
	}
	draw.Draw(dst, tb.rect, &image.Uniform{c}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(tb.th.Foreground), Face: basicfont.Face7x13,
		Dot: fixed.P(tb.rect.Min.X+4, tb.rect.Min.Y+16)}
	d.DrawString(truncateLabel(d, tb.label, tabWidth-8))
}

func (tb *TabButton) Rect() image.Rectangle { return tb.rect }

func (tb *TabButton) SetRect(r image.Rectangle) {
	if r != tb.rect {
		tb.rect = r
	}
}

func (tb *TabButton) Activate() {
	if tb.onSelect != nil {
		tb.onSelect()
	}
}

func truncateLabel(d *font.Drawer, s string, maxW int) string {
	if d.MeasureString(s).Ceil() <= maxW {
		return s
	}
	for len(s) > 1 {
		s = s[:len(s)-1]
		if d.MeasureString(s+"…").Ceil() <= maxW {
			return s + "…"
		}
	}
	return s
}

type statusShortcut struct {
	label  string
	action string
	rect   image.Rectangle
}

// Widget rects and hover indices are written by the painter goroutine and
// hit-tested by the event loop; widgetMu covers both sides.
var (
	widgetMu      sync.Mutex
	tabButtons    []TabButton
	toolButtons   []*CacheButton
	shortcutRects []statusShortcut
	hoverTab      = -1
	hoverTool     = -1
	hoverShortcut = -1
)

// hitShortcut records hover state for the status bar and returns the action
// under p, if any.
func hitShortcut(p image.Point) string {
	widgetMu.Lock()
	defer widgetMu.Unlock()
	hoverShortcut = -1
	for i, sc := range shortcutRects {
		if p.In(sc.rect) && sc.action != "" {
			hoverShortcut = i
			return sc.action
		}
	}
	return ""
}

// hitTab records hover state for the tab bar and returns the index of the
// tab under p, or -1.
func hitTab(p image.Point) int {
	widgetMu.Lock()
	defer widgetMu.Unlock()
	hoverTab = -1
	for i, tb := range tabButtons {
		if p.In(tb.rect) {
			hoverTab = i
			return i
		}
	}
	return -1
}

// hitTool records hover state for the toolbar and returns the index of the
// button under p, or -1.
func hitTool(p image.Point, vp viewportClass) int {
	widgetMu.Lock()
	defer widgetMu.Unlock()
	hoverTool = -1
	idx := (p.Y - tabHeight) / vp.buttonHeight()
	if idx >= 0 && idx < len(toolButtons) {
		hoverTool = idx
		return idx
	}
	return -1
}

// canvasArea returns the window region available for the preview canvas.
func canvasArea(width, height int, vp viewportClass) image.Rectangle {
	return image.Rect(vp.toolbarWidth(), tabHeight, width, height-statusHeight)
}

// canvasDisplayRect contain-fits a cw x ch canvas into area, centered.
func canvasDisplayRect(area image.Rectangle, cw, ch int) image.Rectangle {
	if cw <= 0 || ch <= 0 || area.Empty() {
		return image.Rectangle{}
	}
	sx := float64(area.Dx()) / float64(cw)
	sy := float64(area.Dy()) / float64(ch)
	s := sx
	if sy < s {
		s = sy
	}
	w := int(float64(cw) * s)
	h := int(float64(ch) * s)
	x0 := area.Min.X + (area.Dx()-w)/2
	y0 := area.Min.Y + (area.Dy()-h)/2
	return image.Rect(x0, y0, x0+w, y0+h)
}

type paintState struct {
	width, height int
	viewport      viewportClass
	th            *theme.Theme
	mode          Mode
	photos        []store.Photo
	current       int
	photo         *image.RGBA
	frame         *image.RGBA
	loading       bool
	message       string
	messageUntil  time.Time
	exportBusy    bool
	exportCurrent int
	exportTotal   int
}

func (st paintState) activeConfig() placement.Config {
	if st.current >= 0 && st.current < len(st.photos) {
		return st.photos[st.current].Config
	}
	return placement.Default()
}

// previewCanvas renders the preview for the current state at canvas-mode
// resolution.
func previewCanvas(st paintState) *image.RGBA {
	cfg := st.activeConfig()
	pw, ph := 0, 0
	if st.photo != nil {
		pw, ph = st.photo.Bounds().Dx(), st.photo.Bounds().Dy()
	}
	cw, ch := placement.CanvasSize(cfg.Canvas, pw, ph)
	canvas := image.NewRGBA(image.Rect(0, 0, cw, ch))
	switch {
	case st.photo == nil && st.frame == nil:
		compose.Placeholder(canvas)
	case st.photo == nil:
		compose.FrameOnly(canvas, st.frame, cfg)
	case st.mode == ModeCrop:
		compose.Overlay(canvas, st.photo, cfg)
	default:
		compose.Composite(canvas, st.photo, st.frame, cfg, compose.Preview)
	}
	return canvas
}

func drawTabs(dst *image.RGBA, st paintState) {
	widgetMu.Lock()
	defer widgetMu.Unlock()
	th := st.th
	bar := image.Rect(0, 0, st.width, tabHeight)
	draw.Draw(dst, bar, &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)

	title := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: basicfont.Face7x13,
		Dot: fixed.P(4, 16)}
	title.DrawString("FrameKit")

	tabButtons = tabButtons[:0]
	x := st.viewport.toolbarWidth()
	for i, p := range st.photos {
		tb := TabButton{label: p.Name, th: th}
		tb.SetRect(image.Rect(x, 0, x+tabWidth, tabHeight))
		state := StateDefault
		if i == st.current {
			state = StatePressed
		} else if i == hoverTab {
			state = StateHover
		}
		tb.Draw(dst, state)
		tabButtons = append(tabButtons, tb)
		x += tabWidth
	}
}

func drawToolbar(dst *image.RGBA, st paintState) {
	widgetMu.Lock()
	defer widgetMu.Unlock()
	th := st.th
	vp := st.viewport
	bh := vp.buttonHeight()
	draw.Draw(dst, image.Rect(0, tabHeight, vp.toolbarWidth(), st.height-statusHeight),
		&image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)

	y := tabHeight
	for i, cb := range toolButtons {
		r := image.Rect(0, y, vp.toolbarWidth(), y+bh)
		cb.SetRect(r)
		state := StateDefault
		ab, ok := cb.Button.(*ActionButton)
		if ok && ab.active != nil && ab.active() {
			state = StatePressed
		} else if i == hoverTool {
			state = StateHover
		}
		cb.Draw(dst, state)
		y += bh
	}

	// Active-mode marker down the toolbar edge.
	draw.Draw(dst, image.Rect(vp.toolbarWidth()-2, tabHeight, vp.toolbarWidth(), st.height-statusHeight),
		&image.Uniform{th.Accent}, image.Point{}, draw.Src)
}

func drawStatus(dst *image.RGBA, st paintState) {
	widgetMu.Lock()
	defer widgetMu.Unlock()
	th := st.th
	rect := image.Rect(0, st.height-statusHeight, st.width, st.height)
	draw.Draw(dst, rect, &image.Uniform{th.StatusBackground}, image.Point{}, draw.Src)

	cfg := st.activeConfig()
	var shortcuts []statusShortcut
	if st.exportBusy {
		shortcuts = append(shortcuts, statusShortcut{
			label: fmt.Sprintf("exporting %d/%d", st.exportCurrent, st.exportTotal),
		})
		// Progress bar along the bottom edge.
		if st.exportTotal > 0 {
			w := st.width * st.exportCurrent / st.exportTotal
			draw.Draw(dst, image.Rect(0, st.height-2, w, st.height), &image.Uniform{th.Accent}, image.Point{}, draw.Src)
		}
	} else {
		shortcuts = append(shortcuts, statusShortcut{label: "^E:export", action: "export"})
	}
	shortcuts = append(shortcuts,
		statusShortcut{label: "^S:save", action: "save"},
		statusShortcut{label: "^C:copy", action: "copy"},
		statusShortcut{label: fmt.Sprintf("zoom %d%%", placement.ZoomPercent(cfg.CropSize))},
		statusShortcut{label: fmt.Sprintf("%s/%s", cfg.Canvas, st.mode)},
		statusShortcut{label: "Q:quit", action: "quit"},
	)

	shortcutRects = shortcutRects[:0]
	x := st.viewport.toolbarWidth() + 4
	y := st.height - statusHeight + 16
	meas := &font.Drawer{Face: basicfont.Face7x13}
	for i := range shortcuts {
		sc := &shortcuts[i]
		w := meas.MeasureString(sc.label).Ceil()
		sc.rect = image.Rect(x-2, y-14, x+w+2, y+4)
		col := th.ButtonBackground
		if i == hoverShortcut && sc.action != "" {
			col = th.ButtonBackgroundHover
		}
		draw.Draw(dst, sc.rect, &image.Uniform{col}, image.Point{}, draw.Src)
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: basicfont.Face7x13,
			Dot: fixed.P(x, y)}
		d.DrawString(sc.label)
		shortcutRects = append(shortcutRects, *sc)
		x = sc.rect.Max.X + 8
	}
}

func drawStudioFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	draw.Draw(b.RGBA(), b.RGBA().Bounds(), &image.Uniform{st.th.Background}, image.Point{}, draw.Src)
	if ctx.Err() != nil {
		return
	}

	canvas := previewCanvas(st)
	if ctx.Err() != nil {
		return
	}

	area := canvasArea(st.width, st.height, st.viewport)
	dst := canvasDisplayRect(area, canvas.Bounds().Dx(), canvas.Bounds().Dy())
	if !dst.Empty() {
		xdraw.ApproxBiLinear.Scale(b.RGBA(), dst, canvas, canvas.Bounds(), draw.Src, nil)
	}
	if ctx.Err() != nil {
		return
	}

	if st.loading {
		d := &font.Drawer{Dst: b.RGBA(), Src: image.NewUniform(st.th.Foreground), Face: basicfont.Face7x13}
		msg := "loading…"
		d.Dot = fixed.P(area.Min.X+(area.Dx()-d.MeasureString(msg).Ceil())/2, area.Min.Y+area.Dy()/2)
		d.DrawString(msg)
	}

	drawTabs(b.RGBA(), st)
	drawToolbar(b.RGBA(), st)
	drawStatus(b.RGBA(), st)
	if ctx.Err() != nil {
		return
	}

	if st.message != "" && time.Now().Before(st.messageUntil) {
		// The toast box is always light, so the text stays dark in both themes.
		d := &font.Drawer{Dst: b.RGBA(), Src: image.Black, Face: basicfont.Face7x13}
		wmsg := d.MeasureString(st.message).Ceil()
		px := (st.width - wmsg) / 2
		py := st.height - statusHeight - 16
		rect := image.Rect(px-8, py-14, px+wmsg+8, py+8)
		draw.Draw(b.RGBA(), rect, &image.Uniform{color.RGBA{255, 255, 255, 230}}, image.Point{}, draw.Over)
		d.Dot = fixed.P(px, py)
		d.DrawString(st.message)
	}

	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
