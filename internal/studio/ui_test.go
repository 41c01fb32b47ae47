package studio

import (
	"image"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/example/framekit/internal/placement"
	"github.com/example/framekit/internal/store"
	"github.com/example/framekit/internal/theme"
)

func TestClassifyViewport(t *testing.T) {
	if got := classifyViewport(1280); got != viewportDesktop {
		t.Errorf("classifyViewport(1280) = %v", got)
	}
	if got := classifyViewport(mobileBreakpoint - 1); got != viewportMobile {
		t.Errorf("classifyViewport(%d) = %v", mobileBreakpoint-1, got)
	}
	if got := classifyViewport(mobileBreakpoint); got != viewportDesktop {
		t.Errorf("classifyViewport(%d) = %v", mobileBreakpoint, got)
	}
}

func TestCanvasDisplayRect(t *testing.T) {
	area := image.Rect(100, 24, 1100, 776)

	// A square canvas in a wide area is height limited and centered.
	r := canvasDisplayRect(area, 1080, 1080)
	if r.Dx() != r.Dy() {
		t.Errorf("square canvas distorted: %v", r)
	}
	if r.Dy() != area.Dy() {
		t.Errorf("height-limited fit expected, got %v in %v", r, area)
	}
	wantX := area.Min.X + (area.Dx()-r.Dx())/2
	if r.Min.X != wantX {
		t.Errorf("not centered: min.X = %d, want %d", r.Min.X, wantX)
	}

	if !canvasDisplayRect(area, 0, 0).Empty() {
		t.Error("zero canvas should produce an empty rect")
	}
	if !canvasDisplayRect(image.Rectangle{}, 1080, 1080).Empty() {
		t.Error("empty area should produce an empty rect")
	}
}

func TestCanvasDisplayRectContained(t *testing.T) {
	area := image.Rect(72, 24, 640, 456)
	for _, dims := range [][2]int{{1080, 1080}, {1920, 1080}, {1080, 1920}, {333, 777}} {
		r := canvasDisplayRect(area, dims[0], dims[1])
		if !r.In(area) {
			t.Errorf("canvas %v escapes area: %v not in %v", dims, r, area)
		}
	}
}

func TestTruncateLabel(t *testing.T) {
	d := &font.Drawer{Face: basicfont.Face7x13}
	if got := truncateLabel(d, "short", 200); got != "short" {
		t.Errorf("short label changed: %q", got)
	}
	long := "a-very-long-photo-file-name.jpg"
	got := truncateLabel(d, long, 60)
	if d.MeasureString(got).Ceil() > 60 {
		t.Errorf("truncated label %q still wider than 60px", got)
	}
}

func TestPreviewCanvasModes(t *testing.T) {
	photo := image.NewRGBA(image.Rect(0, 0, 400, 300))
	frame := image.NewRGBA(image.Rect(0, 0, 100, 100))
	st := store.New()
	st.AddPhoto("p.jpg", "p.jpg")
	base := paintState{
		th:      theme.Default(),
		photos:  st.Photos(),
		current: 0,
	}

	empty := base
	empty.photos = nil
	empty.current = -1
	canvas := previewCanvas(empty)
	if canvas.Bounds().Dx() != 1080 || canvas.Bounds().Dy() != 1080 {
		t.Errorf("placeholder canvas = %v, want 1080x1080 square default", canvas.Bounds())
	}

	crop := base
	crop.photo = photo
	crop.frame = frame
	crop.mode = ModeCrop
	if got := previewCanvas(crop).Bounds(); got.Dx() != 1080 || got.Dy() != 1080 {
		t.Errorf("crop-mode canvas = %v", got)
	}

	frameOnly := base
	frameOnly.frame = frame
	if got := previewCanvas(frameOnly).Bounds(); got.Dx() != 1080 {
		t.Errorf("frame-only canvas = %v", got)
	}
}

func TestPaintStateActiveConfig(t *testing.T) {
	var st paintState
	st.current = -1
	if got := st.activeConfig(); got != placement.Default() {
		t.Errorf("empty state config = %+v", got)
	}
}

func TestHitHelpersFindWidgetsAfterPaint(t *testing.T) {
	st := store.New()
	st.AddPhoto("a.jpg", "a.jpg")
	st.AddPhoto("b.jpg", "b.jpg")
	ps := paintState{
		width:    1100,
		height:   800,
		viewport: viewportDesktop,
		th:       theme.Default(),
		photos:   st.Photos(),
		current:  0,
	}
	dst := image.NewRGBA(image.Rect(0, 0, ps.width, ps.height))
	drawTabs(dst, ps)
	drawStatus(dst, ps)

	// Second tab sits one tab width past the toolbar offset.
	p := image.Pt(viewportDesktop.toolbarWidth()+tabWidth+2, tabHeight/2)
	if got := hitTab(p); got != 1 {
		t.Errorf("hitTab(%v) = %d, want 1", p, got)
	}
	if got := hitTab(image.Pt(2, 2)); got != -1 {
		t.Errorf("hitTab over the title = %d, want -1", got)
	}

	widgetMu.Lock()
	var savePt image.Point
	for _, sc := range shortcutRects {
		if sc.action == "save" {
			savePt = image.Pt(sc.rect.Min.X+1, sc.rect.Min.Y+1)
		}
	}
	widgetMu.Unlock()
	if savePt == (image.Point{}) {
		t.Fatal("no save shortcut drawn")
	}
	if got := hitShortcut(savePt); got != "save" {
		t.Errorf("hitShortcut(%v) = %q, want save", savePt, got)
	}
	if got := hitShortcut(image.Pt(2, 799)); got != "" {
		t.Errorf("hitShortcut over empty bar = %q", got)
	}
}

func TestHitHelpersConcurrentWithPainter(t *testing.T) {
	st := store.New()
	st.AddPhoto("a.jpg", "a.jpg")
	ps := paintState{
		width:    900,
		height:   700,
		viewport: viewportDesktop,
		th:       theme.Default(),
		photos:   st.Photos(),
		current:  0,
	}
	dst := image.NewRGBA(image.Rect(0, 0, ps.width, ps.height))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			drawTabs(dst, ps)
			drawStatus(dst, ps)
		}
	}()
	for i := 0; i < 50; i++ {
		hitTab(image.Pt(120, 10))
		hitShortcut(image.Pt(200, ps.height-10))
		hitTool(image.Pt(10, 100), ps.viewport)
	}
	<-done
}
