// Package studio is the interactive editor: a shiny window where each photo's
// crop and frame placement is adjusted with pointer, wheel and touch input
// while a live preview tracks every change.
package studio

import (
	"context"
	"fmt"
	"image"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"

	"github.com/example/framekit/internal/clipboard"
	"github.com/example/framekit/internal/compose"
	"github.com/example/framekit/internal/export"
	"github.com/example/framekit/internal/imgio"
	"github.com/example/framekit/internal/notify"
	"github.com/example/framekit/internal/placement"
	"github.com/example/framekit/internal/store"
	"github.com/example/framekit/internal/theme"
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

type shortcutList []KeyShortcut

// Studio holds the editor session state.
type Studio struct {
	store     *store.Store
	th        *theme.Theme
	saveDir   string
	exportDir string
	notifier  *notify.Notifier
	runner    *export.Runner

	updateCh  chan struct{}
	onClose   func()
	closeOnce sync.Once
}

// Option modifies a Studio during creation.
type Option func(*Studio)

// WithTheme sets the UI color palette.
func WithTheme(t *theme.Theme) Option { return func(s *Studio) { s.th = t } }

// WithSaveDir sets the directory single composites are saved into.
func WithSaveDir(dir string) Option { return func(s *Studio) { s.saveDir = dir } }

// WithExportDir sets the directory the export archive is written into.
func WithExportDir(dir string) Option { return func(s *Studio) { s.exportDir = dir } }

// WithNotifier routes completion events to desktop notifications.
func WithNotifier(n *notify.Notifier) Option { return func(s *Studio) { s.notifier = n } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(s *Studio) { s.onClose = fn } }

// New creates a Studio over the given asset store.
func New(st *store.Store, opts ...Option) *Studio {
	s := &Studio{
		store:     st,
		th:        theme.Default(),
		saveDir:   ".",
		exportDir: ".",
		runner:    &export.Runner{},
		updateCh:  make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NotifyChanged requests a repaint when the store mutates outside the loop.
func (sd *Studio) NotifyChanged() {
	if sd.updateCh == nil {
		return
	}
	select {
	case sd.updateCh <- struct{}{}:
	default:
	}
}

func (sd *Studio) notifyClose() {
	sd.closeOnce.Do(func() {
		if sd.onClose != nil {
			sd.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (sd *Studio) Run() { driver.Main(sd.Main) }

// Window events sent back into the loop from worker goroutines.
type photoLoadedEvent struct {
	gen uint64
	img *image.RGBA
	err error
}

type frameLoadedEvent struct {
	img *image.RGBA
	err error
}

type exportProgressEvent struct {
	ev export.Event
}

// loadTracker serializes async photo decodes. Every request takes a fresh
// generation and only the newest generation's result is accepted, so a slow
// decode of a previously selected photo can never replace the preview of the
// photo selected after it.
type loadTracker struct {
	gen uint64
}

func (t *loadTracker) next() uint64 {
	t.gen++
	return t.gen
}

func (t *loadTracker) accept(gen uint64) bool {
	return gen == t.gen
}

func (sd *Studio) Main(s screen.Screen) {
	width, height := 1100, 800
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "FrameKit"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer sd.notifyClose()

	if sd.updateCh != nil {
		done := make(chan struct{})
		go func() {
			for {
				select {
				case <-sd.updateCh:
					w.Send(paint.Event{})
				case <-done:
					return
				}
			}
		}()
		defer close(done)
	}

	vp := classifyViewport(width)
	mode := ModeCrop
	var photoImg, frameImg *image.RGBA
	var loads loadTracker
	loading := false
	var drag Drag
	var pinch Pinch
	touches := map[touch.Sequence][2]float32{}
	var message string
	var messageUntil time.Time
	confirmAction := ""
	exportBusy := false
	exportCurrent, exportTotal := 0, 0
	var exportCancel context.CancelFunc
	quitRequested := false

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawStudioFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
		}
	}()
	cancelPaint := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	repaint := func() { w.Send(paint.Event{}) }

	say := func(msg string) {
		message = msg
		log.Print(msg)
		messageUntil = time.Now().Add(2 * time.Second)
	}

	// requestPhoto starts an async decode of the active photo. The tracker
	// drops results that arrive after the selection has already moved on.
	requestPhoto := func() {
		gen := loads.next()
		p, err := sd.store.Active()
		if err != nil {
			photoImg = nil
			loading = false
			return
		}
		loading = true
		go func(source string) {
			img, err := imgio.LoadPhoto(source)
			w.Send(photoLoadedEvent{gen: gen, img: img, err: err})
		}(p.Source)
	}

	requestFrame := func() {
		f := sd.store.Frame()
		if f == nil {
			frameImg = nil
			return
		}
		go func(source string) {
			img, err := imgio.LoadFrame(source)
			w.Send(frameLoadedEvent{img: img, err: err})
		}(f.Source)
	}

	activeConfig := func() placement.Config {
		p, err := sd.store.Active()
		if err != nil {
			return placement.Default()
		}
		return p.Config
	}

	// displayCanvasSize is the on-screen size of the preview canvas, used
	// for the 1:1 frame drag mapping.
	displayCanvasSize := func() (int, int) {
		cfg := activeConfig()
		pw, ph := 0, 0
		if photoImg != nil {
			pw, ph = photoImg.Bounds().Dx(), photoImg.Bounds().Dy()
		}
		cw, ch := placement.CanvasSize(cfg.Canvas, pw, ph)
		r := canvasDisplayRect(canvasArea(width, height, vp), cw, ch)
		return r.Dx(), r.Dy()
	}

	renderComposite := func(exportSize bool) (*image.RGBA, error) {
		if photoImg == nil {
			return nil, fmt.Errorf("no photo loaded")
		}
		cfg := activeConfig()
		pw, ph := photoImg.Bounds().Dx(), photoImg.Bounds().Dy()
		var cw, ch int
		if exportSize {
			cw, ch = placement.ExportCanvasSize(cfg.Canvas, pw, ph)
		} else {
			cw, ch = placement.CanvasSize(cfg.Canvas, pw, ph)
		}
		dst := image.NewRGBA(image.Rect(0, 0, cw, ch))
		q := compose.Preview
		if exportSize {
			q = compose.Export
		}
		compose.Composite(dst, photoImg, frameImg, cfg, q)
		return dst, nil
	}

	keyboardAction := map[KeyShortcut]string{}
	actions := map[string]func(){}
	register := func(name string, keys shortcutList, fn func()) {
		actions[name] = fn
		for _, sc := range keys {
			keyboardAction[sc] = name
		}
	}

	var handleAction func(string)
	handleAction = func(action string) {
		// Destructive actions want a second press.
		if action == "applyall" || action == "delete" {
			if confirmAction != action {
				confirmAction = action
				say("press again to confirm " + action)
				repaint()
				return
			}
		}
		confirmAction = ""
		if fn, ok := actions[action]; ok {
			fn()
		}
		repaint()
	}

	register("modecrop", shortcutList{{Rune: 'c'}}, func() {
		mode = ModeCrop
		drag.Active = false
		pinch.Active = false
	})
	register("modeframe", shortcutList{{Rune: 'f'}}, func() {
		mode = ModeFrame
		drag.Active = false
		pinch.Active = false
	})
	register("reset", shortcutList{{Rune: 'r'}}, func() {
		sd.store.UpdateActive(func(c *placement.Config) {
			if mode == ModeCrop {
				c.ResetCrop()
			} else {
				c.ResetFrame()
			}
		})
		say(fmt.Sprintf("%s reset", mode))
	})
	register("applyall", shortcutList{{Rune: 'a'}}, func() {
		p, err := sd.store.Active()
		if err != nil {
			return
		}
		if err := sd.store.ApplyToAll(p.ID); err != nil {
			log.Printf("apply to all: %v", err)
			return
		}
		say("placement applied to all photos")
	})
	register("delete", shortcutList{{Rune: 'd', Modifiers: key.ModControl}}, func() {
		p, err := sd.store.Active()
		if err != nil {
			return
		}
		if err := sd.store.RemovePhoto(p.ID); err != nil {
			log.Printf("remove photo: %v", err)
			return
		}
		say("removed " + p.Name)
		requestPhoto()
	})
	register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, func() {
		img, err := renderComposite(false)
		if err != nil {
			log.Printf("copy: %v", err)
			return
		}
		if err := clipboard.WriteImage(img); err != nil {
			log.Printf("copy: %v", err)
			return
		}
		say("composite copied to clipboard")
	})
	register("save", shortcutList{{Rune: 's', Modifiers: key.ModControl}}, func() {
		p, err := sd.store.Active()
		if err != nil {
			return
		}
		img, err := renderComposite(true)
		if err != nil {
			log.Printf("save: %v", err)
			return
		}
		base := strings.TrimSuffix(p.Name, filepath.Ext(p.Name))
		path := filepath.Join(sd.saveDir, base+"-framed.png")
		if err := imgio.SavePNG(path, img); err != nil {
			log.Printf("save: %v", err)
			return
		}
		say("saved " + path)
		sd.notifier.Save(path)
	})
	register("export", shortcutList{{Rune: 'e', Modifiers: key.ModControl}}, func() {
		if exportBusy || sd.runner.Running() {
			say("an export is already running")
			return
		}
		f := sd.store.Frame()
		job := export.Job{OutDir: sd.exportDir}
		if f != nil {
			job.FrameSource = f.Source
		}
		for _, p := range sd.store.Photos() {
			job.Items = append(job.Items, export.Item{Source: p.Source, Name: p.Name, Config: p.Config})
		}
		ctx, cancel := context.WithCancel(context.Background())
		events, err := sd.runner.Submit(ctx, job)
		if err != nil {
			cancel()
			say("export: " + err.Error())
			return
		}
		exportCancel = cancel
		exportBusy = true
		exportCurrent, exportTotal = 0, len(job.Items)
		go func() {
			for ev := range events {
				w.Send(exportProgressEvent{ev: ev})
			}
		}()
	})
	register("placements", shortcutList{{Rune: 'p', Modifiers: key.ModControl}}, func() {
		photos := sd.store.Photos()
		if len(photos) == 0 {
			return
		}
		pf := &placement.File{Configs: map[string]placement.Config{}}
		for _, p := range photos {
			pf.Names = append(pf.Names, p.Name)
			pf.Configs[p.Name] = p.Config
		}
		path := filepath.Join(sd.saveDir, "framekit.placements")
		if err := placement.WriteFile(path, pf); err != nil {
			log.Printf("write placements: %v", err)
			return
		}
		say("placements written to " + path)
	})
	register("quit", nil, func() { quitRequested = true })
	for i, cm := range []placement.CanvasMode{
		placement.CanvasSquare, placement.CanvasOriginal, placement.CanvasPortrait,
		placement.CanvasLandscape, placement.CanvasStory,
	} {
		cm := cm
		register("canvas-"+string(cm), shortcutList{{Rune: rune('1' + i)}}, func() {
			sd.store.UpdateActive(func(c *placement.Config) { c.Canvas = cm })
			say("canvas " + string(cm))
		})
	}

	toolButtons = []*CacheButton{
		{Button: &ActionButton{label: "C:Crop", th: sd.th, active: func() bool { return mode == ModeCrop }, onSelect: func() { handleAction("modecrop") }}},
		{Button: &ActionButton{label: "F:Frame", th: sd.th, active: func() bool { return mode == ModeFrame }, onSelect: func() { handleAction("modeframe") }}},
		{Button: &ActionButton{label: "R:Reset", th: sd.th, onSelect: func() { handleAction("reset") }}},
		{Button: &ActionButton{label: "A:All", th: sd.th, onSelect: func() { handleAction("applyall") }}},
		{Button: &ActionButton{label: "^E:Export", th: sd.th, onSelect: func() { handleAction("export") }}},
		{Button: &ActionButton{label: "^S:Save", th: sd.th, onSelect: func() { handleAction("save") }}},
		{Button: &ActionButton{label: "^C:Copy", th: sd.th, onSelect: func() { handleAction("copy") }}},
	}

	snapshot := func() paintState {
		return paintState{
			width:         width,
			height:        height,
			viewport:      vp,
			th:            sd.th,
			mode:          mode,
			photos:        sd.store.Photos(),
			current:       sd.store.ActiveIndex(),
			photo:         photoImg,
			frame:         frameImg,
			loading:       loading,
			message:       message,
			messageUntil:  messageUntil,
			exportBusy:    exportBusy,
			exportCurrent: exportCurrent,
			exportTotal:   exportTotal,
		}
	}

	applyPinchIfReady := func() {
		if len(touches) != 2 {
			return
		}
		var pts [][2]float32
		for _, pt := range touches {
			pts = append(pts, pt)
		}
		dist := touchDistance(pts[0][0], pts[0][1], pts[1][0], pts[1][1])
		if !pinch.Active {
			pinch = BeginPinch(dist)
			drag.Active = false
			return
		}
		if sd.store.Len() == 0 {
			return
		}
		p := &pinch
		sd.store.UpdateActive(func(c *placement.Config) { *c = p.Move(mode, *c, dist) })
		repaint()
	}

	requestFrame()
	requestPhoto()
	repaint()

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case photoLoadedEvent:
			if !loads.accept(e.gen) {
				break
			}
			loading = false
			if e.err != nil {
				log.Printf("load photo: %v", e.err)
				photoImg = nil
				say("could not load photo")
			} else {
				photoImg = e.img
				if p, err := sd.store.Active(); err == nil {
					if err := sd.store.SetBounds(p.ID, e.img.Bounds()); err != nil {
						log.Printf("set bounds: %v", err)
					}
				}
			}
			repaint()
		case frameLoadedEvent:
			if e.err != nil {
				log.Printf("load frame: %v", e.err)
				frameImg = nil
				say("frame must be a PNG image")
			} else {
				frameImg = e.img
				if f := sd.store.Frame(); f != nil {
					f.SetBounds(e.img.Bounds())
				}
			}
			repaint()
		case exportProgressEvent:
			ev := e.ev
			switch {
			case ev.Err != nil:
				exportBusy = false
				exportCancel = nil
				say("export failed: " + ev.Err.Error())
			case ev.Path != "":
				exportBusy = false
				exportCancel = nil
				say("exported " + ev.Path)
				sd.notifier.Export(ev.Path, nil)
			default:
				exportCurrent, exportTotal = ev.Current, ev.Total
			}
			repaint()
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				cancelPaint()
				if exportCancel != nil {
					exportCancel()
				}
				return
			}
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			vp = classifyViewport(width)
			repaint()
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil {
				if dropCount < frameDropThreshold {
					paintCancel()
					dropCount++
				}
			}
			paintMu.Unlock()
			st := snapshot()
			select {
			case paintCh <- st:
			default:
				<-paintCh
				paintCh <- st
			}
		case mouse.Event:
			// Button-up ends a drag no matter which region the pointer is
			// over; a release above the tab bar or toolbar must not leave
			// the gesture live.
			if endsDrag(e, drag) {
				drag.Active = false
			}
			if e.Button == mouse.ButtonWheelUp || e.Button == mouse.ButtonWheelDown {
				if e.Direction == mouse.DirRelease || sd.store.Len() == 0 {
					break
				}
				delta := wheelTickDelta
				if e.Button == mouse.ButtonWheelUp {
					delta = -wheelTickDelta
				}
				sd.store.UpdateActive(func(c *placement.Config) { *c = Wheel(mode, *c, delta) })
				repaint()
				break
			}
			if message != "" && time.Now().Before(messageUntil) && e.Direction == mouse.DirPress {
				messageUntil = time.Time{}
				repaint()
				break
			}
			p := image.Point{int(e.X), int(e.Y)}
			if p.Y >= height-statusHeight {
				action := hitShortcut(p)
				if action != "" && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
					handleAction(action)
				}
				if e.Direction == mouse.DirNone {
					repaint()
				}
				break
			}
			if p.Y < tabHeight {
				if idx := hitTab(p); idx >= 0 && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
					if err := sd.store.SetActive(idx); err == nil {
						requestPhoto()
					}
					repaint()
				}
				if e.Direction == mouse.DirNone {
					repaint()
				}
				break
			}
			if p.X < vp.toolbarWidth() {
				if idx := hitTool(p, vp); idx >= 0 && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
					toolButtons[idx].Activate()
				}
				if e.Direction == mouse.DirNone {
					repaint()
				}
				break
			}

			// Canvas region: gestures against the active photo.
			if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
				if ap, err := sd.store.Active(); err == nil {
					drag = BeginDrag(float64(e.X), float64(e.Y), ap.Config)
				}
				break
			}
			if e.Direction == mouse.DirNone && drag.Active {
				cw, ch := displayCanvasSize()
				cfg := drag.Move(mode, float64(e.X), float64(e.Y), cw, ch)
				sd.store.UpdateActive(func(c *placement.Config) { *c = cfg })
				repaint()
			}
		case touch.Event:
			switch e.Type {
			case touch.TypeBegin:
				touches[e.Sequence] = [2]float32{e.X, e.Y}
				if len(touches) == 1 {
					if ap, err := sd.store.Active(); err == nil {
						drag = BeginDrag(float64(e.X), float64(e.Y), ap.Config)
					}
				}
				applyPinchIfReady()
			case touch.TypeMove:
				touches[e.Sequence] = [2]float32{e.X, e.Y}
				if pinch.Active {
					applyPinchIfReady()
				} else if drag.Active && len(touches) == 1 {
					cw, ch := displayCanvasSize()
					cfg := drag.Move(mode, float64(e.X), float64(e.Y), cw, ch)
					sd.store.UpdateActive(func(c *placement.Config) { *c = cfg })
					repaint()
				}
			case touch.TypeEnd:
				delete(touches, e.Sequence)
				if len(touches) < 2 {
					pinch.Active = false
				}
				if len(touches) == 0 {
					drag.Active = false
				}
			}
		case key.Event:
			if e.Direction != key.DirPress {
				break
			}
			ks := KeyShortcut{Rune: unicode.ToLower(e.Rune), Code: e.Code, Modifiers: e.Modifiers}
			action, ok := keyboardAction[ks]
			if !ok {
				// Rune-only bindings leave Code unset.
				ks.Code = key.CodeUnknown
				action, ok = keyboardAction[ks]
			}
			if ok {
				handleAction(action)
				break
			}
			confirmAction = ""
			switch e.Rune {
			case 'q', 'Q':
				quitRequested = true
			case -1:
				switch e.Code {
				case key.CodeLeftArrow:
					if err := sd.store.SetActive(sd.store.ActiveIndex() - 1); err == nil {
						requestPhoto()
						repaint()
					}
				case key.CodeRightArrow:
					if err := sd.store.SetActive(sd.store.ActiveIndex() + 1); err == nil {
						requestPhoto()
						repaint()
					}
				}
			}
		}
		if quitRequested {
			cancelPaint()
			if exportCancel != nil {
				exportCancel()
			}
			return
		}
	}
}
