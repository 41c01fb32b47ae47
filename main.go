// Command framekit-lite is the original single-window prototype. It composes
// one photo with one frame and lets the placement be adjusted with the mouse.
// The full editor lives in cmd/framekit; this binary stays around for quick
// one-off composites without tabs, config, or export.
package main

import (
	"flag"
	"image"
	"log"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"

	"github.com/example/framekit/internal/clipboard"
	"github.com/example/framekit/internal/compose"
	"github.com/example/framekit/internal/imgio"
	"github.com/example/framekit/internal/placement"
	"github.com/example/framekit/internal/studio"
)

func main() {
	photoPath := flag.String("photo", "", "photo to composite")
	framePath := flag.String("frame", "", "PNG overlay drawn on top")
	output := flag.String("output", "framed.png", "output file path")
	flag.Parse()

	if *photoPath == "" {
		log.Fatal("a -photo is required")
	}
	photo, err := imgio.LoadPhoto(*photoPath)
	if err != nil {
		log.Fatalf("load photo: %v", err)
	}
	var frame *image.RGBA
	if *framePath != "" {
		frame, err = imgio.LoadFrame(*framePath)
		if err != nil {
			log.Fatalf("load frame: %v", err)
		}
	}

	cfg := placement.Default()
	width, height := placement.CanvasSize(cfg.Canvas, photo.Bounds().Dx(), photo.Bounds().Dy())

	driver.Main(func(s screen.Screen) {
		w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "FrameKit Lite"})
		if err != nil {
			log.Fatalf("new window: %v", err)
		}
		defer w.Release()
		b, err := s.NewBuffer(image.Point{width, height})
		if err != nil {
			log.Fatalf("new buffer: %v", err)
		}
		defer b.Release()

		mode := studio.ModeCrop
		var drag studio.Drag

		for {
			e := w.NextEvent()
			switch e := e.(type) {
			case lifecycle.Event:
				if e.To == lifecycle.StageDead {
					return
				}
			case paint.Event:
				compose.Composite(b.RGBA(), photo, frame, cfg, compose.Preview)
				w.Upload(image.Point{}, b, b.Bounds())
				w.Publish()
			case mouse.Event:
				switch {
				case e.Button == mouse.ButtonWheelUp:
					cfg = studio.Wheel(mode, cfg, -10)
					w.Send(paint.Event{})
				case e.Button == mouse.ButtonWheelDown:
					cfg = studio.Wheel(mode, cfg, 10)
					w.Send(paint.Event{})
				case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
					drag = studio.BeginDrag(float64(e.X), float64(e.Y), cfg)
				case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
					drag.Active = false
				case drag.Active && e.Direction == mouse.DirNone:
					cfg = drag.Move(mode, float64(e.X), float64(e.Y), width, height)
					w.Send(paint.Event{})
				}
			case key.Event:
				if e.Direction != key.DirPress {
					break
				}
				switch e.Rune {
				case 'c', 'C':
					mode = studio.ModeCrop
				case 'f', 'F':
					mode = studio.ModeFrame
				case 'r', 'R':
					if mode == studio.ModeCrop {
						cfg.ResetCrop()
					} else {
						cfg.ResetFrame()
					}
					w.Send(paint.Event{})
				case 'y', 'Y':
					if err := clipboard.WriteImage(b.RGBA()); err != nil {
						log.Printf("copy: %v", err)
					}
				case 's', 'S':
					cw, ch := placement.ExportCanvasSize(cfg.Canvas, photo.Bounds().Dx(), photo.Bounds().Dy())
					dst := image.NewRGBA(image.Rect(0, 0, cw, ch))
					compose.Composite(dst, photo, frame, cfg, compose.Export)
					if err := imgio.SavePNG(*output, dst); err != nil {
						log.Printf("save: %v", err)
						break
					}
					log.Printf("saved %s", *output)
				case 'q', 'Q':
					return
				}
			}
		}
	})
}
