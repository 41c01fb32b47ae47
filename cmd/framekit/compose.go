package main

import (
	"flag"
	"fmt"
	"image"

	"github.com/example/framekit/internal/compose"
	"github.com/example/framekit/internal/imgio"
	"github.com/example/framekit/internal/placement"
)

type composeCmd struct {
	*root
	fs *flag.FlagSet

	photoPath string
	framePath string
	output    string
	canvas    string
	fit       string

	cropX      float64
	cropY      float64
	cropSize   float64
	frameScale float64
	frameX     float64
	frameY     float64
	cropped    bool
}

func (c *composeCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseComposeCmd(args []string, r *root) (*composeCmd, error) {
	fs := flag.NewFlagSet("compose", flag.ExitOnError)
	c := &composeCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.photoPath, "photo", "", "photo to composite")
	fs.StringVar(&c.framePath, "frame", "", "PNG overlay drawn on top")
	fs.StringVar(&c.output, "out", "composite.png", "output PNG path")
	fs.StringVar(&c.canvas, "canvas", "", "canvas preset (square, original, portrait, landscape, story)")
	fs.StringVar(&c.fit, "fit", "", "fit policy when no crop flags are given (cover, contain, fill)")
	fs.Float64Var(&c.cropX, "crop-x", 0, "crop window x offset in percent of slack")
	fs.Float64Var(&c.cropY, "crop-y", 0, "crop window y offset in percent of slack")
	fs.Float64Var(&c.cropSize, "crop-size", 100, "crop window size in percent of the limiting dimension")
	fs.Float64Var(&c.frameScale, "frame-scale", 1, "frame scale factor")
	fs.Float64Var(&c.frameX, "frame-x", 0, "frame x offset in percent of canvas width")
	fs.Float64Var(&c.frameY, "frame-y", 0, "frame y offset in percent of canvas height")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.photoPath == "" {
		return nil, &UsageError{of: c}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "crop-x", "crop-y", "crop-size":
			c.cropped = true
		}
	})
	return c, nil
}

func (c *composeCmd) placementConfig() (placement.Config, error) {
	cfg := placement.Default()
	cfg.Canvas = c.root.config.Canvas
	cfg.Fit = c.root.config.Fit
	if c.canvas != "" {
		switch cm := placement.CanvasMode(c.canvas); cm {
		case placement.CanvasSquare, placement.CanvasOriginal, placement.CanvasPortrait,
			placement.CanvasLandscape, placement.CanvasStory:
			cfg.Canvas = cm
		default:
			return cfg, fmt.Errorf("unknown canvas mode %q", c.canvas)
		}
	}
	if c.fit != "" {
		switch fm := placement.FitMode(c.fit); fm {
		case placement.FitCover, placement.FitContain, placement.FitFill:
			cfg.Fit = fm
		default:
			return cfg, fmt.Errorf("unknown fit mode %q", c.fit)
		}
	}
	cfg.CropX = c.cropX
	cfg.CropY = c.cropY
	cfg.CropSize = c.cropSize
	cfg.FrameScale = c.frameScale
	cfg.FrameX = c.frameX
	cfg.FrameY = c.frameY
	return cfg.Clamp(), nil
}

func (c *composeCmd) Run() error {
	cfg, err := c.placementConfig()
	if err != nil {
		return err
	}

	photo, err := imgio.LoadPhoto(c.photoPath)
	if err != nil {
		return fmt.Errorf("load photo: %w", err)
	}
	var frame *image.RGBA
	if c.framePath != "" {
		frame, err = imgio.LoadFrame(c.framePath)
		if err != nil {
			return fmt.Errorf("load frame: %w", err)
		}
	}

	cw, ch := placement.ExportCanvasSize(cfg.Canvas, photo.Bounds().Dx(), photo.Bounds().Dy())
	dst := image.NewRGBA(image.Rect(0, 0, cw, ch))
	if c.cropped {
		compose.Composite(dst, photo, frame, cfg, compose.Export)
	} else {
		compose.Single(dst, photo, frame, cfg, compose.Export)
	}

	if err := imgio.SavePNG(c.output, dst); err != nil {
		return fmt.Errorf("save composite: %w", err)
	}
	fmt.Printf("wrote %s (%dx%d)\n", c.output, cw, ch)
	c.root.notifySave(c.output)
	return nil
}
