package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/example/framekit/internal/export"
	"github.com/example/framekit/internal/placement"
)

type batchCmd struct {
	*root
	fs *flag.FlagSet

	framePath      string
	outDir         string
	placementsPath string
	photos         []string
}

func (b *batchCmd) FlagSet() *flag.FlagSet { return b.fs }

func parseBatchCmd(args []string, r *root) (*batchCmd, error) {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	c := &batchCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.framePath, "frame", "", "PNG overlay composited over every photo")
	fs.StringVar(&c.outDir, "out-dir", "", "directory the archive is written into")
	fs.StringVar(&c.placementsPath, "placements", "", "placements file with per-photo configs")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	c.photos = fs.Args()
	if c.framePath == "" || len(c.photos) == 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (b *batchCmd) buildJob() (export.Job, error) {
	outDir := b.outDir
	if outDir == "" {
		outDir = b.root.config.Export.Dir
	}
	if outDir == "" {
		outDir = "."
	}

	var pf *placement.File
	if b.placementsPath != "" {
		var err error
		pf, err = placement.ReadFile(b.placementsPath)
		if err != nil {
			return export.Job{}, fmt.Errorf("read placements: %w", err)
		}
	}

	job := export.Job{FrameSource: b.framePath, OutDir: outDir}
	for _, photo := range b.photos {
		name := filepath.Base(photo)
		cfg := placement.Default()
		cfg.Canvas = b.root.config.Canvas
		cfg.Fit = b.root.config.Fit
		if pf != nil {
			if c, ok := pf.Configs[name]; ok {
				cfg = c
			}
		}
		job.Items = append(job.Items, export.Item{Source: photo, Name: name, Config: cfg})
	}
	return job, nil
}

func (b *batchCmd) Run() error {
	job, err := b.buildJob()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := &export.Runner{}
	events, err := runner.Submit(ctx, job)
	if err != nil {
		return err
	}

	for ev := range events {
		switch {
		case ev.Err != nil:
			return fmt.Errorf("export: %w", ev.Err)
		case ev.Path != "":
			fmt.Printf("wrote %s (%d photos)\n", ev.Path, len(job.Items))
			b.root.notifyExport(ev.Path)
		default:
			fmt.Printf("composited %d/%d\n", ev.Current, ev.Total)
		}
	}
	return nil
}
