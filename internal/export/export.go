// Package export runs batch composites off the interactive path. A runner
// spawns one worker goroutine per submitted job, streams progress events
// back over a channel and packages the results into a single zip archive.
// No state is shared with the caller: the job carries value snapshots of
// every photo's config, so UI edits during a run never leak into it.
package export

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/example/framekit/internal/compose"
	"github.com/example/framekit/internal/imgio"
	"github.com/example/framekit/internal/placement"
)

// ArchiveName is the fixed base name of the produced archive.
const ArchiveName = "framekit-export.zip"

var (
	ErrInFlight = errors.New("an export is already running")
	ErrNoFrame  = errors.New("no frame set")
	ErrNoPhotos = errors.New("no photos to export")
)

// Item is one photo's snapshot inside a job.
type Item struct {
	Source string
	Name   string
	Config placement.Config
}

// Job describes a whole batch: the frame source plus every photo with its
// own placement config, copied by value at submission time.
type Job struct {
	FrameSource string
	Items       []Item
	// OutDir receives the archive; empty means the working directory.
	OutDir string
}

// Event is a progress message from the worker. Exactly one of the terminal
// fields is set on the final event.
type Event struct {
	// Current/Total track per-photo progress; Current is strictly
	// monotonic and counts completed photos.
	Current int
	Total   int
	// Path is set on the completion event and names the written archive.
	Path string
	// Err is set when the run failed; the partial archive is discarded.
	Err error
}

func (e Event) Done() bool { return e.Path != "" || e.Err != nil }

// Runner guards against overlapping exports. The zero value is ready.
type Runner struct {
	mu      sync.Mutex
	running bool
}

// Running reports whether a job is currently in flight.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Submit validates the job and, when another run is not already in flight,
// starts a worker goroutine for it. The returned channel delivers progress
// events and closes after the terminal event. Cancelling ctx aborts the run
// and discards the partial archive.
func (r *Runner) Submit(ctx context.Context, job Job) (<-chan Event, error) {
	if strings.TrimSpace(job.FrameSource) == "" {
		return nil, ErrNoFrame
	}
	if len(job.Items) == 0 {
		return nil, ErrNoPhotos
	}

	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil, ErrInFlight
	}
	r.running = true
	r.mu.Unlock()

	events := make(chan Event, len(job.Items)+1)
	go func() {
		defer close(events)
		defer func() {
			r.mu.Lock()
			r.running = false
			r.mu.Unlock()
		}()
		path, err := r.run(ctx, job, events)
		if err != nil {
			events <- Event{Err: err, Total: len(job.Items)}
			return
		}
		events <- Event{Current: len(job.Items), Total: len(job.Items), Path: path}
	}()
	return events, nil
}

func (r *Runner) run(ctx context.Context, job Job, events chan<- Event) (string, error) {
	frame, err := imgio.LoadFrame(job.FrameSource)
	if err != nil {
		return "", fmt.Errorf("load frame: %w", err)
	}

	outDir := job.OutDir
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(outDir, ArchiveName)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	discard := func() {
		f.Close()
		os.Remove(path)
	}

	zw := zip.NewWriter(f)
	total := len(job.Items)
	for i, item := range job.Items {
		if err := ctx.Err(); err != nil {
			discard()
			return "", err
		}
		if err := r.composeOne(zw, frame, i, item); err != nil {
			discard()
			return "", fmt.Errorf("photo %d (%s): %w", i+1, item.Name, err)
		}
		events <- Event{Current: i + 1, Total: total}
	}

	if err := zw.Close(); err != nil {
		discard()
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func (r *Runner) composeOne(zw *zip.Writer, frame *image.RGBA, idx int, item Item) error {
	photo, err := imgio.LoadPhoto(item.Source)
	if err != nil {
		return err
	}
	w, h := placement.ExportCanvasSize(item.Config.Canvas, photo.Bounds().Dx(), photo.Bounds().Dy())
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	compose.Composite(canvas, photo, frame, item.Config, compose.Export)

	entry, err := zw.Create(EntryName(idx, item.Name))
	if err != nil {
		return err
	}
	return imgio.EncodePNG(entry, canvas)
}

// EntryName builds the archive member name for a photo. The 1-based index
// prefix keeps entries collision-free even when two photos share a source
// filename.
func EntryName(idx int, name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "photo"
	}
	return fmt.Sprintf("%03d_%s.png", idx+1, base)
}
