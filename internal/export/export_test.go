package export

import (
	"archive/zip"
	"context"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/framekit/internal/imgio"
	"github.com/example/framekit/internal/placement"
)

func writePNG(t *testing.T, dir, name string, w, h int, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	path := filepath.Join(dir, name)
	require.NoError(t, imgio.SavePNG(path, img))
	return path
}

func drain(t *testing.T, events <-chan Event) []Event {
	t.Helper()
	var out []Event
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

func TestSubmitValidation(t *testing.T) {
	var r Runner

	_, err := r.Submit(context.Background(), Job{Items: []Item{{Source: "x"}}})
	assert.ErrorIs(t, err, ErrNoFrame)

	_, err = r.Submit(context.Background(), Job{FrameSource: "frame.png"})
	assert.ErrorIs(t, err, ErrNoPhotos)
	assert.False(t, r.Running(), "failed validation must not leave the runner busy")
}

func TestExportProducesArchive(t *testing.T) {
	dir := t.TempDir()
	frame := writePNG(t, dir, "frame.png", 50, 50, color.RGBA{0, 0, 255, 255})
	photoA := writePNG(t, dir, "a.png", 200, 100, color.RGBA{255, 0, 0, 255})
	photoB := writePNG(t, dir, "b.png", 120, 240, color.RGBA{0, 255, 0, 255})

	cfg := placement.Default()
	var r Runner
	events, err := r.Submit(context.Background(), Job{
		FrameSource: frame,
		OutDir:      dir,
		Items: []Item{
			{Source: photoA, Name: "a.png", Config: cfg},
			{Source: photoB, Name: "b.png", Config: cfg},
		},
	})
	require.NoError(t, err)

	got := drain(t, events)
	require.Len(t, got, 3)
	assert.Equal(t, Event{Current: 1, Total: 2}, got[0])
	assert.Equal(t, Event{Current: 2, Total: 2}, got[1])
	require.True(t, got[2].Done())
	require.NoError(t, got[2].Err)
	assert.Equal(t, filepath.Join(dir, ArchiveName), got[2].Path)
	assert.False(t, r.Running())

	zr, err := zip.OpenReader(got[2].Path)
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 2)
	assert.Equal(t, "001_a.png", zr.File[0].Name)
	assert.Equal(t, "002_b.png", zr.File[1].Name)
}

func TestExportDuplicateNamesStayDistinct(t *testing.T) {
	dir := t.TempDir()
	frame := writePNG(t, dir, "frame.png", 10, 10, color.RGBA{0, 0, 0, 255})
	photo := writePNG(t, dir, "same.png", 40, 40, color.RGBA{255, 255, 255, 255})

	items := []Item{
		{Source: photo, Name: "same.png", Config: placement.Default()},
		{Source: photo, Name: "same.png", Config: placement.Default()},
	}
	var r Runner
	events, err := r.Submit(context.Background(), Job{FrameSource: frame, OutDir: dir, Items: items})
	require.NoError(t, err)
	got := drain(t, events)

	zr, err := zip.OpenReader(got[len(got)-1].Path)
	require.NoError(t, err)
	defer zr.Close()
	names := map[string]bool{}
	for _, f := range zr.File {
		assert.False(t, names[f.Name], "duplicate entry %s", f.Name)
		names[f.Name] = true
	}
}

func TestExportSingleFlight(t *testing.T) {
	dir := t.TempDir()
	frame := writePNG(t, dir, "frame.png", 10, 10, color.RGBA{0, 0, 0, 255})

	var photos []Item
	for i := 0; i < 20; i++ {
		photos = append(photos, Item{
			Source: writePNG(t, dir, "frame.png", 10, 10, color.RGBA{9, 9, 9, 255}),
			Name:   "p.png",
			Config: placement.Default(),
		})
	}

	var r Runner
	events, err := r.Submit(context.Background(), Job{FrameSource: frame, OutDir: dir, Items: photos})
	require.NoError(t, err)

	_, err = r.Submit(context.Background(), Job{FrameSource: frame, OutDir: dir, Items: photos[:1]})
	assert.ErrorIs(t, err, ErrInFlight)

	drain(t, events)
	assert.False(t, r.Running())
}

func TestExportBadPhotoAbortsRun(t *testing.T) {
	dir := t.TempDir()
	frame := writePNG(t, dir, "frame.png", 10, 10, color.RGBA{0, 0, 0, 255})
	good := writePNG(t, dir, "good.png", 30, 30, color.RGBA{1, 2, 3, 255})
	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not a png"), 0o644))

	var r Runner
	events, err := r.Submit(context.Background(), Job{
		FrameSource: frame,
		OutDir:      dir,
		Items: []Item{
			{Source: good, Name: "good.png", Config: placement.Default()},
			{Source: bad, Name: "bad.png", Config: placement.Default()},
			{Source: good, Name: "never.png", Config: placement.Default()},
		},
	})
	require.NoError(t, err)
	got := drain(t, events)

	last := got[len(got)-1]
	require.Error(t, last.Err)
	assert.ErrorContains(t, last.Err, "bad.png")

	// Partial archive is discarded, never published.
	_, statErr := os.Stat(filepath.Join(dir, ArchiveName))
	assert.True(t, os.IsNotExist(statErr))

	// Progress stopped at the failing photo; nothing ran after it.
	for _, ev := range got[:len(got)-1] {
		assert.LessOrEqual(t, ev.Current, 1)
	}
}

func TestExportCancel(t *testing.T) {
	dir := t.TempDir()
	frame := writePNG(t, dir, "frame.png", 10, 10, color.RGBA{0, 0, 0, 255})
	photo := writePNG(t, dir, "p.png", 30, 30, color.RGBA{1, 2, 3, 255})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var r Runner
	events, err := r.Submit(ctx, Job{
		FrameSource: frame,
		OutDir:      dir,
		Items:       []Item{{Source: photo, Name: "p.png", Config: placement.Default()}},
	})
	require.NoError(t, err)
	got := drain(t, events)
	require.NotEmpty(t, got)
	assert.ErrorIs(t, got[len(got)-1].Err, context.Canceled)

	_, statErr := os.Stat(filepath.Join(dir, ArchiveName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestEntryName(t *testing.T) {
	assert.Equal(t, "001_holiday.png", EntryName(0, "holiday.jpg"))
	assert.Equal(t, "012_img.png", EntryName(11, "/uploads/img.png"))
	assert.Equal(t, "002_photo.png", EntryName(1, "  "))
}
