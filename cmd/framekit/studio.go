package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/framekit/assets"
	"github.com/example/framekit/internal/placement"
	"github.com/example/framekit/internal/store"
	"github.com/example/framekit/internal/studio"
)

type studioCmd struct {
	*root
	fs *flag.FlagSet

	framePath      string
	placementsPath string
	saveDir        string
	exportDir      string
	photos         []string
}

func (s *studioCmd) FlagSet() *flag.FlagSet { return s.fs }

func parseStudioCmd(args []string, r *root) (*studioCmd, error) {
	fs := flag.NewFlagSet("studio", flag.ExitOnError)
	c := &studioCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.framePath, "frame", "", "PNG overlay composited over every photo")
	fs.StringVar(&c.placementsPath, "placements", "", "placements file to preload per-photo configs from")
	fs.StringVar(&c.saveDir, "save-dir", "", "directory single composites are saved into")
	fs.StringVar(&c.exportDir, "out-dir", "", "directory the export archive is written into")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	c.photos = fs.Args()
	if len(c.photos) == 0 && c.framePath == "" {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (s *studioCmd) Run() error {
	st := store.New()
	if s.framePath != "" {
		st.SetFrame(store.NewFrame(s.framePath, nil))
	} else {
		frame, err := builtinFrame()
		if err != nil {
			return err
		}
		st.SetFrame(frame)
	}
	for _, p := range s.photos {
		st.AddPhoto(p, p)
	}
	if err := s.applyDefaults(st); err != nil {
		return err
	}
	if s.placementsPath != "" {
		if err := s.applyPlacements(st); err != nil {
			return err
		}
	}

	saveDir := s.saveDir
	if saveDir == "" {
		saveDir = s.root.config.SaveDir
	}
	if saveDir == "" {
		saveDir = "."
	}
	exportDir := s.exportDir
	if exportDir == "" {
		exportDir = s.root.config.Export.Dir
	}
	if exportDir == "" {
		exportDir = "."
	}

	ed := studio.New(st,
		studio.WithTheme(s.root.activeTheme),
		studio.WithSaveDir(saveDir),
		studio.WithExportDir(exportDir),
		studio.WithNotifier(s.root.notifier),
	)
	ed.Run()
	return nil
}

// builtinFrame writes the demo frame to a temp file so it loads through the
// same decode path as a user frame. The temp file is removed when the frame
// is replaced.
func builtinFrame() (*store.Frame, error) {
	data, err := assets.DemoFramePNG()
	if err != nil {
		return nil, fmt.Errorf("demo frame: %w", err)
	}
	f, err := os.CreateTemp("", "framekit-demo-*.png")
	if err != nil {
		return nil, err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, err
	}
	path := f.Name()
	return store.NewFrame(path, func() { os.Remove(path) }), nil
}

// applyDefaults seeds every photo with the configured canvas and fit modes.
func (s *studioCmd) applyDefaults(st *store.Store) error {
	for _, p := range st.Photos() {
		err := st.UpdateConfig(p.ID, func(c *placement.Config) {
			c.Canvas = s.root.config.Canvas
			c.Fit = s.root.config.Fit
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *studioCmd) applyPlacements(st *store.Store) error {
	pf, err := placement.ReadFile(s.placementsPath)
	if err != nil {
		return fmt.Errorf("read placements: %w", err)
	}
	for _, p := range st.Photos() {
		cfg, ok := pf.Configs[p.Name]
		if !ok {
			continue
		}
		if err := st.UpdateConfig(p.ID, func(c *placement.Config) { *c = cfg }); err != nil {
			return err
		}
	}
	return nil
}
