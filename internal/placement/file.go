package placement

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// File holds the per-photo configs of a session keyed by the photo's display
// name, in the order they should be processed.
type File struct {
	Names   []string
	Configs map[string]Config
}

// ReadFile loads a placements file written by WriteFile or by hand.
func ReadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads placements in rc format: one [photo.<name>] section per photo
// with key = value lines for each config field. Blank lines and #-comments
// are ignored.
func Parse(r io.Reader) (*File, error) {
	out := &File{Configs: map[string]Config{}}
	scanner := bufio.NewScanner(r)

	var current string
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
			section := strings.TrimSuffix(strings.TrimPrefix(text, "["), "]")
			name, ok := strings.CutPrefix(section, "photo.")
			if !ok || name == "" {
				return nil, fmt.Errorf("line %d: unknown section [%s]", line, section)
			}
			if _, dup := out.Configs[name]; dup {
				return nil, fmt.Errorf("line %d: duplicate photo %q", line, name)
			}
			current = name
			out.Names = append(out.Names, name)
			out.Configs[name] = Default()
			continue
		}
		if current == "" {
			return nil, fmt.Errorf("line %d: value outside a [photo.*] section", line)
		}
		key, value, ok := strings.Cut(text, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected key = value", line)
		}
		cfg := out.Configs[current]
		if err := setField(&cfg, strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out.Configs[current] = cfg.Clamp()
	}
	return out, scanner.Err()
}

// WriteFile persists configs so a later batch run can reuse an interactive
// session's per-photo placements.
func WriteFile(path string, f *File) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(out, f.String()); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// String renders the file in the same format Parse accepts. Photos without
// a recorded order are appended sorted by name for deterministic output.
func (f *File) String() string {
	var sb strings.Builder
	seen := map[string]bool{}
	names := append([]string(nil), f.Names...)
	for _, n := range names {
		seen[n] = true
	}
	var rest []string
	for n := range f.Configs {
		if !seen[n] {
			rest = append(rest, n)
		}
	}
	sort.Strings(rest)
	names = append(names, rest...)

	for _, name := range names {
		cfg, ok := f.Configs[name]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "[photo.%s]\n", name)
		fmt.Fprintf(&sb, "crop_x = %s\n", formatFloat(cfg.CropX))
		fmt.Fprintf(&sb, "crop_y = %s\n", formatFloat(cfg.CropY))
		fmt.Fprintf(&sb, "crop_size = %s\n", formatFloat(cfg.CropSize))
		fmt.Fprintf(&sb, "frame_scale = %s\n", formatFloat(cfg.FrameScale))
		fmt.Fprintf(&sb, "frame_x = %s\n", formatFloat(cfg.FrameX))
		fmt.Fprintf(&sb, "frame_y = %s\n", formatFloat(cfg.FrameY))
		fmt.Fprintf(&sb, "fit = %s\n", cfg.Fit)
		fmt.Fprintf(&sb, "canvas = %s\n", cfg.Canvas)
		sb.WriteString("\n")
	}
	return sb.String()
}

func setField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "fit":
		cfg.Fit = FitMode(strings.ToLower(value))
	case "canvas":
		cfg.Canvas = CanvasMode(strings.ToLower(value))
	default:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
		switch strings.ToLower(key) {
		case "crop_x":
			cfg.CropX = v
		case "crop_y":
			cfg.CropY = v
		case "crop_size":
			cfg.CropSize = v
		case "frame_scale":
			cfg.FrameScale = v
		case "frame_x":
			cfg.FrameX = v
		case "frame_y":
			cfg.FrameY = v
		default:
			// Ignore unknown keys so old files keep loading.
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
