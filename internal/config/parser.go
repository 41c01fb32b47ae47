package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/framekit/internal/placement"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			continue
		}

		// Parse Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch currentSection {
		case "":
			err = setRootField(cfg, key, value)
		case "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case "export":
			err = setExportField(&cfg.Export, key, value)
		case "storage":
			err = setStorageField(&cfg.Storage, key, value)
		default:
			// Ignore unknown sections so old files keep loading.
		}
		if err != nil {
			return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "canvas":
		mode := placement.CanvasMode(strings.ToLower(value))
		switch mode {
		case placement.CanvasSquare, placement.CanvasOriginal, placement.CanvasPortrait,
			placement.CanvasLandscape, placement.CanvasStory:
			cfg.Canvas = mode
		default:
			return fmt.Errorf("unknown canvas mode %q", value)
		}
	case "fit":
		fit := placement.FitMode(strings.ToLower(value))
		switch fit {
		case placement.FitCover, placement.FitContain, placement.FitFill:
			cfg.Fit = fit
		default:
			return fmt.Errorf("unknown fit mode %q", value)
		}
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "export":
		n.Export = b
	case "save":
		n.Save = b
	case "upload":
		n.Upload = b
	}
	return nil
}

func setExportField(e *Export, key, value string) error {
	switch strings.ToLower(key) {
	case "dir":
		e.Dir = value
	}
	return nil
}

func setStorageField(s *Storage, key, value string) error {
	switch strings.ToLower(key) {
	case "endpoint":
		s.Endpoint = value
	case "token":
		s.Token = value
	}
	return nil
}
