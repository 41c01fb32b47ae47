package config

import (
	"fmt"
	"strings"

	"github.com/example/framekit/internal/placement"
)

// Notify holds desktop notification settings.
type Notify struct {
	Export bool
	Save   bool
	Upload bool
}

// Export holds batch export settings.
type Export struct {
	Dir string
}

// Storage holds the remote content backend connection settings.
type Storage struct {
	Endpoint string
	Token    string
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	Canvas  placement.CanvasMode
	Fit     placement.FitMode
	Notify  Notify
	Export  Export
	Storage Storage
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Canvas: placement.CanvasSquare,
		Fit:    placement.FitCover,
		Notify: Notify{
			Export: true,
		},
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	fmt.Fprintf(&sb, "canvas = %s\n", c.Canvas)
	fmt.Fprintf(&sb, "fit = %s\n", c.Fit)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "upload = %v\n", c.Notify.Upload)
	sb.WriteString("\n")

	if c.Export.Dir != "" {
		sb.WriteString("[export]\n")
		fmt.Fprintf(&sb, "dir = %s\n", c.Export.Dir)
		sb.WriteString("\n")
	}

	if c.Storage.Endpoint != "" || c.Storage.Token != "" {
		sb.WriteString("[storage]\n")
		if c.Storage.Endpoint != "" {
			fmt.Fprintf(&sb, "endpoint = %s\n", c.Storage.Endpoint)
		}
		if c.Storage.Token != "" {
			fmt.Fprintf(&sb, "token = %s\n", c.Storage.Token)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
