package theme

import (
	"image/color"
	"strings"
)

// Theme defines the color palette for the studio UI.
type Theme struct {
	Name string

	Background color.RGBA // window background behind the canvas
	Foreground color.RGBA // main text color

	ToolbarBackground color.RGBA
	TabBackground     color.RGBA // inactive photo tab
	TabActive         color.RGBA
	TabHover          color.RGBA

	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonText            color.RGBA

	StatusBackground color.RGBA
	Accent           color.RGBA // progress bar, active-mode marker
}

// Default returns the light theme used when nothing is configured.
func Default() *Theme {
	return &Theme{
		Name:                  "default",
		Background:            color.RGBA{220, 220, 220, 255},
		Foreground:            color.RGBA{0, 0, 0, 255},
		ToolbarBackground:     color.RGBA{220, 220, 220, 255},
		TabBackground:         color.RGBA{200, 200, 200, 255},
		TabActive:             color.RGBA{150, 150, 150, 255},
		TabHover:              color.RGBA{180, 180, 180, 255},
		ButtonBackground:      color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover: color.RGBA{180, 180, 180, 255},
		ButtonBackgroundPress: color.RGBA{150, 150, 150, 255},
		ButtonText:            color.RGBA{0, 0, 0, 255},
		StatusBackground:      color.RGBA{220, 220, 220, 255},
		Accent:                color.RGBA{30, 110, 210, 255},
	}
}

// Dark returns the dark theme.
func Dark() *Theme {
	return &Theme{
		Name:                  "dark",
		Background:            color.RGBA{32, 32, 36, 255},
		Foreground:            color.RGBA{230, 230, 230, 255},
		ToolbarBackground:     color.RGBA{44, 44, 48, 255},
		TabBackground:         color.RGBA{52, 52, 58, 255},
		TabActive:             color.RGBA{84, 84, 92, 255},
		TabHover:              color.RGBA{64, 64, 72, 255},
		ButtonBackground:      color.RGBA{52, 52, 58, 255},
		ButtonBackgroundHover: color.RGBA{64, 64, 72, 255},
		ButtonBackgroundPress: color.RGBA{84, 84, 92, 255},
		ButtonText:            color.RGBA{230, 230, 230, 255},
		StatusBackground:      color.RGBA{44, 44, 48, 255},
		Accent:                color.RGBA{90, 160, 255, 255},
	}
}

// Lookup resolves a configured theme name, falling back to the default for
// unknown names.
func Lookup(name string) *Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dark":
		return Dark()
	default:
		return Default()
	}
}
