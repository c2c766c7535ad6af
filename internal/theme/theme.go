package theme

import (
	"image/color"
)

// Theme defines the colors of the viewer. Colors carry straight alpha.
type Theme struct {
	Name string

	// Canvas
	Background   color.RGBA // Behind the image
	CheckerLight color.RGBA // Transparent image areas
	CheckerDark  color.RGBA

	// Features
	FeatureFill color.RGBA // Fill for features that name no color
	Highlight   color.RGBA // Outline of the hovered feature

	// Status line
	HUDBackground color.RGBA
	HUDText       color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:          "Default",
		Background:    color.RGBA{220, 220, 220, 255},
		CheckerLight:  color.RGBA{220, 220, 220, 255},
		CheckerDark:   color.RGBA{192, 192, 192, 255},
		FeatureFill:   color.RGBA{255, 0, 0, 96},
		Highlight:     color.RGBA{255, 200, 0, 255},
		HUDBackground: color.RGBA{0, 0, 0, 160},
		HUDText:       color.RGBA{255, 255, 255, 255},
	}
}
