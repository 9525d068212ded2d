package config

// Color and style definitions for the terminal UI: tcell colors plus tview
// color tags for inline markup.

import (
	"github.com/gdamore/tcell/v2"
)

// ColorConfig holds the colors the TUI renders with.
type ColorConfig struct {
	// Todo list rows
	TodoSelectedText       tcell.Color
	TodoSelectedBackground tcell.Color
	CompletedText          string // tview color string like "[#5f875f]"
	CanceledText           string // tview color string like "[#767676]"
	OverdueText            string // tview color string like "[red]"
	DueText                string // tview color string like "[#767676]"
	TagText                string // tview color string like "[fuchsia]"
	ProjectText            string // tview color string like "[#5a6f8f]"

	// Chrome
	TitleText   tcell.Color
	Border      tcell.Color
	StatusText  tcell.Color
	HelpKeyText string // tview color string like "[yellow]"
	HelpText    string // tview color string like "[#b8b8b8]"
}

// DefaultColors returns the default color configuration
func DefaultColors() *ColorConfig {
	return &ColorConfig{
		TodoSelectedText:       tcell.ColorBlack,
		TodoSelectedBackground: tcell.PaletteColor(117), // Light Blue (ANSI 117)
		CompletedText:          "[#5f875f]",             // Muted green
		CanceledText:           "[#767676]",             // Darker gray
		OverdueText:            "[red]",
		DueText:                "[#767676]",
		TagText:                "[fuchsia]",
		ProjectText:            "[#5a6f8f]", // Blueish gray

		TitleText:   tcell.ColorAqua,
		Border:      tcell.NewRGBColor(68, 68, 68),
		StatusText:  tcell.NewRGBColor(184, 184, 184),
		HelpKeyText: "[yellow]",
		HelpText:    "[#b8b8b8]",
	}
}

// Global color config instance
var globalColors *ColorConfig
var colorsInitialized bool

// GetColors returns the global color configuration with theme-aware overrides
func GetColors() *ColorConfig {
	if !colorsInitialized {
		globalColors = DefaultColors()
		// Apply theme-aware overrides for critical text colors
		if GetEffectiveTheme() == "light" {
			globalColors.TodoSelectedText = tcell.ColorWhite
			globalColors.TodoSelectedBackground = tcell.ColorNavy
			globalColors.CompletedText = "[#2e7d32]"
			globalColors.CanceledText = "[#9e9e9e]"
			globalColors.DueText = "[#606060]"
			globalColors.TitleText = tcell.ColorNavy
			globalColors.StatusText = tcell.NewRGBColor(64, 64, 64)
			globalColors.HelpKeyText = "[olive]"
			globalColors.HelpText = "[#404040]"
		}
		colorsInitialized = true
	}
	return globalColors
}

// SetColors sets a custom color configuration
func SetColors(colors *ColorConfig) {
	globalColors = colors
	colorsInitialized = true
}
