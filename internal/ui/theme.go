package ui

import (
	"image/color"
	"os"

	"charm.land/lipgloss/v2"
)

// isDarkBg caches the terminal background detection result at package init.
var isDarkBg = lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

// IsDarkBackground returns the cached terminal background detection result.
func IsDarkBackground() bool {
	return isDarkBg
}

// AdaptiveColor picks between a light-mode and dark-mode hex color string
// based on the detected terminal background.
func AdaptiveColor(light, dark string) color.Color {
	if isDarkBg {
		return lipgloss.Color(dark)
	}
	return lipgloss.Color(light)
}

// Theme defines the color scheme for the terminal output, with semantic
// colors for the different message types.
type Theme struct {
	Primary   color.Color
	Success   color.Color
	Warning   color.Color
	Error     color.Color
	Info      color.Color
	Text      color.Color
	Muted     color.Color
	VeryMuted color.Color
	Border    color.Color
	System    color.Color
}

// DefaultTheme returns the default theme, based on the Catppuccin Latte
// (light) and Mocha (dark) palettes.
func DefaultTheme() Theme {
	return Theme{
		Primary:   AdaptiveColor("#8839ef", "#cba6f7"), // Mauve
		Success:   AdaptiveColor("#40a02b", "#a6e3a1"), // Green
		Warning:   AdaptiveColor("#df8e1d", "#f9e2af"), // Yellow
		Error:     AdaptiveColor("#d20f39", "#f38ba8"), // Red
		Info:      AdaptiveColor("#1e66f5", "#89b4fa"), // Blue
		Text:      AdaptiveColor("#4c4f69", "#cdd6f4"), // Text
		Muted:     AdaptiveColor("#6c6f85", "#a6adc8"), // Subtext 0
		VeryMuted: AdaptiveColor("#9ca0b0", "#6c7086"), // Overlay 0
		Border:    AdaptiveColor("#acb0be", "#585b70"), // Surface 2
		System:    AdaptiveColor("#179299", "#94e2d5"), // Teal
	}
}

var currentTheme = DefaultTheme()

// GetTheme returns the currently active theme.
func GetTheme() Theme {
	return currentTheme
}

// SetTheme replaces the active theme for all subsequent rendering.
func SetTheme(theme Theme) {
	currentTheme = theme
}
