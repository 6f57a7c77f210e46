package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// blockRenderer handles rendering of content blocks with configurable options.
type blockRenderer struct {
	borderColor  *color.Color
	noBorder     bool
	marginBottom int
	width        int
}

// renderingOption configures block rendering.
type renderingOption func(*blockRenderer)

// WithNoBorder disables the left border, rendering content with padding only.
func WithNoBorder() renderingOption {
	return func(b *blockRenderer) {
		b.noBorder = true
	}
}

// WithBorderColor sets the color of the block's left border.
func WithBorderColor(c color.Color) renderingOption {
	return func(b *blockRenderer) {
		b.borderColor = &c
	}
}

// WithMarginBottom adds blank lines below the block.
func WithMarginBottom(margin int) renderingOption {
	return func(b *blockRenderer) {
		b.marginBottom = margin
	}
}

// renderContentBlock renders content as a padded block, by default with a
// thick colored left border.
func renderContentBlock(content string, containerWidth int, options ...renderingOption) string {
	b := &blockRenderer{width: containerWidth}
	for _, option := range options {
		option(b)
	}

	theme := GetTheme()

	var borderColor color.Color = lipgloss.NoColor{}
	if b.borderColor != nil {
		borderColor = *b.borderColor
	}

	borderChars := 1
	if b.noBorder {
		borderChars = 0
	}

	style := lipgloss.NewStyle().
		PaddingTop(1).
		PaddingBottom(1).
		PaddingLeft(2).
		Foreground(theme.Text).
		Width(b.width - borderChars)

	if !b.noBorder {
		style = style.
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderLeftForeground(borderColor)
	}

	content = style.Render(content)
	for range b.marginBottom {
		content += "\n"
	}
	return content
}
