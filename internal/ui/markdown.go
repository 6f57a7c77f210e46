package ui

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
)

// uintPtr returns a pointer to u. Used by ansi.StyleConfig fields.
func uintPtr(u uint) *uint { return &u }

func boolPtr(b bool) *bool { return &b }

// GetMarkdownRenderer creates a glamour.TermRenderer configured with our
// color scheme and word-wrapped to the given width.
func GetMarkdownRenderer(width int) *glamour.TermRenderer {
	r, _ := glamour.NewTermRenderer(
		glamour.WithStyles(markdownStyleConfig()),
		glamour.WithWordWrap(width),
	)
	return r
}

// colorScheme holds resolved color values for markdown rendering.
type colorScheme struct {
	text    string
	muted   string
	heading string
	emph    string
	strong  string
	link    string
	code    string
	keyword string
	str     string
	number  string
	comment string
}

func resolveColorScheme() colorScheme {
	if IsDarkBackground() {
		return colorScheme{
			text: "#F9FAFB", muted: "#9CA3AF",
			heading: "#22D3EE", emph: "#FDE047",
			strong: "#F9FAFB", link: "#60A5FA",
			code: "#D1D5DB",
			keyword: "#C084FC", str: "#34D399",
			number: "#FBBF24", comment: "#9CA3AF",
		}
	}
	return colorScheme{
		text: "#1F2937", muted: "#6B7280",
		heading: "#0891B2", emph: "#D97706",
		strong: "#1F2937", link: "#2563EB",
		code: "#374151",
		keyword: "#7C3AED", str: "#059669",
		number: "#D97706", comment: "#6B7280",
	}
}

// markdownStyleConfig creates an ansi.StyleConfig for markdown rendering.
func markdownStyleConfig() ansi.StyleConfig {
	cs := resolveColorScheme()

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color: &cs.text,
			},
			Margin: uintPtr(0),
		},
		BlockQuote: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:  &cs.muted,
				Italic: boolPtr(true),
				Prefix: "┃ ",
			},
			Indent: uintPtr(1),
		},
		List: ansi.StyleList{
			LevelIndent: 2,
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{
					Color: &cs.text,
				},
			},
		},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color: &cs.heading,
				Bold:  boolPtr(true),
			},
		},
		H1: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Prefix: "# ",
			},
		},
		H2: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Prefix: "## ",
			},
		},
		H3: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Prefix: "### ",
			},
		},
		Emph: ansi.StylePrimitive{
			Color:  &cs.emph,
			Italic: boolPtr(true),
		},
		Strong: ansi.StylePrimitive{
			Color: &cs.strong,
			Bold:  boolPtr(true),
		},
		Link: ansi.StylePrimitive{
			Color:     &cs.link,
			Underline: boolPtr(true),
		},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color: &cs.code,
			},
		},
		CodeBlock: ansi.StyleCodeBlock{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{
					Color: &cs.code,
				},
				Margin: uintPtr(1),
			},
			Chroma: &ansi.Chroma{
				Text: ansi.StylePrimitive{
					Color: &cs.text,
				},
				Keyword: ansi.StylePrimitive{
					Color: &cs.keyword,
				},
				Literal: ansi.StylePrimitive{
					Color: &cs.str,
				},
				LiteralString: ansi.StylePrimitive{
					Color: &cs.str,
				},
				LiteralNumber: ansi.StylePrimitive{
					Color: &cs.number,
				},
				Comment: ansi.StylePrimitive{
					Color:  &cs.comment,
					Italic: boolPtr(true),
				},
			},
		},
		HorizontalRule: ansi.StylePrimitive{
			Color:  &cs.muted,
			Format: "\n──────\n",
		},
	}
}
