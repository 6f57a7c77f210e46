package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"golang.org/x/term"
)

// CLI manages terminal output for a single invocation: the final response,
// errors, informational notices, and the loading spinner. It supports a
// standard mode with markdown rendering and a compact mode with plain
// styling for scripting and narrow terminals.
type CLI struct {
	width   int
	compact bool
	debug   bool
}

// NewCLI creates a CLI sized to the current terminal. Compact mode disables
// markdown rendering and block decoration.
func NewCLI(debug, compact bool) *CLI {
	c := &CLI{
		compact: compact,
		debug:   debug,
	}
	c.updateSize()
	return c
}

// ShowSpinner displays the "Thinking…" spinner while action runs. The
// spinner is stopped before ShowSpinner returns on every path, so callers
// can print immediately afterwards without colliding with an animation
// frame.
func (c *CLI) ShowSpinner(action func() error) error {
	return ShowSpinner("Thinking…", action)
}

// DisplayAssistantMessage renders the model's response. Standard mode
// renders markdown inside a padded block with a model/timestamp footer;
// compact mode prints the text as-is.
func (c *CLI) DisplayAssistantMessage(content, modelName string) {
	if c.compact {
		fmt.Println(strings.TrimRight(content, "\n"))
		return
	}

	theme := GetTheme()
	body := c.renderMarkdown(content, c.width-8)
	if strings.TrimSpace(content) == "" {
		body = lipgloss.NewStyle().
			Italic(true).
			Foreground(theme.Muted).
			Render("No response")
	}

	if modelName == "" {
		modelName = "Assistant"
	}
	info := fmt.Sprintf(" %s (%s)", modelName, time.Now().Local().Format("15:04"))

	full := strings.TrimSuffix(body, "\n") + "\n" +
		lipgloss.NewStyle().Foreground(theme.VeryMuted).Render(info)

	fmt.Println(renderContentBlock(full, c.width, WithNoBorder(), WithMarginBottom(1)))
}

// DisplayError renders a failure with the theme's error styling.
func (c *CLI) DisplayError(err error) {
	theme := GetTheme()
	if c.compact {
		prefix := lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("Error:")
		fmt.Fprintf(os.Stderr, "%s %s\n", prefix, err.Error())
		return
	}
	content := lipgloss.NewStyle().Foreground(theme.Error).Render(err.Error())
	fmt.Fprintln(os.Stderr, renderContentBlock(content, c.width, WithBorderColor(theme.Error), WithMarginBottom(1)))
}

// DisplayInfo renders an informational system notice.
func (c *CLI) DisplayInfo(message string) {
	theme := GetTheme()
	if c.compact {
		fmt.Println(lipgloss.NewStyle().Foreground(theme.System).Render(message))
		return
	}
	fmt.Println(renderContentBlock(message, c.width, WithBorderColor(theme.System), WithMarginBottom(1)))
}

// DisplayWarning prints a warning line to stderr. Used for skipped
// malformed stream lines, which must not pollute stdout mid-stream.
func (c *CLI) DisplayWarning(message string) {
	theme := GetTheme()
	prefix := lipgloss.NewStyle().Foreground(theme.Warning).Render("[WARN]")
	fmt.Fprintf(os.Stderr, "\n%s %s\n", prefix, message)
}

// DisplayDebugMessage prints a muted diagnostic line when debug mode is on.
func (c *CLI) DisplayDebugMessage(message string) {
	if !c.debug {
		return
	}
	theme := GetTheme()
	fmt.Fprintln(os.Stderr, lipgloss.NewStyle().Foreground(theme.Muted).Render("▪ "+message))
}

// renderMarkdown renders markdown content with the shared glamour renderer.
func (c *CLI) renderMarkdown(content string, width int) string {
	if width <= 0 {
		width = 76
	}
	r := GetMarkdownRenderer(width)
	if r == nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// updateSize reads the terminal width, falling back to 80 columns when
// stdout is not a terminal. A small horizontal padding is reserved.
func (c *CLI) updateSize() {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		c.width = 80
		return
	}
	const paddingTotal = 4
	c.width = width - paddingTotal
}
