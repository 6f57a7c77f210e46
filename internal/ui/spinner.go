package ui

import (
	"fmt"
	"os"
	"sync"
	"time"

	"charm.land/lipgloss/v2"
)

var (
	spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinnerFPS    = time.Second / 10
)

// Spinner provides an animated loading indicator shown while a blocking
// call is in flight. It writes directly to stderr from a goroutine-based
// animation loop so the waiting code path stays free of terminal concerns,
// and so stdout carries only real output.
type Spinner struct {
	message string
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewSpinner creates a spinner with the given label ("Thinking…" is the
// conventional one for the generate wait).
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start begins the animation in a separate goroutine.
func (s *Spinner) Start() {
	go s.run()
}

// Stop halts the animation and blocks until the line has been cleared, so
// no frame can be emitted after Stop returns. Safe to call more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.done) })
	<-s.stopped
}

func (s *Spinner) run() {
	defer close(s.stopped)

	theme := GetTheme()
	frameStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	messageStyle := lipgloss.NewStyle().Foreground(theme.Text).Italic(true)

	ticker := time.NewTicker(spinnerFPS)
	defer ticker.Stop()

	var frame int
	for {
		select {
		case <-s.done:
			// Clear the spinner line and return.
			fmt.Fprint(os.Stderr, "\r\033[K")
			return
		case <-ticker.C:
			f := spinnerFrames[frame%len(spinnerFrames)]
			fmt.Fprintf(os.Stderr, "\r[ %s ] %s",
				frameStyle.Render(f),
				messageStyle.Render(s.message))
			frame++
		}
	}
}

// ShowSpinner runs action behind a spinner, stopping it on every exit path
// before control returns to the caller.
func ShowSpinner(message string, action func() error) error {
	spinner := NewSpinner(message)
	spinner.Start()
	defer spinner.Stop()

	return action()
}
