// Package runner owns the request lifecycle for a single generate call:
// issue the request, consume the chunk stream (progressively or buffered
// behind a spinner), enforce the token budget, and fold every result into
// a well-formed Outcome.
package runner

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/codex-cli/codex/internal/apiclient"
	"github.com/codex-cli/codex/internal/tokens"
)

// ChunkStream is the lazy chunk sequence consumed by the runner. Satisfied
// by *apiclient.Stream; tests substitute in-memory fakes.
type ChunkStream interface {
	Recv() (apiclient.Chunk, error)
	Close() error
}

// GenerateFunc opens a generate call. Retry-on-transient-failure lives
// behind this boundary; the runner performs exactly one logical call.
type GenerateFunc func(ctx context.Context, req *apiclient.Request) (ChunkStream, error)

// SpinnerFunc runs fn while showing a loading indicator, guaranteeing the
// indicator is stopped before it returns. Nil means no indicator.
type SpinnerFunc func(fn func() error) error

// Outcome is the terminal result of one invocation. Err == nil means
// success; a truncated response is still a success.
type Outcome struct {
	FullText   string
	TokenCount int
	Truncated  bool
	Err        error
}

// Success reports whether the invocation produced a usable response.
func (o Outcome) Success() bool { return o.Err == nil }

// Options wires the runner's collaborators.
type Options struct {
	// Generate opens the API call. Required.
	Generate GenerateFunc

	// RenderChunk receives each streamed chunk's text, in arrival order,
	// clipped to the token budget. Nil discards progressive output.
	RenderChunk func(text string)

	// Spinner wraps the blocking wait in non-streamed mode. Nil disables
	// the loading indicator.
	Spinner SpinnerFunc
}

// Runner executes generate requests. One Runner may serve many sequential
// invocations; each invocation owns its own stream and buffer.
type Runner struct {
	opts Options
}

func New(opts Options) *Runner {
	return &Runner{opts: opts}
}

// Execute runs one request to completion and always returns a well-formed
// Outcome; no transport error escapes raw.
func (r *Runner) Execute(ctx context.Context, req *apiclient.Request) Outcome {
	if req.Stream {
		return r.executeStreaming(ctx, req)
	}
	return r.executeBuffered(ctx, req)
}

// executeStreaming renders chunks as they arrive and stops consuming the
// moment the token budget is reached, closing the connection rather than
// letting generation run to completion.
func (r *Runner) executeStreaming(ctx context.Context, req *apiclient.Request) Outcome {
	stream, err := r.opts.Generate(ctx, req)
	if err != nil {
		return Outcome{Err: err}
	}
	defer func() { _ = stream.Close() }()

	var buf strings.Builder
	truncated := false

	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			text := buf.String()
			return Outcome{FullText: text, TokenCount: tokens.Estimate(text), Err: err}
		}

		if chunk.Text != "" {
			next := buf.String() + chunk.Text
			if tokens.Estimate(next) > req.MaxTokens {
				// This chunk crosses the budget: keep and render only
				// the portion that fits.
				kept := tokens.Truncate(next, req.MaxTokens)
				if len(kept) < buf.Len() {
					kept = buf.String()
				}
				r.renderChunk(kept[buf.Len():])
				buf.Reset()
				buf.WriteString(kept)
				truncated = true
				break
			}

			r.renderChunk(chunk.Text)
			buf.WriteString(chunk.Text)

			if tokens.Estimate(buf.String()) >= req.MaxTokens && !chunk.Final {
				// Budget exhausted exactly; abandon the rest of the
				// sequence.
				truncated = true
				break
			}
		}

		if chunk.Final {
			break
		}
	}

	text := buf.String()
	return Outcome{FullText: text, TokenCount: tokens.Estimate(text), Truncated: truncated}
}

// executeBuffered blocks until the full body has arrived, keeping the
// spinner alive for the whole wait (request open included) and stopping it
// on every exit path before the caller can print anything.
func (r *Runner) executeBuffered(ctx context.Context, req *apiclient.Request) Outcome {
	var out Outcome

	wait := func() error {
		stream, err := r.opts.Generate(ctx, req)
		if err != nil {
			out = Outcome{Err: err}
			return err
		}
		defer func() { _ = stream.Close() }()
		out = drain(stream, req.MaxTokens)
		return out.Err
	}

	if r.opts.Spinner != nil {
		_ = r.opts.Spinner(wait)
	} else {
		_ = wait()
	}
	return out
}

// drain consumes the whole stream into a buffer and applies the token
// budget to the assembled text.
func drain(stream ChunkStream, maxTokens int) Outcome {
	var buf strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			text := buf.String()
			return Outcome{FullText: text, TokenCount: tokens.Estimate(text), Err: err}
		}
		buf.WriteString(chunk.Text)
		if chunk.Final {
			break
		}
	}

	text := buf.String()
	count := tokens.Estimate(text)
	truncated := false
	if count > maxTokens {
		text = tokens.Truncate(text, maxTokens)
		count = tokens.Estimate(text)
		truncated = true
	}
	return Outcome{FullText: text, TokenCount: count, Truncated: truncated}
}

func (r *Runner) renderChunk(text string) {
	if r.opts.RenderChunk != nil && text != "" {
		r.opts.RenderChunk(text)
	}
}
