package apiclient

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
)

// ErrStreamClosed is returned by Recv after Close has been called.
var ErrStreamClosed = errors.New("apiclient: stream closed")

// Stream is a lazy, finite, non-restartable sequence of response chunks.
// Chunks are decoded from NDJSON lines in arrival order. Closing the stream
// early releases the underlying connection, which is how the caller bounds
// resource use when a token budget is hit mid-stream.
type Stream struct {
	resp   *http.Response
	r      *bufio.Reader
	warn   func(line string)
	done   bool
	closed bool
}

func newStream(resp *http.Response, warn func(line string)) *Stream {
	return &Stream{
		resp: resp,
		r:    bufio.NewReaderSize(resp.Body, 64*1024),
		warn: warn,
	}
}

// Recv returns the next chunk. io.EOF signals normal end of the sequence,
// either via a Done chunk already delivered or the server closing the
// connection. Malformed lines are skipped with a warning rather than
// aborting the stream.
func (s *Stream) Recv() (Chunk, error) {
	if s.closed {
		return Chunk{}, ErrStreamClosed
	}
	if s.done {
		return Chunk{}, io.EOF
	}

	for {
		line, err := s.r.ReadBytes('\n')
		line = bytes.TrimSpace(line)

		if err != nil {
			if !errors.Is(err, io.EOF) {
				return Chunk{}, &Error{Kind: KindTimeout, Message: "stream read failed", Retryable: false, Cause: err}
			}
			s.done = true
			if len(line) == 0 {
				return Chunk{}, io.EOF
			}
			// Final line without a trailing newline.
			return s.decodeLine(line)
		}

		if len(line) == 0 {
			continue
		}
		chunk, derr := s.decodeLine(line)
		if errors.Is(derr, errSkipLine) {
			continue
		}
		return chunk, derr
	}
}

// errSkipLine is an internal sentinel for lines that should be silently
// dropped after warning (undecodable JSON).
var errSkipLine = errors.New("skip line")

func (s *Stream) decodeLine(line []byte) (Chunk, error) {
	var wire generateChunk
	if err := sonic.Unmarshal(line, &wire); err != nil {
		if s.warn != nil {
			s.warn(string(line))
		}
		if s.done {
			return Chunk{}, io.EOF
		}
		return Chunk{}, errSkipLine
	}
	if wire.Error != "" {
		return Chunk{}, &Error{Kind: KindServer, Message: wire.Error}
	}
	if wire.Done {
		s.done = true
	}
	return Chunk{Text: wire.Response, Final: wire.Done}, nil
}

// Close releases the underlying connection. Safe to call multiple times and
// after the stream is drained.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.resp != nil && s.resp.Body != nil {
		return s.resp.Body.Close()
	}
	return nil
}
