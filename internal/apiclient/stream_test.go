package apiclient

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

func newTestStream(body string, warn func(string)) *Stream {
	resp := &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
	return newStream(resp, warn)
}

func collect(t *testing.T, s *Stream) []Chunk {
	t.Helper()
	var chunks []Chunk
	for {
		chunk, err := s.Recv()
		if errors.Is(err, io.EOF) {
			return chunks
		}
		if err != nil {
			t.Fatalf("Recv() err=%v", err)
		}
		chunks = append(chunks, chunk)
		if chunk.Final {
			return chunks
		}
	}
}

func TestStream_DecodesChunksInOrder(t *testing.T) {
	body := `{"response":"Why ","done":false}
{"response":"is the ","done":false}
{"response":"sky blue?","done":true}
`
	chunks := collect(t, newTestStream(body, nil))

	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	var all strings.Builder
	for _, c := range chunks {
		all.WriteString(c.Text)
	}
	if all.String() != "Why is the sky blue?" {
		t.Errorf("concatenated text = %q", all.String())
	}
	if !chunks[2].Final {
		t.Error("last chunk not marked final")
	}
}

func TestStream_EOFWithoutDoneEndsSequence(t *testing.T) {
	// Some servers close the connection without a done line.
	body := `{"response":"partial","done":false}` + "\n"
	chunks := collect(t, newTestStream(body, nil))

	if len(chunks) != 1 || chunks[0].Text != "partial" {
		t.Fatalf("chunks = %+v", chunks)
	}
}

func TestStream_FinalLineWithoutNewline(t *testing.T) {
	body := `{"response":"a","done":false}` + "\n" + `{"response":"b","done":true}`
	chunks := collect(t, newTestStream(body, nil))

	if len(chunks) != 2 || chunks[1].Text != "b" || !chunks[1].Final {
		t.Fatalf("chunks = %+v", chunks)
	}
}

func TestStream_SkipsMalformedLinesWithWarning(t *testing.T) {
	body := `{"response":"good ","done":false}
this is not json
{"response":"still good","done":true}
`
	var warned []string
	chunks := collect(t, newTestStream(body, func(line string) { warned = append(warned, line) }))

	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if len(warned) != 1 || warned[0] != "this is not json" {
		t.Errorf("warnings = %q", warned)
	}
}

func TestStream_ErrorLineSurfacesServerError(t *testing.T) {
	body := `{"response":"ok ","done":false}
{"error":"model exploded"}
`
	s := newTestStream(body, nil)

	if _, err := s.Recv(); err != nil {
		t.Fatalf("first Recv() err=%v", err)
	}
	_, err := s.Recv()
	apiErr, ok := AsError(err)
	if !ok || apiErr.Kind != KindServer {
		t.Fatalf("Recv() err=%v, want server error", err)
	}
	if !strings.Contains(apiErr.Message, "model exploded") {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestStream_RecvAfterCloseFails(t *testing.T) {
	s := newTestStream(`{"response":"x","done":false}`+"\n", nil)
	if err := s.Close(); err != nil {
		t.Fatalf("Close() err=%v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close() err=%v", err)
	}
	if _, err := s.Recv(); !errors.Is(err, ErrStreamClosed) {
		t.Errorf("Recv() after close err=%v, want ErrStreamClosed", err)
	}
}

func TestStream_RecvAfterDoneReturnsEOF(t *testing.T) {
	s := newTestStream(`{"response":"x","done":true}`+"\n", nil)
	if _, err := s.Recv(); err != nil {
		t.Fatalf("Recv() err=%v", err)
	}
	if _, err := s.Recv(); !errors.Is(err, io.EOF) {
		t.Errorf("Recv() after done err=%v, want io.EOF", err)
	}
}
