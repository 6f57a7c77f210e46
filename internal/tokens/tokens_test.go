package tokens

import (
	"strings"
	"testing"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "whitespace only", text: "  \n\t ", want: 0},
		{name: "single word", text: "hello", want: 2}, // ceil(1*1.33)
		{name: "three words", text: "why sky blue", want: 4},
		{name: "ten words", text: strings.Repeat("word ", 10), want: 14}, // ceil(13.3)
		{name: "punctuation attaches to words", text: "hello, world!", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Estimate(tt.text); got != tt.want {
				t.Errorf("Estimate(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestEstimateDeterministic(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	first := Estimate(text)
	for range 10 {
		if got := Estimate(text); got != first {
			t.Fatalf("Estimate is not deterministic: %d != %d", got, first)
		}
	}
}

// Appending text to a buffer must never decrease its estimate, otherwise
// truncation would not be reproducible mid-stream.
func TestEstimateMonotonic(t *testing.T) {
	chunks := []string{"Ray", "leigh ", "scattering ", "explains", " why the sky ", "looks blue", "."}

	var buf strings.Builder
	prev := 0
	for _, c := range chunks {
		buf.WriteString(c)
		got := Estimate(buf.String())
		if got < prev {
			t.Fatalf("estimate decreased from %d to %d after appending %q", prev, got, c)
		}
		prev = got
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		maxTokens int
		want      string
	}{
		{
			name:      "under budget unchanged",
			text:      "short answer",
			maxTokens: 100,
			want:      "short answer",
		},
		{
			name:      "exact budget unchanged",
			text:      "one two three", // 4 tokens
			maxTokens: 4,
			want:      "one two three",
		},
		{
			name:      "cut at word boundary",
			text:      "alpha beta gamma delta epsilon zeta", // 8 tokens
			maxTokens: 4,                                     // allows 3 words
			want:      "alpha beta gamma",
		},
		{
			name:      "zero budget empties",
			text:      "anything at all",
			maxTokens: 0,
			want:      "",
		},
		{
			name:      "preserves inner whitespace",
			text:      "a  b\nc d e f g h i j",
			maxTokens: 4,
			want:      "a  b\nc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.text, tt.maxTokens)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.text, tt.maxTokens, got, tt.want)
			}
			if est := Estimate(got); est > tt.maxTokens {
				t.Errorf("truncated text estimates to %d tokens, over the %d budget", est, tt.maxTokens)
			}
			if !strings.HasPrefix(tt.text, got) {
				t.Errorf("truncated text %q is not a prefix of the original", got)
			}
		})
	}
}
