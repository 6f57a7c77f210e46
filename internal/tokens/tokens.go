// Package tokens provides the approximate token accounting used for budget
// enforcement. The estimate is not tied to any real tokenizer; it only has
// to be deterministic for a given buffer and monotonically non-decreasing
// as text is appended, so truncation is reproducible.
package tokens

import (
	"math"
	"strings"
	"unicode"
)

// perWord is the approximation ratio between whitespace-delimited words and
// model tokens.
const perWord = 1.33

// Estimate returns the approximate token count of text. It is computed over
// the whole buffer, so appending text can only grow the result.
func Estimate(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	return fromWords(words)
}

func fromWords(words int) int {
	return int(math.Ceil(float64(words) * perWord))
}

// Truncate returns the longest prefix of text that ends on a word boundary
// and whose token estimate does not exceed maxTokens. The original
// whitespace of the kept portion is preserved.
func Truncate(text string, maxTokens int) string {
	if Estimate(text) <= maxTokens {
		return text
	}

	allowed := int(float64(maxTokens) / perWord)
	for allowed > 0 && fromWords(allowed) > maxTokens {
		allowed--
	}
	if allowed <= 0 {
		return ""
	}

	inWord := false
	words := 0
	end := 0
	for i, r := range text {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			inWord = true
			words++
			if words > allowed {
				return strings.TrimRightFunc(text[:i], unicode.IsSpace)
			}
		}
		end = i + len(string(r))
	}
	return text[:end]
}
