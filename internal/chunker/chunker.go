// Package chunker splits extracted report text into bounded-size chunks for
// the extraction model. Chunks are contiguous spans of the input, so
// concatenating them in order reproduces the original text exactly.
package chunker

import (
	"fmt"
	"strings"
)

const (
	// DefaultMaxTokens keeps each chunk safely under the extraction
	// model's context window.
	DefaultMaxTokens = 50000

	// charsPerToken is the fixed estimation ratio; exact tokenization is
	// not required.
	charsPerToken = 4
)

// EstimateTokens approximates the token count of a text span.
func EstimateTokens(text string) int {
	return len(text) / charsPerToken
}

// Split cuts text into an ordered, non-empty sequence of chunks of at most
// maxTokens estimated tokens each. Boundaries fall only after blank-line
// paragraph separators; a single paragraph over budget still becomes exactly
// one (oversized) chunk rather than being split mid-paragraph.
func Split(text string, maxTokens int) ([]string, error) {
	if maxTokens <= 0 {
		return nil, fmt.Errorf("maxTokens must be positive, got %d", maxTokens)
	}
	budget := maxTokens * charsPerToken

	var chunks []string
	chunkStart := 0 // byte offset of the current chunk's first paragraph
	chunkLen := 0
	offset := 0

	for _, paragraph := range splitParagraphs(text) {
		if chunkLen > 0 && chunkLen+len(paragraph) > budget {
			chunks = append(chunks, text[chunkStart:offset])
			chunkStart = offset
			chunkLen = 0
		}
		chunkLen += len(paragraph)
		offset += len(paragraph)
	}
	// The final chunk; for empty input this yields one empty chunk.
	chunks = append(chunks, text[chunkStart:])

	return chunks, nil
}

// splitParagraphs cuts text into contiguous spans, each ending after a run of
// newlines containing a blank line. The trailing separator stays attached to
// the preceding paragraph, which keeps the spans lossless.
func splitParagraphs(text string) []string {
	var spans []string
	start := 0
	i := 0
	for i < len(text) {
		if text[i] != '\n' {
			i++
			continue
		}
		j := i
		for j < len(text) && (text[j] == '\n' || text[j] == '\r') {
			j++
		}
		if strings.Count(text[i:j], "\n") >= 2 {
			spans = append(spans, text[start:j])
			start = j
		}
		i = j
	}
	if start < len(text) {
		spans = append(spans, text[start:])
	}
	return spans
}
