package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitRejectsNonPositiveBudget(t *testing.T) {
	for _, budget := range []int{0, -1, -50000} {
		_, err := Split("some text", budget)
		assert.Error(t, err, "budget %d", budget)
	}
}

func TestSplitRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		maxTokens int
	}{
		{
			name:      "empty input",
			text:      "",
			maxTokens: 10,
		},
		{
			name:      "single paragraph",
			text:      "The library served a population of 52,000 residents.",
			maxTokens: 10,
		},
		{
			name:      "paragraphs under budget",
			text:      "First paragraph.\n\nSecond paragraph.\n\nThird paragraph.",
			maxTokens: DefaultMaxTokens,
		},
		{
			name:      "paragraphs forcing multiple chunks",
			text:      strings.Repeat("A paragraph of respectable length for testing.\n\n", 40),
			maxTokens: 30,
		},
		{
			name:      "windows line endings",
			text:      "First paragraph.\r\n\r\nSecond paragraph.\r\n\r\nThird.",
			maxTokens: 5,
		},
		{
			name:      "blank lines with extra newlines",
			text:      "One.\n\n\n\nTwo.\n\n\nThree.",
			maxTokens: 2,
		},
		{
			name:      "trailing separator",
			text:      "Only paragraph.\n\n",
			maxTokens: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := Split(tt.text, tt.maxTokens)
			require.NoError(t, err)
			require.NotEmpty(t, chunks)
			assert.Equal(t, tt.text, strings.Join(chunks, ""), "concatenated chunks must reproduce the input")
		})
	}
}

func TestSplitPreservesParagraphBoundaries(t *testing.T) {
	// Four paragraphs of 6, 6, 6 and 4 bytes against a 20-byte budget
	// (5 tokens * 4 chars): the first three fit together, the fourth
	// starts a new chunk.
	text := "aaaa\n\nbbbb\n\ncccc\n\ndddd"
	chunks, err := Split(text, 5)
	require.NoError(t, err)

	require.Len(t, chunks, 2)
	assert.Equal(t, "aaaa\n\nbbbb\n\ncccc\n\n", chunks[0])
	assert.Equal(t, "dddd", chunks[1])

	// Every boundary falls after a blank-line separator.
	for _, chunk := range chunks[:len(chunks)-1] {
		assert.True(t, strings.HasSuffix(chunk, "\n\n"), "chunk %q should end at a paragraph separator", chunk)
	}
}

func TestSplitOversizedParagraphStaysWhole(t *testing.T) {
	// One paragraph far over the 4-byte budget must still come through as
	// exactly one chunk rather than being split mid-paragraph.
	big := strings.Repeat("x", 100)
	text := big + "\n\nshort"

	chunks, err := Split(text, 1)
	require.NoError(t, err)

	require.Len(t, chunks, 2)
	assert.Equal(t, big+"\n\n", chunks[0])
	assert.Equal(t, "short", chunks[1])
}

func TestSplitEmptyInputYieldsOneChunk(t *testing.T) {
	chunks, err := Split("", DefaultMaxTokens)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Empty(t, chunks[0])
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("abcd"))
	assert.Equal(t, 25, EstimateTokens(strings.Repeat("a", 100)))
}
