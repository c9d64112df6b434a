package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitShortTextReturnsSingleChunk(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "shorter than chunk size",
			text: "The court held that the contract was void.",
			want: []string{"The court held that the contract was void."},
		},
		{
			name: "exactly chunk size",
			text: strings.Repeat("a", 1000),
			want: []string{strings.Repeat("a", 1000)},
		},
		{
			name: "whitespace only",
			text: "   \n\n  ",
			want: []string{},
		},
		{
			name: "trims surrounding whitespace",
			text: "  ruling text  ",
			want: []string{"ruling text"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.text, 1000, 200)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitIdempotentOnMinimalChunk(t *testing.T) {
	text := "A single paragraph that fits comfortably within one chunk."
	first := Split(text, 1000, 200)
	require.Len(t, first, 1)

	second := Split(first[0], 1000, 200)
	require.Len(t, second, 1)
	assert.Equal(t, first[0], second[0])
}

func TestSplit1500CharDocumentProducesTwoChunks(t *testing.T) {
	// Numbered sentences keep break points available and substrings unique.
	var b strings.Builder
	for n := 0; b.Len() < 1500; n++ {
		fmt.Fprintf(&b, "Case %04d ends with final judgment entered. ", n)
	}
	text := b.String()[:1500]

	chunks := Split(text, 1000, 200)

	require.Len(t, chunks, 2)
	for _, c := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(c))
		assert.LessOrEqual(t, len([]rune(c)), 1000)
	}

	// The second chunk must begin before character 1300 and overlap the first.
	secondStart := strings.Index(text, chunks[1][:60])
	require.GreaterOrEqual(t, secondStart, 0)
	assert.Less(t, secondStart, 1300)

	firstEnd := strings.Index(text, chunks[0]) + len(chunks[0])
	assert.Less(t, secondStart, firstEnd, "chunks should overlap")
	assert.LessOrEqual(t, firstEnd-secondStart, 200+30, "overlap bounded by configured overlap plus word alignment")
}

func TestSplitPrefersParagraphBreaks(t *testing.T) {
	para1 := strings.Repeat("x", 850)
	para2 := strings.Repeat("y", 850)
	text := para1 + "\n\n" + para2

	chunks := Split(text, 1000, 100)

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, para1, chunks[0], "first chunk should end at the paragraph break")
}

func TestSplitPrefersSentenceBoundaries(t *testing.T) {
	sentence := "The defendant appealed the ruling on procedural grounds. "
	text := strings.Repeat(sentence, 40) // ~2280 chars, no paragraph breaks

	chunks := Split(text, 1000, 200)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks[:len(chunks)-1] {
		assert.True(t, strings.HasSuffix(c, "."), "chunk %q should end at a sentence boundary", c[len(c)-20:])
	}
}

func TestSplitTerminatesWhenOverlapExceedsChunkSize(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet ", 500) // ~13.5k chars

	tests := []struct {
		name      string
		chunkSize int
		overlap   int
	}{
		{name: "overlap equals chunk size", chunkSize: 500, overlap: 500},
		{name: "overlap exceeds chunk size", chunkSize: 300, overlap: 900},
		{name: "no natural boundaries", chunkSize: 100, overlap: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Split(text, tt.chunkSize, tt.overlap)
			assert.NotEmpty(t, chunks)
			for _, c := range chunks {
				assert.NotEmpty(t, strings.TrimSpace(c))
			}
		})
	}
}

func TestSplitTerminatesOnAdversarialInput(t *testing.T) {
	// No spaces, no newlines, no sentence breaks: hard cuts only.
	text := strings.Repeat("z", 10_000)

	chunks := Split(text, 1000, 999)

	assert.NotEmpty(t, chunks)
	total := 0
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 1000)
		total += len(c)
	}
	assert.GreaterOrEqual(t, total, 10_000, "hard cuts with heavy overlap revisit text but must cover it all")
}

func TestSplitStartPositionsStrictlyIncrease(t *testing.T) {
	sentence := "Precedent binds lower courts in this jurisdiction. "
	text := strings.Repeat(sentence, 60)

	chunks := Split(text, 400, 100)
	require.Greater(t, len(chunks), 2)

	prev := -1
	for _, c := range chunks {
		// Locate each chunk after the previous start to confirm ordering.
		idx := strings.Index(text[prev+1:], c[:30])
		require.GreaterOrEqual(t, idx, 0)
		pos := prev + 1 + idx
		assert.Greater(t, pos, prev)
		prev = pos
	}
}

func TestSplitNormalizesLineEndings(t *testing.T) {
	para1 := strings.Repeat("a", 900)
	para2 := strings.Repeat("b", 900)
	crlf := para1 + "\r\n\r\n" + para2

	chunks := Split(crlf, 1000, 100)

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, para1, chunks[0])
	assert.NotContains(t, chunks[0], "\r")
}
