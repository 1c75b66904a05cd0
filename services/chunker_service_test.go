package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfcast/config"
	"pdfcast/models"
)

func testChunkingConfig() config.ChunkingConfig {
	return config.ChunkingConfig{
		Size:       200,
		Overlap:    40,
		Separators: []string{"\n\n", "\n", ". ", " ", ""},
	}
}

func TestChunk_EmptyDocument(t *testing.T) {
	chunker := NewChunkerService(testChunkingConfig())

	chunks, err := chunker.Chunk("")
	require.NoError(t, err)
	assert.Empty(t, chunks)

	chunks, err = chunker.Chunk("   \n\n  ")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunk_PageTagging(t *testing.T) {
	chunker := NewChunkerService(testChunkingConfig())

	pages := []models.PageText{
		{Page: 1, Text: "Opening section about the study design and its goals."},
		{Page: 2, Text: "Middle section describing the methodology in detail."},
		{Page: 3, Text: "Closing section with the results and conclusions."},
	}
	chunks, err := chunker.Chunk(MarkedText(pages))
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	seen := map[int]bool{}
	for _, c := range chunks {
		assert.GreaterOrEqual(t, c.Page, 1)
		assert.LessOrEqual(t, c.Page, 3)
		assert.NotContains(t, c.Text, "[PAGE")
		assert.NotEmpty(t, c.Text)
		seen[c.Page] = true
	}
	assert.True(t, seen[1])
}

func TestChunk_NoMarkerDefaultsToPageOne(t *testing.T) {
	chunker := NewChunkerService(testChunkingConfig())

	chunks, err := chunker.Chunk("A document that was supplied without any page markers at all.")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 1, chunks[0].Page)
}

func TestChunk_SizeBound(t *testing.T) {
	cfg := testChunkingConfig()
	chunker := NewChunkerService(cfg)

	var sb strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&sb, "Sentence number %d carries some filler content. ", i)
	}
	chunks, err := chunker.Chunk(sb.String())
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Text), cfg.Size)
	}
}

func TestChunk_ConsecutiveOverlap(t *testing.T) {
	cfg := testChunkingConfig()
	chunker := NewChunkerService(cfg)

	// Unique space-separated tokens so overlap is detectable.
	var words []string
	for i := 0; i < 300; i++ {
		words = append(words, fmt.Sprintf("token%03d", i))
	}
	chunks, err := chunker.Chunk(strings.Join(words, " "))
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		firstWord := strings.Fields(chunks[i].Text)[0]
		assert.Contains(t, chunks[i-1].Text, firstWord,
			"chunk %d should start inside the tail of chunk %d", i, i-1)
	}
}
