package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"pdfcast/config"
	"pdfcast/models"
)

var pageMarkerRe = regexp.MustCompile(`\[PAGE (\d+)\]`)

// ChunkerService splits marked document text into overlapping chunks
// tagged with their source page number.
type ChunkerService struct {
	splitter textsplitter.RecursiveCharacter
}

// NewChunkerService builds a chunker around the recursive-separator
// strategy: split on the coarsest separator first and recurse into finer
// ones only for pieces that still exceed the target size.
func NewChunkerService(cfg config.ChunkingConfig) *ChunkerService {
	return &ChunkerService{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(cfg.Size),
			textsplitter.WithChunkOverlap(cfg.Overlap),
			textsplitter.WithSeparators(cfg.Separators),
		),
	}
}

// Chunk splits markedText into chunks. Each chunk inherits the page of the
// first [PAGE n] marker found within it (page 1 when no marker is present),
// and markers are stripped from the stored text. An empty document yields
// zero chunks; callers must treat that as a distinct condition since no
// index can be built from it.
func (c *ChunkerService) Chunk(markedText string) ([]models.Chunk, error) {
	if strings.TrimSpace(markedText) == "" {
		return nil, nil
	}

	pieces, err := c.splitter.SplitText(markedText)
	if err != nil {
		return nil, fmt.Errorf("failed to split text: %w", err)
	}

	chunks := make([]models.Chunk, 0, len(pieces))
	for _, piece := range pieces {
		page := 1
		if m := pageMarkerRe.FindStringSubmatch(piece); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				page = n
			}
		}
		clean := strings.TrimSpace(pageMarkerRe.ReplaceAllString(piece, ""))
		if clean == "" {
			continue
		}
		chunks = append(chunks, models.Chunk{Text: clean, Page: page})
	}
	return chunks, nil
}
