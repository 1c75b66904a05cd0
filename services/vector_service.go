package services

import (
	"context"
	"fmt"
	"log"

	"pdfcast/models"
	"pdfcast/vectorindex"
)

// VectorService builds, persists, and queries the per-document flat index.
type VectorService struct {
	embedder Embedder
}

func NewVectorService(embedder Embedder) *VectorService {
	return &VectorService{embedder: embedder}
}

// BuildIndex embeds every chunk and constructs an exact flat L2 index over
// the results. The returned index is positionally aligned with chunks:
// index entry i is the embedding of chunks[i]. The chunk list and the
// index must never be reordered independently of each other.
func (v *VectorService) BuildIndex(ctx context.Context, chunks []models.Chunk) (*vectorindex.Flat, error) {
	if len(chunks) == 0 {
		return nil, ErrEmptyDocument
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := v.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedding count %d does not match chunk count %d", len(vectors), len(chunks))
	}

	index, err := vectorindex.New(len(vectors[0]))
	if err != nil {
		return nil, err
	}
	if err := index.Add(vectors); err != nil {
		return nil, fmt.Errorf("failed to populate index: %w", err)
	}

	log.Printf("INDEXER: Built flat index with %d vectors of dimension %d.", index.Size(), index.Dimension())
	return index, nil
}

// SaveIndex persists the index to its per-project file.
func (v *VectorService) SaveIndex(index *vectorindex.Flat, path string) error {
	return index.Save(path)
}

// LoadIndex reloads a previously persisted index.
func (v *VectorService) LoadIndex(path string) (*vectorindex.Flat, error) {
	return vectorindex.Load(path)
}

// Search embeds the query and returns the topK most similar chunks, each
// annotated with its page and a relevance score of 1/(1+distance). Results
// are ordered by descending relevance; when topK exceeds the index size,
// every chunk is returned. The ordering determines what context the
// language model sees, so it must be preserved downstream.
func (v *VectorService) Search(ctx context.Context, index *vectorindex.Flat, chunks []models.Chunk, query string, topK int) ([]models.RetrievalResult, error) {
	if topK < 1 {
		return nil, ErrInvalidTopK
	}
	if index.Size() != len(chunks) {
		return nil, fmt.Errorf("index size %d does not match chunk count %d", index.Size(), len(chunks))
	}

	queryVec, err := v.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	hits, err := index.Search(queryVec, topK)
	if err != nil {
		return nil, fmt.Errorf("index search failed: %w", err)
	}

	results := make([]models.RetrievalResult, 0, len(hits))
	for _, hit := range hits {
		chunk := chunks[hit.Index]
		results = append(results, models.RetrievalResult{
			Text:           chunk.Text,
			Page:           chunk.Page,
			RelevanceScore: 1 / (1 + hit.Distance),
		})
	}

	log.Printf("SERVICE: Retrieved %d chunks for query.", len(results))
	return results, nil
}
