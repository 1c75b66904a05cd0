package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfcast/models"
)

// fakeEmbedder maps known strings to fixed vectors so distances are exact.
type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	vec, ok := f.vectors[text]
	if !ok {
		return nil, errors.New("no fixture vector for text")
	}
	return vec, nil
}

func (f *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := f.EmbedText(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func testCorpus() ([]models.Chunk, *fakeEmbedder) {
	chunks := []models.Chunk{
		{Text: "alpha", Page: 1},
		{Text: "beta", Page: 3},
		{Text: "gamma", Page: 7},
	}
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"alpha": {0, 0},
		"beta":  {3, 4},
		"gamma": {1, 0},
		"query": {0, 0},
	}}
	return chunks, emb
}

func TestBuildIndex_EmptyChunks(t *testing.T) {
	svc := NewVectorService(&fakeEmbedder{})

	_, err := svc.BuildIndex(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestBuildIndex_PositionalAlignment(t *testing.T) {
	chunks, emb := testCorpus()
	svc := NewVectorService(emb)

	index, err := svc.BuildIndex(context.Background(), chunks)
	require.NoError(t, err)
	assert.Equal(t, len(chunks), index.Size())
	assert.Equal(t, 2, index.Dimension())
}

func TestSearch_RelevanceOrdering(t *testing.T) {
	chunks, emb := testCorpus()
	svc := NewVectorService(emb)

	index, err := svc.BuildIndex(context.Background(), chunks)
	require.NoError(t, err)

	// Query at the origin: alpha at distance 0, gamma at 1, beta at 5.
	results, err := svc.Search(context.Background(), index, chunks, "query", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "alpha", results[0].Text)
	assert.Equal(t, 1, results[0].Page)
	assert.InDelta(t, 1.0, results[0].RelevanceScore, 1e-9)

	assert.Equal(t, "gamma", results[1].Text)
	assert.Equal(t, 7, results[1].Page)
	assert.InDelta(t, 0.5, results[1].RelevanceScore, 1e-9)

	assert.Equal(t, "beta", results[2].Text)
	assert.Equal(t, 3, results[2].Page)
	assert.InDelta(t, 1.0/6.0, results[2].RelevanceScore, 1e-9)
}

func TestSearch_TopKClampedToCorpus(t *testing.T) {
	chunks, emb := testCorpus()
	svc := NewVectorService(emb)

	index, err := svc.BuildIndex(context.Background(), chunks)
	require.NoError(t, err)

	results, err := svc.Search(context.Background(), index, chunks, "query", 50)
	require.NoError(t, err)
	assert.Len(t, results, len(chunks))
}

func TestSearch_InvalidTopK(t *testing.T) {
	chunks, emb := testCorpus()
	svc := NewVectorService(emb)

	index, err := svc.BuildIndex(context.Background(), chunks)
	require.NoError(t, err)

	_, err = svc.Search(context.Background(), index, chunks, "query", 0)
	assert.ErrorIs(t, err, ErrInvalidTopK)
}

func TestSearch_MisalignedChunks(t *testing.T) {
	chunks, emb := testCorpus()
	svc := NewVectorService(emb)

	index, err := svc.BuildIndex(context.Background(), chunks)
	require.NoError(t, err)

	_, err = svc.Search(context.Background(), index, chunks[:2], "query", 1)
	assert.Error(t, err)
}

func TestSaveLoadIndex_RoundTrip(t *testing.T) {
	chunks, emb := testCorpus()
	svc := NewVectorService(emb)

	index, err := svc.BuildIndex(context.Background(), chunks)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "project.index")
	require.NoError(t, svc.SaveIndex(index, path))

	loaded, err := svc.LoadIndex(path)
	require.NoError(t, err)

	results, err := svc.Search(context.Background(), loaded, chunks, "query", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "alpha", results[0].Text)
	assert.Equal(t, "gamma", results[1].Text)
}
