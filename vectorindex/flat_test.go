package vectorindex

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidDimension(t *testing.T) {
	_, err := New(0)
	assert.Error(t, err)
	_, err = New(-3)
	assert.Error(t, err)
}

func TestAdd_DimensionMismatch(t *testing.T) {
	idx, err := New(3)
	require.NoError(t, err)

	err = idx.Add([][]float32{{1, 2}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	assert.Equal(t, 0, idx.Size())
}

func TestSearch_Empty(t *testing.T) {
	idx, err := New(2)
	require.NoError(t, err)

	_, err = idx.Search([]float32{0, 0}, 1)
	assert.ErrorIs(t, err, ErrEmptyIndex)
}

func TestSearch_OrderingAndScores(t *testing.T) {
	idx, err := New(2)
	require.NoError(t, err)
	require.NoError(t, idx.Add([][]float32{
		{0, 0},
		{3, 4},
		{1, 0},
	}))

	results, err := idx.Search([]float32{0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, 0, results[0].Index)
	assert.Equal(t, 2, results[1].Index)
	assert.Equal(t, 1, results[2].Index)
	assert.InDelta(t, 0.0, results[0].Distance, 1e-9)
	assert.InDelta(t, 1.0, results[1].Distance, 1e-9)
	assert.InDelta(t, 5.0, results[2].Distance, 1e-9)

	// ascending distance
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Distance, results[i].Distance)
	}
}

func TestSearch_KClampedToSize(t *testing.T) {
	idx, err := New(2)
	require.NoError(t, err)
	require.NoError(t, idx.Add([][]float32{{1, 1}, {2, 2}}))

	results, err := idx.Search([]float32{0, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearch_SingleVector(t *testing.T) {
	idx, err := New(3)
	require.NoError(t, err)
	require.NoError(t, idx.Add([][]float32{{1, 2, 3}}))

	results, err := idx.Search([]float32{1, 2, 3}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Index)
	assert.InDelta(t, 0.0, results[0].Distance, 1e-9)
}

func TestSearch_InvalidK(t *testing.T) {
	idx, err := New(2)
	require.NoError(t, err)
	require.NoError(t, idx.Add([][]float32{{1, 1}}))

	_, err = idx.Search([]float32{0, 0}, 0)
	assert.Error(t, err)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	idx, err := New(4)
	require.NoError(t, err)
	require.NoError(t, idx.Add([][]float32{
		{0.1, 0.2, 0.3, 0.4},
		{0.9, 0.8, 0.7, 0.6},
		{0.5, 0.5, 0.5, 0.5},
		{0.25, 0.75, 0.125, 0.625},
	}))

	path := filepath.Join(t.TempDir(), "doc.index")
	require.NoError(t, idx.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, idx.Dimension(), loaded.Dimension())
	assert.Equal(t, idx.Size(), loaded.Size())

	query := []float32{0.4, 0.4, 0.4, 0.4}
	want, err := idx.Search(query, 4)
	require.NoError(t, err)
	got, err := loaded.Search(query, 4)
	require.NoError(t, err)

	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Index, got[i].Index)
		assert.InDelta(t, want[i].Distance, got[i].Distance, 1e-12)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.index"))
	assert.Error(t, err)
}
