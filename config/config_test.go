package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialFileKeepsDefaultsForGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("server:\n  port: \"9000\"\nchunking:\n  size: 400\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 400, cfg.Chunking.Size)
	// Everything unspecified falls back to stock values.
	assert.Equal(t, 150, cfg.Chunking.Overlap)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.Equal(t, 120, cfg.LLM.TimeoutSecs)
	assert.Equal(t, "Alex", cfg.TTS.HostA.Name)
	assert.Equal(t, "256k", cfg.Audio.ExportBitrate)
}

func TestLoad_InvalidOverlapResetToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("chunking:\n  size: 400\n  overlap: 400\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Overlap must stay below the chunk size.
	assert.Equal(t, 400, cfg.Chunking.Size)
	assert.Equal(t, 150, cfg.Chunking.Overlap)
}

func TestDefault_DurationClasses(t *testing.T) {
	cfg := Default()
	for _, d := range []string{"short", "medium", "long"} {
		assert.Contains(t, cfg.LLM.DurationMap, d)
	}
}
