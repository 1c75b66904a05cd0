package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfcast/config"
)

const testSampleRate = 8000

func testAudioConfig() config.AudioConfig {
	return config.AudioConfig{
		PauseMs:       500,
		FadeMs:        10,
		ExportBitrate: "256k",
	}
}

func newTestAudioService(t *testing.T) (*AudioService, string) {
	t.Helper()
	dir := t.TempDir()
	fileSvc, err := NewFileService(dir, dir)
	require.NoError(t, err)
	return NewAudioService(testAudioConfig(), fileSvc), dir
}

// writeTestClip writes a mono WAV of n constant samples and returns its path.
func writeTestClip(t *testing.T, dir, name string, n, value int) string {
	t.Helper()
	data := make([]int, n)
	for i := range data {
		data[i] = value
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: testSampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	path := filepath.Join(dir, name)
	require.NoError(t, writeWAV(path, buf))
	return path
}

func TestMergeClips_LengthIncludesPauses(t *testing.T) {
	svc, dir := newTestAudioService(t)

	clipA := writeTestClip(t, dir, "a.wav", 1600, 1000)
	clipB := writeTestClip(t, dir, "b.wav", 2400, 1000)

	merged, err := svc.mergeClips([]string{clipA, clipB})
	require.NoError(t, err)

	pause := testSampleRate * testAudioConfig().PauseMs / 1000
	assert.Equal(t, 1600+pause+2400+pause, len(merged.Data))
	assert.Equal(t, testSampleRate, merged.Format.SampleRate)
	assert.Equal(t, 1, merged.Format.NumChannels)
	assert.Equal(t, 16, merged.SourceBitDepth)
}

func TestMergeClips_PauseIsSilent(t *testing.T) {
	svc, dir := newTestAudioService(t)

	clip := writeTestClip(t, dir, "a.wav", 1600, 1000)

	merged, err := svc.mergeClips([]string{clip})
	require.NoError(t, err)

	for _, s := range merged.Data[1600:] {
		assert.Zero(t, s)
	}
}

func TestMergeClips_SkipsUndecodableClip(t *testing.T) {
	svc, dir := newTestAudioService(t)

	good := writeTestClip(t, dir, "good.wav", 1600, 1000)
	bad := filepath.Join(dir, "bad.wav")
	require.NoError(t, os.WriteFile(bad, []byte("not audio"), 0644))

	merged, err := svc.mergeClips([]string{bad, good})
	require.NoError(t, err)

	pause := testSampleRate * testAudioConfig().PauseMs / 1000
	assert.Equal(t, 1600+pause, len(merged.Data))
}

func TestMergeClips_AllUnusable(t *testing.T) {
	svc, dir := newTestAudioService(t)

	bad := filepath.Join(dir, "bad.wav")
	require.NoError(t, os.WriteFile(bad, []byte("not audio"), 0644))

	_, err := svc.mergeClips([]string{bad})
	assert.ErrorIs(t, err, ErrNoAudioSegments)
}

func TestMergeClips_NoClips(t *testing.T) {
	svc, _ := newTestAudioService(t)

	_, err := svc.mergeClips(nil)
	assert.ErrorIs(t, err, ErrNoAudioSegments)
}

func TestNormalize_PeakScaledToTarget(t *testing.T) {
	samples := []int{100, -200, 50}
	normalize(samples)

	peak := 0
	for _, s := range samples {
		if s > peak {
			peak = s
		} else if -s > peak {
			peak = -s
		}
	}
	// Peak lands just under full scale, leaving the configured headroom.
	assert.InDelta(t, 32394, peak, 2)
	// Relative amplitudes are preserved.
	assert.InDelta(t, float64(samples[0])/float64(samples[2]), 2.0, 0.01)
}

func TestNormalize_SilenceUnchanged(t *testing.T) {
	samples := []int{0, 0, 0}
	normalize(samples)
	assert.Equal(t, []int{0, 0, 0}, samples)
}

func TestApplyFades_RampsEdges(t *testing.T) {
	samples := make([]int, 100)
	for i := range samples {
		samples[i] = 10000
	}
	applyFades(samples, 10)

	assert.Zero(t, samples[0])
	assert.Zero(t, samples[99])
	assert.Less(t, samples[5], 10000)
	assert.Equal(t, 10000, samples[50])
}

func TestApplyFades_ClampedToClipLength(t *testing.T) {
	samples := []int{10000, 10000, 10000, 10000}
	applyFades(samples, 100)

	// Fade window shrinks to half the clip; no index out of range.
	assert.Zero(t, samples[0])
	assert.Zero(t, samples[3])
}

func TestAssemblePodcast_CleansTempClipsOnFailure(t *testing.T) {
	svc, dir := newTestAudioService(t)

	bad := filepath.Join(dir, "project_x_temp_0.wav")
	require.NoError(t, os.WriteFile(bad, []byte("not audio"), 0644))

	_, err := svc.AssemblePodcast([]string{bad}, "project_x")
	require.Error(t, err)

	_, statErr := os.Stat(bad)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteReadWAV_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeTestClip(t, dir, "clip.wav", 800, 1234)

	buf, err := readWAV(path)
	require.NoError(t, err)
	assert.Equal(t, 800, len(buf.Data))
	assert.Equal(t, 1234, buf.Data[0])
	assert.Equal(t, testSampleRate, buf.Format.SampleRate)
	assert.Equal(t, 1, buf.Format.NumChannels)
}
