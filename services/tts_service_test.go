package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfcast/models"
)

// fakeSynthesizer returns canned bytes per call and fails on the
// configured call indexes.
type fakeSynthesizer struct {
	calls  int
	failOn map[int]bool
	voices []string
	texts  []string
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, text, voiceID string) ([]byte, error) {
	idx := f.calls
	f.calls++
	f.texts = append(f.texts, text)
	f.voices = append(f.voices, voiceID)
	if f.failOn[idx] {
		return nil, errors.New("synthesis unavailable")
	}
	return []byte(fmt.Sprintf("clip-%d", idx)), nil
}

func newTestTTSService(t *testing.T, synth SpeechSynthesizer) *TTSService {
	t.Helper()
	dir := t.TempDir()
	fileSvc, err := NewFileService(dir, dir)
	require.NoError(t, err)
	return NewTTSService(synth, fileSvc)
}

func testSegments(n int) []models.PodcastSegment {
	segments := make([]models.PodcastSegment, n)
	for i := range segments {
		speaker, voice := "alex", "voice-alex"
		if i%2 == 1 {
			speaker, voice = "sam", "voice-sam"
		}
		segments[i] = models.PodcastSegment{
			Speaker: speaker,
			Text:    fmt.Sprintf("utterance %d", i),
			VoiceID: voice,
		}
	}
	return segments
}

func TestSynthesizeSegments_AllSucceed(t *testing.T) {
	synth := &fakeSynthesizer{failOn: map[int]bool{}}
	svc := newTestTTSService(t, synth)

	report, err := svc.SynthesizeSegments(context.Background(), testSegments(3), "project_x")
	require.NoError(t, err)
	require.Len(t, report.Files, 3)
	assert.Empty(t, report.Failed)

	// Clips are written in script order with the segment's content.
	for i, path := range report.Files {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("clip-%d", i), string(data))
	}
}

func TestSynthesizeSegments_SkipsFailuresAndContinues(t *testing.T) {
	synth := &fakeSynthesizer{failOn: map[int]bool{1: true}}
	svc := newTestTTSService(t, synth)

	segments := testSegments(4)
	report, err := svc.SynthesizeSegments(context.Background(), segments, "project_x")
	require.NoError(t, err)

	// Every segment was attempted despite the middle failure.
	assert.Equal(t, 4, synth.calls)
	require.Len(t, report.Files, 3)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, 1, report.Failed[0].Index)
	assert.Contains(t, report.Failed[0].Reason, "synthesis unavailable")
}

func TestSynthesizeSegments_SequentialVoiceRouting(t *testing.T) {
	synth := &fakeSynthesizer{failOn: map[int]bool{}}
	svc := newTestTTSService(t, synth)

	_, err := svc.SynthesizeSegments(context.Background(), testSegments(4), "project_x")
	require.NoError(t, err)

	assert.Equal(t, []string{"voice-alex", "voice-sam", "voice-alex", "voice-sam"}, synth.voices)
	assert.Equal(t, []string{"utterance 0", "utterance 1", "utterance 2", "utterance 3"}, synth.texts)
}

func TestSynthesizeSegments_AllFail(t *testing.T) {
	synth := &fakeSynthesizer{failOn: map[int]bool{0: true, 1: true}}
	svc := newTestTTSService(t, synth)

	report, err := svc.SynthesizeSegments(context.Background(), testSegments(2), "project_x")
	require.NoError(t, err)
	assert.Empty(t, report.Files)
	assert.Len(t, report.Failed, 2)
}

func TestSynthesizeSegments_EmptyScript(t *testing.T) {
	synth := &fakeSynthesizer{failOn: map[int]bool{}}
	svc := newTestTTSService(t, synth)

	report, err := svc.SynthesizeSegments(context.Background(), nil, "project_x")
	require.NoError(t, err)
	assert.Empty(t, report.Files)
	assert.Empty(t, report.Failed)
	assert.Zero(t, synth.calls)
}
