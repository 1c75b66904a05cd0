package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"pdfcast/config"
	"pdfcast/models"
)

// SpeechSynthesizer converts one utterance and a voice identity into raw
// audio bytes: 16-bit linear PCM, mono, WAV container at the configured
// sample rate.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

// CartesiaSynthesizer implements SpeechSynthesizer against the Cartesia
// /tts/bytes API.
type CartesiaSynthesizer struct {
	httpClient *http.Client
	cfg        config.TTSConfig
	apiKey     string
}

func NewCartesiaSynthesizer(client *http.Client, cfg config.TTSConfig, apiKey string) *CartesiaSynthesizer {
	return &CartesiaSynthesizer{httpClient: client, cfg: cfg, apiKey: apiKey}
}

// Synthesize generates speech audio for a single segment.
func (c *CartesiaSynthesizer) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	reqBody, err := json.Marshal(models.CartesiaTTSRequest{
		ModelID:    c.cfg.Model,
		Transcript: text,
		Voice:      models.CartesiaVoice{Mode: "id", ID: voiceID},
		OutputFormat: models.CartesiaOutputFormat{
			Container:  c.cfg.Container,
			SampleRate: c.cfg.SampleRate,
			Encoding:   c.cfg.Encoding,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cartesia request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/tts/bytes", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create cartesia http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", c.apiKey)
	httpReq.Header.Set("Cartesia-Version", "2024-11-13")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call cartesia tts api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("cartesia api returned non-200 status: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read cartesia response: %w", err)
	}
	return audio, nil
}

// TTSService drives per-segment synthesis for a whole script.
type TTSService struct {
	synth   SpeechSynthesizer
	fileSvc *FileService
}

func NewTTSService(synth SpeechSynthesizer, fileSvc *FileService) *TTSService {
	return &TTSService{synth: synth, fileSvc: fileSvc}
}

// SynthesizeSegments synthesizes each segment strictly in script order,
// one call at a time: the final audio's ordering depends on it, and the
// provider gives no ordering guarantee across concurrent calls. Each clip
// is written to a per-segment temp file. A failed segment is logged,
// recorded in the report, and skipped; it is not retried and does not
// abort the batch. Callers must treat zero successes as fatal.
func (t *TTSService) SynthesizeSegments(ctx context.Context, segments []models.PodcastSegment, projectID string) (*models.SynthesisReport, error) {
	report := &models.SynthesisReport{}

	for i, segment := range segments {
		audio, err := t.synth.Synthesize(ctx, segment.Text, segment.VoiceID)
		if err != nil {
			log.Printf("TTS ERROR: segment %d (%s) failed, skipping: %v", i, segment.Speaker, err)
			report.Failed = append(report.Failed, models.SegmentFailure{Index: i, Reason: err.Error()})
			continue
		}

		tempPath := t.fileSvc.SegmentTempPath(projectID, i)
		if err := os.WriteFile(tempPath, audio, 0644); err != nil {
			log.Printf("TTS ERROR: could not write segment %d clip, skipping: %v", i, err)
			report.Failed = append(report.Failed, models.SegmentFailure{Index: i, Reason: err.Error()})
			continue
		}
		report.Files = append(report.Files, tempPath)
	}

	log.Printf("TTS: Synthesized %d/%d segments for project %s.", len(report.Files), len(segments), projectID)
	return report, nil
}
