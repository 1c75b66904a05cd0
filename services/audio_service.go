package services

import (
	"fmt"
	"log"
	"math"
	"os"
	"os/exec"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"pdfcast/config"
)

// normalizeHeadroomDB is the headroom left below full scale when
// peak-normalizing each clip.
const normalizeHeadroomDB = 0.1

// AudioService merges per-segment clips into one exported podcast file.
type AudioService struct {
	cfg     config.AudioConfig
	fileSvc *FileService
}

func NewAudioService(cfg config.AudioConfig, fileSvc *FileService) *AudioService {
	return &AudioService{cfg: cfg, fileSvc: fileSvc}
}

// AssemblePodcast merges the clips, in order, into a single MP3 at the
// configured bitrate and returns its path. Every clip is peak-normalized,
// faded in and out over the configured window, and followed by a silence
// gap. Per-segment temp files are deleted afterwards whether or not the
// export succeeds. Zero usable clips is an error and no file is written.
func (a *AudioService) AssemblePodcast(clipPaths []string, projectID string) (string, error) {
	defer func() {
		for _, path := range clipPaths {
			if err := a.fileSvc.RemoveIfExists(path); err != nil {
				log.Printf("AUDIO WARN: %v", err)
			}
		}
	}()

	merged, err := a.mergeClips(clipPaths)
	if err != nil {
		return "", err
	}

	wavPath := a.fileSvc.AudioPath(projectID + "_merged.wav")
	if err := writeWAV(wavPath, merged); err != nil {
		return "", fmt.Errorf("failed to write merged audio: %w", err)
	}
	defer func() {
		if err := a.fileSvc.RemoveIfExists(wavPath); err != nil {
			log.Printf("AUDIO WARN: %v", err)
		}
	}()

	finalPath := a.fileSvc.PodcastPath(projectID)
	if err := exportMP3(wavPath, finalPath, a.cfg.ExportBitrate); err != nil {
		return "", err
	}

	log.Printf("AUDIO: Exported podcast for project %s to %s.", projectID, finalPath)
	return finalPath, nil
}

// mergeClips decodes, normalizes, fades, and concatenates the clips with
// inter-clip silence. An undecodable clip is logged and skipped, matching
// the best-effort policy of segment synthesis.
func (a *AudioService) mergeClips(clipPaths []string) (*audio.IntBuffer, error) {
	var (
		samples    []int
		sampleRate int
		channels   int
	)

	for _, path := range clipPaths {
		buf, err := readWAV(path)
		if err != nil {
			log.Printf("AUDIO ERROR: could not decode clip %s, skipping: %v", path, err)
			continue
		}
		if sampleRate == 0 {
			sampleRate = buf.Format.SampleRate
			channels = buf.Format.NumChannels
		} else if buf.Format.SampleRate != sampleRate || buf.Format.NumChannels != channels {
			log.Printf("AUDIO ERROR: clip %s has mismatched format, skipping", path)
			continue
		}

		normalize(buf.Data)
		fadeSamples := sampleRate * channels * a.cfg.FadeMs / 1000
		applyFades(buf.Data, fadeSamples)

		samples = append(samples, buf.Data...)
		pauseSamples := sampleRate * channels * a.cfg.PauseMs / 1000
		samples = append(samples, make([]int, pauseSamples)...)
	}

	if len(samples) == 0 {
		return nil, ErrNoAudioSegments
	}

	return &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}, nil
}

// normalize scales samples so the loudest peak sits just under full scale.
func normalize(samples []int) {
	peak := 0
	for _, s := range samples {
		if s > peak {
			peak = s
		} else if -s > peak {
			peak = -s
		}
	}
	if peak == 0 {
		return
	}
	target := math.Pow(10, -normalizeHeadroomDB/20) * 32767
	scale := target / float64(peak)
	for i, s := range samples {
		samples[i] = int(float64(s) * scale)
	}
}

// applyFades ramps the first and last n samples linearly to avoid clicks
// at clip boundaries.
func applyFades(samples []int, n int) {
	if n <= 0 {
		return
	}
	if n > len(samples)/2 {
		n = len(samples) / 2
	}
	for i := 0; i < n; i++ {
		gain := float64(i) / float64(n)
		samples[i] = int(float64(samples[i]) * gain)
		j := len(samples) - 1 - i
		samples[j] = int(float64(samples[j]) * gain)
	}
}

func readWAV(path string) (*audio.IntBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode wav: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, fmt.Errorf("wav file %s has no samples", path)
	}
	return buf, nil
}

func writeWAV(path string, buf *audio.IntBuffer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := wav.NewEncoder(f, buf.Format.SampleRate, 16, buf.Format.NumChannels, 1)
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("failed to encode wav: %w", err)
	}
	return encoder.Close()
}

// exportMP3 re-encodes the merged WAV at the configured bitrate.
func exportMP3(wavPath, mp3Path, bitrate string) error {
	cmd := exec.Command("ffmpeg", "-y", "-i", wavPath, "-b:a", bitrate, "-q:a", "0", mp3Path)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg export failed: %w: %s", err, string(out))
	}
	return nil
}
