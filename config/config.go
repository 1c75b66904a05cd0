package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// StorageConfig holds directory and database locations.
type StorageConfig struct {
	UploadDir    string `yaml:"upload_dir"`
	AudioDir     string `yaml:"audio_dir"`
	DatabasePath string `yaml:"database_path"`
}

// ChunkingConfig configures how document text is split for retrieval.
type ChunkingConfig struct {
	Size       int      `yaml:"size"`
	Overlap    int      `yaml:"overlap"`
	Separators []string `yaml:"separators"`
}

// RetrievalConfig configures similarity search.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// OllamaConfig configures the embedding model endpoint.
type OllamaConfig struct {
	BaseURL     string `yaml:"base_url"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// LLMConfig configures script and answer generation.
type LLMConfig struct {
	Model           string            `yaml:"model"`
	MaxContextChars int               `yaml:"max_context_chars"`
	TimeoutSecs     int               `yaml:"timeout_secs"`
	DurationMap     map[string]string `yaml:"duration_map"`
}

// HostConfig names one podcast host and binds it to a synthesis voice.
type HostConfig struct {
	Name    string `yaml:"name"`
	VoiceID string `yaml:"voice_id"`
}

// TTSConfig configures the Cartesia speech-synthesis endpoint.
type TTSConfig struct {
	BaseURL     string     `yaml:"base_url"`
	Model       string     `yaml:"model"`
	SampleRate  int        `yaml:"sample_rate"`
	Encoding    string     `yaml:"encoding"`
	Container   string     `yaml:"container"`
	TimeoutSecs int        `yaml:"timeout_secs"`
	HostA       HostConfig `yaml:"host_a"`
	HostB       HostConfig `yaml:"host_b"`
}

// AudioConfig configures podcast assembly and export.
type AudioConfig struct {
	PauseMs       int    `yaml:"pause_ms"`
	FadeMs        int    `yaml:"fade_ms"`
	ExportBitrate string `yaml:"export_bitrate"`
}

// AppConfig is the root application configuration.
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Ollama    OllamaConfig    `yaml:"ollama"`
	LLM       LLMConfig       `yaml:"llm"`
	TTS       TTSConfig       `yaml:"tts"`
	Audio     AudioConfig     `yaml:"audio"`
}

// Load reads a config from path. A missing file yields the defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

// Default returns the stock configuration.
func Default() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{Port: "8080"},
		Storage: StorageConfig{
			UploadDir:    "uploads",
			AudioDir:     "outputs",
			DatabasePath: "pdfcast.db",
		},
		Chunking: ChunkingConfig{
			Size:       800,
			Overlap:    150,
			Separators: []string{"\n\n", "\n", ". ", " ", ""},
		},
		Retrieval: RetrievalConfig{TopK: 3},
		Ollama: OllamaConfig{
			BaseURL:     "http://localhost:11434",
			Model:       "nomic-embed-text:v1.5",
			TimeoutSecs: 30,
		},
		LLM: LLMConfig{
			Model:           "gemini-2.0-flash",
			MaxContextChars: 100000,
			TimeoutSecs:     120,
			DurationMap: map[string]string{
				"short":  "3-5 minutes with 15-20 dialogue exchanges",
				"medium": "5-8 minutes with 30-40 dialogue exchanges",
				"long":   "10-15 minutes with 60-80 dialogue exchanges",
			},
		},
		TTS: TTSConfig{
			BaseURL:     "https://api.cartesia.ai",
			Model:       "sonic-3",
			SampleRate:  44100,
			Encoding:    "pcm_s16le",
			Container:   "wav",
			TimeoutSecs: 60,
			HostA:       HostConfig{Name: "Alex", VoiceID: "6ccbfb76-1fc6-48f7-b71d-91ac6298247b"},
			HostB:       HostConfig{Name: "Sam", VoiceID: "00967b2f-88a6-4a31-8153-110a92134b9f"},
		},
		Audio: AudioConfig{
			PauseMs:       500,
			FadeMs:        10,
			ExportBitrate: "256k",
		},
	}
}

// applyDefaults fills gaps left by a partial config file.
func applyDefaults(cfg *AppConfig) {
	def := Default()
	if cfg.Server.Port == "" {
		cfg.Server.Port = def.Server.Port
	}
	if cfg.Storage.UploadDir == "" {
		cfg.Storage.UploadDir = def.Storage.UploadDir
	}
	if cfg.Storage.AudioDir == "" {
		cfg.Storage.AudioDir = def.Storage.AudioDir
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = def.Storage.DatabasePath
	}
	if cfg.Chunking.Size <= 0 {
		cfg.Chunking.Size = def.Chunking.Size
	}
	if cfg.Chunking.Overlap < 0 || cfg.Chunking.Overlap >= cfg.Chunking.Size {
		cfg.Chunking.Overlap = def.Chunking.Overlap
	}
	if len(cfg.Chunking.Separators) == 0 {
		cfg.Chunking.Separators = def.Chunking.Separators
	}
	if cfg.Retrieval.TopK <= 0 {
		cfg.Retrieval.TopK = def.Retrieval.TopK
	}
	if cfg.Ollama.BaseURL == "" {
		cfg.Ollama.BaseURL = def.Ollama.BaseURL
	}
	if cfg.Ollama.Model == "" {
		cfg.Ollama.Model = def.Ollama.Model
	}
	if cfg.Ollama.TimeoutSecs <= 0 {
		cfg.Ollama.TimeoutSecs = def.Ollama.TimeoutSecs
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = def.LLM.Model
	}
	if cfg.LLM.MaxContextChars <= 0 {
		cfg.LLM.MaxContextChars = def.LLM.MaxContextChars
	}
	if cfg.LLM.TimeoutSecs <= 0 {
		cfg.LLM.TimeoutSecs = def.LLM.TimeoutSecs
	}
	if len(cfg.LLM.DurationMap) == 0 {
		cfg.LLM.DurationMap = def.LLM.DurationMap
	}
	if cfg.TTS.BaseURL == "" {
		cfg.TTS.BaseURL = def.TTS.BaseURL
	}
	if cfg.TTS.Model == "" {
		cfg.TTS.Model = def.TTS.Model
	}
	if cfg.TTS.SampleRate <= 0 {
		cfg.TTS.SampleRate = def.TTS.SampleRate
	}
	if cfg.TTS.Encoding == "" {
		cfg.TTS.Encoding = def.TTS.Encoding
	}
	if cfg.TTS.Container == "" {
		cfg.TTS.Container = def.TTS.Container
	}
	if cfg.TTS.TimeoutSecs <= 0 {
		cfg.TTS.TimeoutSecs = def.TTS.TimeoutSecs
	}
	if cfg.TTS.HostA.Name == "" {
		cfg.TTS.HostA = def.TTS.HostA
	}
	if cfg.TTS.HostB.Name == "" {
		cfg.TTS.HostB = def.TTS.HostB
	}
	if cfg.Audio.PauseMs <= 0 {
		cfg.Audio.PauseMs = def.Audio.PauseMs
	}
	if cfg.Audio.FadeMs <= 0 {
		cfg.Audio.FadeMs = def.Audio.FadeMs
	}
	if cfg.Audio.ExportBitrate == "" {
		cfg.Audio.ExportBitrate = def.Audio.ExportBitrate
	}
}
