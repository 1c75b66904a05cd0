package models

// Reference is one cited source chunk returned alongside a chat answer.
type Reference struct {
	Page        int     `json:"page"`
	TextPreview string  `json:"text_preview"`
	Relevance   float64 `json:"relevance"`
}

type ChatResponse struct {
	Answer     string      `json:"answer"`
	References []Reference `json:"references"`
}

type UploadResponse struct {
	Status      string `json:"status"`
	Filename    string `json:"filename"`
	TotalChunks int    `json:"total_chunks"`
	TotalPages  int    `json:"total_pages"`
	WordCount   int    `json:"word_count"`
}

type PodcastResponse struct {
	Status        string `json:"status"`
	PodcastID     string `json:"podcast_id"`
	PodcastURL    string `json:"podcast_url"`
	Script        string `json:"script"`
	SegmentsCount int    `json:"segments_count"`
}

type StatusResponse struct {
	Status             string `json:"status"`
	DatabaseConnected  bool   `json:"database_connected"`
	ProjectCount       int    `json:"project_count"`
	GeminiConfigured   bool   `json:"gemini_configured"`
	CartesiaConfigured bool   `json:"cartesia_configured"`
}
