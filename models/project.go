package models

import "time"

// PageText is the text of a single source page, produced by the extractor.
type PageText struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// Chunk is a bounded span of document text tagged with its source page.
// Chunks are immutable once created; their position in the slice is the
// key used to recover them from a similarity-search result.
type Chunk struct {
	Text string `json:"text"`
	Page int    `json:"page"`
}

// RetrievalResult is a chunk returned from a similarity search, annotated
// with a relevance score in (0,1]. Higher is more relevant.
type RetrievalResult struct {
	Text           string  `json:"text"`
	Page           int     `json:"page"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Project owns one uploaded document and everything derived from it.
type Project struct {
	ID          string    `json:"project_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	PDFFilename string    `json:"pdf_filename,omitempty"`
	PDFPath     string    `json:"-"`
	PDFText     string    `json:"-"`
	Chunks      []Chunk   `json:"-"`
	IndexPath   string    `json:"-"`
	Podcasts    []Podcast `json:"podcasts"`
}

// ProjectSummary is the listing view of a project.
type ProjectSummary struct {
	ID           string    `json:"project_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	PDFFilename  string    `json:"pdf_filename,omitempty"`
	PodcastCount int       `json:"podcast_count"`
}

// Podcast is one generated episode. Records are append-only: created by the
// podcast-generation operation and never mutated afterwards.
type Podcast struct {
	ID            string    `json:"podcast_id"`
	ProjectID     string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	Topic         string    `json:"topic,omitempty"`
	Duration      string    `json:"duration"`
	Script        string    `json:"script"`
	AudioPath     string    `json:"-"`
	AudioFilename string    `json:"audio_filename"`
	SegmentCount  int       `json:"segments_count"`
}
