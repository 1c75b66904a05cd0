package models

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type ChatRequest struct {
	ProjectID string `json:"project_id" binding:"required"`
	Query     string `json:"query" binding:"required"`
	TopK      int    `json:"top_k"`
}

type PodcastRequest struct {
	ProjectID string `json:"project_id" binding:"required"`
	Topic     string `json:"topic,omitempty"`
	Duration  string `json:"duration"`
}
