package models

// OllamaEmbedRequest structures a request to the Ollama embedding API.
type OllamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// OllamaEmbedResponse carries the vector parsed from the Ollama response.
type OllamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}
