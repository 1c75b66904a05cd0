package models

// CartesiaVoice selects a voice by id for a synthesis request.
type CartesiaVoice struct {
	Mode string `json:"mode"`
	ID   string `json:"id"`
}

// CartesiaOutputFormat pins the audio encoding the synthesizer returns.
// The assembler expects 16-bit linear PCM mono in a WAV container.
type CartesiaOutputFormat struct {
	Container  string `json:"container"`
	SampleRate int    `json:"sample_rate"`
	Encoding   string `json:"encoding"`
}

// CartesiaTTSRequest structures a request to the Cartesia /tts/bytes API.
type CartesiaTTSRequest struct {
	ModelID      string               `json:"model_id"`
	Transcript   string               `json:"transcript"`
	Voice        CartesiaVoice        `json:"voice"`
	OutputFormat CartesiaOutputFormat `json:"output_format"`
}
