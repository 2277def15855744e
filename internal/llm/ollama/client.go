package ollama

// DefaultBaseURL is where a stock `ollama serve` listens
const DefaultBaseURL = "http://localhost:11434"

// GenerateRequest is the payload for POST /api/generate
type GenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`

	// sampling parameters (temperature, top_p, num_predict, num_ctx, stop, ...)
	Options map[string]interface{} `json:"options,omitempty"`
}

// GenerateResponse is the non-streaming reply from /api/generate
type GenerateResponse struct {
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Response  string `json:"response"`
	Done      *bool  `json:"done,omitempty"`

	// token counts, present once done=true
	TotalDuration   int64 `json:"total_duration,omitempty"`
	PromptEvalCount int   `json:"prompt_eval_count,omitempty"`
	EvalCount       int   `json:"eval_count,omitempty"`
	EvalDuration    int64 `json:"eval_duration,omitempty"`
}

// ErrorResponse represents an error response from Ollama
type ErrorResponse struct {
	Error string `json:"error"`
}
