package llm

import "context"

// Provider is the core abstraction for completion-service interaction.
// The exam stages build a free-text prompt and receive free text back;
// all structure is recovered downstream by field extraction.
type Provider interface {
	// Complete sends a prompt to the completion service and returns the
	// generated text. One call maps to one upstream request: the exam
	// core never retries, so retry policy belongs to whatever decorators
	// the caller chooses to wrap around the base provider.
	Complete(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the completion service.
type Request struct {
	// System is the system prompt. Sets the model's role and constraints.
	System string

	// Prompt is the user-turn text. Exam stages always issue single-turn
	// requests; any history is flattened into the prompt itself.
	Prompt string

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	// Default: 0.0 (deterministic) when not set.
	Temperature float64
}

// Response holds the completion output.
type Response struct {
	// Text is the raw generated text.
	Text string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
