package journal

import (
	"context"
	"time"
)

// StepRecord captures one orchestration step of an exam attempt.
// Records are write-once: the orchestrator appends one per workflow
// transition that produced user-visible data.
type StepRecord struct {
	SessionID string
	Step      string
	Timestamp time.Time

	// Payloads, empty when the step did not produce them.
	Question   string
	Answer     string
	Evaluation string // serialized evaluation result
	Report     string // final diagnostic report text
}

// LLMRecord captures a single completion-service call.
type LLMRecord struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// Recorder receives journal records. Implementations must not block the
// exam flow on failure; callers treat append errors as non-fatal.
type Recorder interface {
	// AppendStep records one orchestration step.
	AppendStep(ctx context.Context, rec StepRecord) error

	// AppendLLMRequest records a completion-service call.
	AppendLLMRequest(ctx context.Context, rec LLMRecord) error
}

// Nop is a Recorder that discards everything.
type Nop struct{}

func (Nop) AppendStep(context.Context, StepRecord) error      { return nil }
func (Nop) AppendLLMRequest(context.Context, LLMRecord) error { return nil }
