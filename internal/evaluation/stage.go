package evaluation

import (
	"context"
	"strings"
	"time"

	"github.com/abhisek/examina/internal/llm"
)

// Config controls the evaluation stage.
type Config struct {
	// MaxTokens bounds each evaluation completion.
	MaxTokens int

	// Temperature is the sampling temperature. Evaluation runs cold so
	// equal answers score alike.
	Temperature float64

	// ConsistencyThreshold is the maximum gap between a reported aggregate
	// and the criteria average before the reported value is discarded.
	ConsistencyThreshold float64

	// Quick switches to single-score evaluation with a short comment
	// instead of the full rubric.
	Quick bool
}

// DefaultConfig returns the default evaluation configuration.
func DefaultConfig() Config {
	return Config{
		MaxTokens:            1500,
		Temperature:          0.2,
		ConsistencyThreshold: DefaultConsistencyThreshold,
	}
}

// Input carries one answer and its question's metadata into the stage.
// Question metadata travels as plain strings so the stage has no dependency
// on how questions are produced.
type Input struct {
	QuestionNumber int
	Question       string
	Answer         string
	KeyPoints      string
	TopicLevel     string
	BloomLevel     string
	QuestionKind   string
}

// Stage evaluates answers against the rubric.
type Stage struct {
	provider     llm.Provider
	cfg          Config
	subject      string
	topicContext string
	now          func() time.Time
}

// NewStage creates an evaluation stage for the given subject.
func NewStage(provider llm.Provider, cfg Config, subject, topicContext string) *Stage {
	if cfg.ConsistencyThreshold <= 0 {
		cfg.ConsistencyThreshold = DefaultConsistencyThreshold
	}
	return &Stage{
		provider:     provider,
		cfg:          cfg,
		subject:      subject,
		topicContext: topicContext,
		now:          time.Now,
	}
}

// Evaluate scores one answer. Provider and parse failures never surface as
// Go errors; they produce a zero-score evaluation with Err set so the exam
// can record the failure and move on.
func (s *Stage) Evaluate(ctx context.Context, in Input) Evaluation {
	kind := KindDetailed
	if s.cfg.Quick {
		kind = KindQuick
	}
	if strings.TrimSpace(in.Question) == "" {
		return s.failed(in, kind, "no question text to evaluate against", "")
	}
	if strings.TrimSpace(in.KeyPoints) == "" {
		return s.failed(in, kind, "no key points to evaluate against", "")
	}
	if strings.TrimSpace(in.Answer) == "" {
		return s.emptyAnswer(in)
	}
	if s.cfg.Quick {
		return s.evaluateQuick(ctx, in)
	}
	return s.evaluateDetailed(ctx, in)
}

// Summary returns the answer-free digest of an evaluation produced for the
// given input.
func (s *Stage) Summary(ev Evaluation, in Input) Summary {
	return Summarize(ev, in.BloomLevel, in.QuestionKind, in.TopicLevel)
}

// emptyAnswer builds the fixed zero-score evaluation for a blank answer.
// No completion call is made.
func (s *Stage) emptyAnswer(in Input) Evaluation {
	return Evaluation{
		QuestionNumber: in.QuestionNumber,
		Kind:           KindEmpty,
		TotalScore:     0,
		Reconciliation: Reconcile([]int{0, 0, 0}, nil, s.cfg.ConsistencyThreshold),
		Feedback:       "No answer was provided for this question.",
		Weaknesses:     "The question was left unanswered.",
		RawResponse:    "EMPTY_ANSWER",
		CreatedAt:      s.now(),
	}
}

func (s *Stage) evaluateDetailed(ctx context.Context, in Input) Evaluation {
	ctx = llm.WithPurpose(ctx, "evaluate_answer")
	resp, err := s.provider.Complete(ctx, llm.Request{
		System:      evaluatorSystemPrompt,
		Prompt:      detailedPrompt(s.subject, s.topicContext, in),
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return s.failed(in, KindDetailed, "completion failed: "+err.Error(), "")
	}

	parsed, err := parseDetailed(resp.Text)
	if err != nil {
		return s.failed(in, KindDetailed, err.Error(), resp.Text)
	}

	rec := Reconcile(parsed.scores.Values(), parsed.reported, s.cfg.ConsistencyThreshold)
	return Evaluation{
		QuestionNumber:   in.QuestionNumber,
		Kind:             KindDetailed,
		Criteria:         parsed.scores,
		CriteriaFeedback: parsed.comments,
		TotalScore:       rec.Total,
		Reconciliation:   rec,
		Feedback:         parsed.feedback,
		Strengths:        parsed.strengths,
		Weaknesses:       parsed.weaknesses,
		RawResponse:      resp.Text,
		CreatedAt:        s.now(),
	}
}

func (s *Stage) evaluateQuick(ctx context.Context, in Input) Evaluation {
	ctx = llm.WithPurpose(ctx, "evaluate_answer_quick")
	resp, err := s.provider.Complete(ctx, llm.Request{
		System:      evaluatorSystemPrompt,
		Prompt:      quickPrompt(s.subject, in),
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return s.failed(in, KindQuick, "completion failed: "+err.Error(), "")
	}

	parsed, err := parseQuick(resp.Text)
	if err != nil {
		return s.failed(in, KindQuick, err.Error(), resp.Text)
	}

	score := parsed.score
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	n := int(score + 0.5)
	rec := Reconcile([]int{n, n, n}, &score, s.cfg.ConsistencyThreshold)
	return Evaluation{
		QuestionNumber: in.QuestionNumber,
		Kind:           KindQuick,
		Criteria:       CriteriaScores{Correctness: n, Completeness: n, Understanding: n},
		TotalScore:     rec.Total,
		Reconciliation: rec,
		Comment:        parsed.comment,
		Advice:         parsed.advice,
		RawResponse:    resp.Text,
		CreatedAt:      s.now(),
	}
}

func (s *Stage) failed(in Input, kind Kind, reason, raw string) Evaluation {
	return Evaluation{
		QuestionNumber: in.QuestionNumber,
		Kind:           kind,
		TotalScore:     0,
		Feedback:       "The answer could not be evaluated.",
		RawResponse:    raw,
		Err:            reason,
		CreatedAt:      s.now(),
	}
}
