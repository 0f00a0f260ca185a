package diagnostic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/examina/internal/evaluation"
	"github.com/abhisek/examina/internal/llm"
	"github.com/abhisek/examina/internal/question"
)

// Config controls the diagnostic stage.
type Config struct {
	// AnalysisMaxTokens bounds the pattern-analysis completion.
	AnalysisMaxTokens int

	// ReportMaxTokens bounds the final-report completion.
	ReportMaxTokens int

	// Temperature is the sampling temperature for both calls.
	Temperature float64

	// MaxRecommendations caps the extracted recommendation list.
	MaxRecommendations int

	// MaxCriticalAreas caps the extracted critical-area list.
	MaxCriticalAreas int
}

// DefaultConfig returns the default diagnostic configuration.
func DefaultConfig() Config {
	return Config{
		AnalysisMaxTokens:  2000,
		ReportMaxTokens:    3000,
		Temperature:        0.3,
		MaxRecommendations: 8,
		MaxCriticalAreas:   5,
	}
}

// Result is the full diagnostic outcome of a completed exam.
type Result struct {
	Subject string

	Statistics Statistics
	Grade      Grade

	// PatternAnalysis is the model's analysis of answer patterns across
	// the transcript.
	PatternAnalysis string

	// FinalReport is the full report text addressed to the student.
	FinalReport string

	Recommendations []string
	CriticalAreas   []string

	CreatedAt time.Time
}

// Stage produces the end-of-exam diagnostic report.
type Stage struct {
	provider     llm.Provider
	cfg          Config
	subject      string
	topicContext string
	now          func() time.Time
}

// NewStage creates a diagnostic stage for the given subject.
func NewStage(provider llm.Provider, cfg Config, subject, topicContext string) *Stage {
	if cfg.MaxRecommendations <= 0 {
		cfg.MaxRecommendations = DefaultConfig().MaxRecommendations
	}
	if cfg.MaxCriticalAreas <= 0 {
		cfg.MaxCriticalAreas = DefaultConfig().MaxCriticalAreas
	}
	return &Stage{
		provider:     provider,
		cfg:          cfg,
		subject:      subject,
		topicContext: topicContext,
		now:          time.Now,
	}
}

// Diagnose analyzes a completed exam. Questions and evaluations must align
// one to one and be non-empty.
func (s *Stage) Diagnose(ctx context.Context, questions []question.Question, evals []evaluation.Evaluation) (*Result, error) {
	if len(questions) == 0 || len(evals) == 0 {
		return nil, fmt.Errorf("insufficient data for diagnosis: no answered questions")
	}
	if len(questions) != len(evals) {
		return nil, fmt.Errorf("insufficient data for diagnosis: %d questions but %d evaluations",
			len(questions), len(evals))
	}

	stats := ComputeStatistics(evals)
	grade := DetermineGrade(stats.Percentage)
	transcript := buildTranscript(questions, evals)

	analysisCtx := llm.WithPurpose(ctx, "diagnose_patterns")
	analysisResp, err := s.provider.Complete(analysisCtx, llm.Request{
		System:      diagnosticSystemPrompt,
		Prompt:      analysisPrompt(s.subject, s.topicContext, transcript, stats),
		MaxTokens:   s.cfg.AnalysisMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("analyzing answer patterns: %w", err)
	}
	analysis := strings.TrimSpace(analysisResp.Text)

	reportCtx := llm.WithPurpose(ctx, "final_report")
	reportResp, err := s.provider.Complete(reportCtx, llm.Request{
		System:      diagnosticSystemPrompt,
		Prompt:      reportPrompt(s.subject, analysis, stats, grade),
		MaxTokens:   s.cfg.ReportMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generating final report: %w", err)
	}
	report := strings.TrimSpace(reportResp.Text)

	return &Result{
		Subject:         s.subject,
		Statistics:      stats,
		Grade:           grade,
		PatternAnalysis: analysis,
		FinalReport:     report,
		Recommendations: extractRecommendations(report, s.cfg.MaxRecommendations),
		CriticalAreas:   extractCriticalAreas(report, questions, evals, s.cfg.MaxCriticalAreas),
		CreatedAt:       s.now(),
	}, nil
}
