package taxonomy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/examina/internal/llm"
)

// PlannerConfig controls plan building.
type PlannerConfig struct {
	// AnalysisMaxTokens bounds the subject-structure analysis completion.
	AnalysisMaxTokens int

	// GuidanceMaxTokens bounds each per-level guideline completion.
	GuidanceMaxTokens int

	// Temperature is the sampling temperature for both calls.
	Temperature float64
}

// DefaultPlannerConfig returns the default planner configuration.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		AnalysisMaxTokens: 2000,
		GuidanceMaxTokens: 1500,
		Temperature:       0.3,
	}
}

// Planner builds exam plans with model assistance.
type Planner struct {
	provider llm.Provider
	cfg      PlannerConfig
	now      func() time.Time
}

// NewPlanner creates a planner backed by the given completion provider.
func NewPlanner(provider llm.Provider, cfg PlannerConfig) *Planner {
	return &Planner{provider: provider, cfg: cfg, now: time.Now}
}

// BuildPlan distributes totalQuestions across the taxonomy levels and asks
// the model for a subject analysis plus per-level formulation guidelines.
func (p *Planner) BuildPlan(ctx context.Context, subject, topicContext, difficulty string, totalQuestions int) (*Plan, error) {
	dist, err := Distribute(totalQuestions, DefaultWeights())
	if err != nil {
		return nil, fmt.Errorf("distributing questions: %w", err)
	}

	plan := &Plan{
		Subject:        subject,
		TopicContext:   topicContext,
		Difficulty:     difficulty,
		TotalQuestions: totalQuestions,
		Distribution:   dist,
		Guidance:       make(map[Level]Guidance, len(Sequence)),
		CreatedAt:      p.now(),
	}

	analysisCtx := llm.WithPurpose(ctx, "plan_analysis")
	resp, err := p.provider.Complete(analysisCtx, llm.Request{
		System:      plannerSystemPrompt,
		Prompt:      analysisPrompt(plan),
		MaxTokens:   p.cfg.AnalysisMaxTokens,
		Temperature: p.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("analyzing subject structure: %w", err)
	}
	plan.Overview = strings.TrimSpace(resp.Text)

	for _, l := range Sequence {
		if dist[l] == 0 {
			continue
		}
		g, err := p.buildGuidance(ctx, plan, l)
		if err != nil {
			return nil, fmt.Errorf("building guidance for level %q: %w", l, err)
		}
		plan.Guidance[l] = g
	}

	return plan, nil
}

func (p *Planner) buildGuidance(ctx context.Context, plan *Plan, l Level) (Guidance, error) {
	ctx = llm.WithPurpose(ctx, "plan_guidance_"+string(l))
	resp, err := p.provider.Complete(ctx, llm.Request{
		System:      plannerSystemPrompt,
		Prompt:      guidancePrompt(plan, l),
		MaxTokens:   p.cfg.GuidanceMaxTokens,
		Temperature: p.cfg.Temperature,
	})
	if err != nil {
		return Guidance{}, err
	}

	g := parseGuidance(resp.Text)
	g.Level = l
	g.QuestionCount = plan.Distribution[l]
	return g, nil
}
