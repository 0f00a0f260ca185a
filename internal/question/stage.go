package question

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/examina/internal/evaluation"
	"github.com/abhisek/examina/internal/llm"
	"github.com/abhisek/examina/internal/taxonomy"
)

// Config controls question generation.
type Config struct {
	// MaxTokens bounds each generation completion.
	MaxTokens int

	// Temperature is the sampling temperature. Generation runs warmer
	// than evaluation so questions vary.
	Temperature float64

	// MinQuestionLength rejects degenerate question texts.
	MinQuestionLength int
}

// DefaultConfig returns the default generation configuration.
func DefaultConfig() Config {
	return Config{
		MaxTokens:         1200,
		Temperature:       0.7,
		MinQuestionLength: 10,
	}
}

// Stage generates exam questions. When a taxonomy plan is set, generation
// follows it level by level; otherwise it adapts to performance summaries.
// The stage tracks asked questions to reject duplicates; it is not safe for
// concurrent use.
type Stage struct {
	provider     llm.Provider
	cfg          Config
	subject      string
	topicContext string
	difficulty   string
	total        int

	plan   *taxonomy.Plan
	cursor int

	// asked holds prior question texts: original casing for prompts,
	// lowercased for duplicate checks.
	asked      []string
	askedLower []string

	now func() time.Time
}

// NewStage creates a generation stage for an exam of total questions.
func NewStage(provider llm.Provider, cfg Config, subject, topicContext, difficulty string, total int) *Stage {
	if cfg.MinQuestionLength <= 0 {
		cfg.MinQuestionLength = DefaultConfig().MinQuestionLength
	}
	return &Stage{
		provider:     provider,
		cfg:          cfg,
		subject:      subject,
		topicContext: topicContext,
		difficulty:   difficulty,
		total:        total,
		now:          time.Now,
	}
}

// SetPlan switches the stage to guided generation.
func (s *Stage) SetPlan(p *taxonomy.Plan) { s.plan = p }

// Generate produces question number (1-based), adapting to the given
// answer-free performance summaries. It returns an error when the provider
// fails or the response fails validation.
func (s *Stage) Generate(ctx context.Context, number int, summaries []evaluation.Summary) (*Question, error) {
	kind, guidance := s.selectStrategy(number, summaries)

	var prompt string
	switch kind {
	case KindInitial:
		prompt = initialPrompt(s, number, s.total)
	case KindGuided:
		prompt = guidedPrompt(s, number, s.total, guidance, summaries)
	default:
		prompt = contextualPrompt(s, number, s.total, s.asked, summaries)
	}

	ctx = llm.WithPurpose(ctx, "generate_question_"+string(kind))
	resp, err := s.provider.Complete(ctx, llm.Request{
		System:      generatorSystemPrompt,
		Prompt:      prompt,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generating question %d: %w", number, err)
	}

	p := parseQuestion(resp.Text)
	if err := s.validate(p); err != nil {
		return nil, fmt.Errorf("question %d rejected: %w", number, err)
	}

	q := &Question{
		Number:            number,
		Text:              p.text,
		KeyPoints:         p.keyPoints,
		TopicLevel:        p.topicLevel,
		ThematicDirection: p.thematicDirection,
		Reasoning:         p.reasoning,
		AdaptationNotes:   p.adaptation,
		Kind:              kind,
		RawResponse:       resp.Text,
		CreatedAt:         s.now(),
	}
	if kind == KindGuided {
		q.BloomLevel = guidance.Level
		if q.TopicLevel == "" {
			q.TopicLevel = taxonomy.TopicLevelFor(guidance.Level)
		}
		s.cursor++
	}
	if q.TopicLevel == "" {
		q.TopicLevel = "basic"
	}

	s.asked = append(s.asked, q.Text)
	s.askedLower = append(s.askedLower, strings.ToLower(strings.TrimSpace(q.Text)))
	return q, nil
}

// selectStrategy picks the generation kind for a question. A plan takes
// precedence; the first question with no history opens the exam; everything
// else adapts to the summaries.
func (s *Stage) selectStrategy(number int, summaries []evaluation.Summary) (Kind, taxonomy.Guidance) {
	if s.plan != nil {
		if g, ok := s.plan.GuidanceForIndex(s.cursor); ok {
			return KindGuided, g
		}
		// Plan exhausted: fall back to adaptive generation.
	}
	if number == 1 && len(summaries) == 0 {
		return KindInitial, taxonomy.Guidance{}
	}
	return KindContextual, taxonomy.Guidance{}
}

func (s *Stage) validate(p parsed) error {
	text := strings.TrimSpace(p.text)
	if len(text) < s.cfg.MinQuestionLength {
		return fmt.Errorf("question text too short (%d chars, need %d)", len(text), s.cfg.MinQuestionLength)
	}
	if strings.TrimSpace(p.keyPoints) == "" {
		return fmt.Errorf("missing key points")
	}
	lower := strings.ToLower(text)
	for _, prev := range s.askedLower {
		if prev == lower {
			return fmt.Errorf("duplicate of an earlier question")
		}
	}
	return nil
}
