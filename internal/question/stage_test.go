package question

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/examina/internal/evaluation"
	"github.com/abhisek/examina/internal/llm"
	"github.com/abhisek/examina/internal/taxonomy"
)

func questionResponse(text string) string {
	return `QUESTION:
` + text + `

KEY_POINTS:
point one
point two

TOPIC_LEVEL: intermediate

THEMATIC_DIRECTION:
memory management

REASONING:
A natural follow-up.

ADAPTATION:
none`
}

func TestGenerateInitial(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddText(questionResponse("What is virtual memory?"))

	s := NewStage(mock, DefaultConfig(), "Operating Systems", "memory", "intermediate", 5)
	q, err := s.Generate(context.Background(), 1, nil)
	require.NoError(t, err)

	assert.Equal(t, KindInitial, q.Kind)
	assert.Equal(t, 1, q.Number)
	assert.Equal(t, "What is virtual memory?", q.Text)
	assert.Equal(t, "point one\npoint two", q.KeyPoints)
	assert.Equal(t, "intermediate", q.TopicLevel)
	assert.Equal(t, "memory management", q.ThematicDirection)
	assert.Empty(t, q.AdaptationNotes)

	req := mock.Calls[0]
	assert.Contains(t, req.Prompt, "opening question")
	assert.Contains(t, req.Prompt, "Operating Systems")
}

func TestGenerateContextualUsesSummaries(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddText(questionResponse("What is virtual memory?"))
	mock.AddText(questionResponse("How does the kernel evict pages under memory pressure?"))

	summaries := []evaluation.Summary{
		{
			QuestionNumber: 1,
			TotalScore:     4.5,
			OverallBand:    evaluation.BandPoor,
			Weaknesses:     "confused paging with segmentation",
		},
	}

	s := NewStage(mock, DefaultConfig(), "Operating Systems", "memory", "intermediate", 5)
	_, err := s.Generate(context.Background(), 1, nil)
	require.NoError(t, err)

	q, err := s.Generate(context.Background(), 2, summaries)
	require.NoError(t, err)
	assert.Equal(t, KindContextual, q.Kind)

	req := mock.Calls[1]
	assert.Contains(t, req.Prompt, "4.5/10")
	assert.Contains(t, req.Prompt, "confused paging with segmentation")
	// Prior question texts are carried so the model avoids repeats; the
	// performance digest itself stays answer-free.
	assert.Contains(t, req.Prompt, "What is virtual memory?")
}

func TestGenerateGuidedFollowsPlan(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddText(questionResponse("Define a process control block."))
	mock.AddText(questionResponse("Define a thread."))
	mock.AddText(questionResponse("Explain the difference between a process and a thread."))

	plan := &taxonomy.Plan{
		TotalQuestions: 3,
		Distribution: map[taxonomy.Level]int{
			taxonomy.Remember:   2,
			taxonomy.Understand: 1,
		},
		Guidance: map[taxonomy.Level]taxonomy.Guidance{
			taxonomy.Remember:   {Level: taxonomy.Remember, FormulationPrinciples: "ask for definitions"},
			taxonomy.Understand: {Level: taxonomy.Understand, FormulationPrinciples: "ask for explanations"},
		},
	}

	s := NewStage(mock, DefaultConfig(), "Operating Systems", "", "basic", 3)
	s.SetPlan(plan)

	q1, err := s.Generate(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, KindGuided, q1.Kind)
	assert.Equal(t, taxonomy.Remember, q1.BloomLevel)

	q2, err := s.Generate(context.Background(), 2, nil)
	require.NoError(t, err)
	assert.Equal(t, taxonomy.Remember, q2.BloomLevel)

	q3, err := s.Generate(context.Background(), 3, nil)
	require.NoError(t, err)
	assert.Equal(t, taxonomy.Understand, q3.BloomLevel)

	assert.Contains(t, mock.Calls[0].Prompt, "ask for definitions")
	assert.Contains(t, mock.Calls[2].Prompt, "ask for explanations")
}

func TestGenerateRejectsShortQuestion(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddText(questionResponse("Why?"))

	s := NewStage(mock, DefaultConfig(), "History", "", "basic", 5)
	_, err := s.Generate(context.Background(), 1, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}

func TestGenerateRejectsMissingKeyPoints(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddText("QUESTION:\nWhat caused the fall of Rome?\n\nTOPIC_LEVEL: basic")

	s := NewStage(mock, DefaultConfig(), "History", "", "basic", 5)
	_, err := s.Generate(context.Background(), 1, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key points")
}

func TestGenerateRejectsDuplicate(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddText(questionResponse("What is virtual memory?"))
	mock.AddText(questionResponse("what is VIRTUAL memory?"))

	s := NewStage(mock, DefaultConfig(), "Operating Systems", "", "basic", 5)
	_, err := s.Generate(context.Background(), 1, nil)
	require.NoError(t, err)

	_, err = s.Generate(context.Background(), 2, []evaluation.Summary{{QuestionNumber: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestGenerateProviderFailure(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddError(&llm.ErrProviderUnavailable{})

	s := NewStage(mock, DefaultConfig(), "History", "", "basic", 5)
	_, err := s.Generate(context.Background(), 1, nil)
	assert.Error(t, err)
}

func TestClipKeepsRuneBoundaries(t *testing.T) {
	long := strings.Repeat("объём", 30)

	got := clip(long, 100)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, 100, utf8.RuneCountInString(strings.TrimSuffix(got, "...")))

	assert.Equal(t, "короткий", clip("короткий", 100))
}
