package evaluation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/examina/internal/llm"
)

const detailedResponse = `CORRECTNESS: 8/10 - Mostly accurate.
COMPLETENESS: 6/10 - Missed the edge cases.
UNDERSTANDING: 7/10 - Solid grasp of the mechanism.
TOTAL_SCORE: 7.0/10

FEEDBACK:
A good answer that covers the main mechanism.

STRENGTHS:
Clear explanation of the core idea.

WEAKNESSES:
Edge cases were not discussed.`

func evalInput(answer string) Input {
	return Input{
		QuestionNumber: 1,
		Question:       "Explain how page faults are handled.",
		Answer:         answer,
		KeyPoints:      "trap, page table walk, disk read, resume",
		TopicLevel:     "intermediate",
		BloomLevel:     "understand",
		QuestionKind:   "initial",
	}
}

func TestEvaluateDetailed(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddText(detailedResponse)

	s := NewStage(mock, DefaultConfig(), "Operating Systems", "memory management")
	ev := s.Evaluate(context.Background(), evalInput("The CPU traps into the kernel..."))

	require.False(t, ev.Failed())
	assert.Equal(t, KindDetailed, ev.Kind)
	assert.Equal(t, CriteriaScores{Correctness: 8, Completeness: 6, Understanding: 7}, ev.Criteria)
	assert.Equal(t, 7.0, ev.TotalScore)
	assert.Equal(t, MethodWeightedAverage, ev.Reconciliation.Method)
	assert.Empty(t, ev.Reconciliation.Warning)
	assert.Equal(t, "Mostly accurate.", ev.CriteriaFeedback.Correctness)
	assert.Contains(t, ev.Feedback, "main mechanism")
	assert.Contains(t, ev.Strengths, "core idea")
	assert.Contains(t, ev.Weaknesses, "Edge cases")
	assert.Equal(t, 1, mock.CallCount())
}

func TestEvaluateEmptyAnswerSkipsProvider(t *testing.T) {
	mock := llm.NewMockProvider()

	s := NewStage(mock, DefaultConfig(), "History", "")
	ev := s.Evaluate(context.Background(), evalInput("   \n\t"))

	assert.False(t, ev.Failed())
	assert.Equal(t, KindEmpty, ev.Kind)
	assert.Equal(t, 0.0, ev.TotalScore)
	assert.Equal(t, CriteriaScores{}, ev.Criteria)
	assert.NotEmpty(t, ev.Feedback)
	assert.Equal(t, 0, mock.CallCount())
}

func TestEvaluateRejectsBadInputBeforeCalling(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"missing question", func(in *Input) { in.Question = "" }},
		{"missing key points", func(in *Input) { in.KeyPoints = "  " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider()

			s := NewStage(mock, DefaultConfig(), "History", "")
			in := evalInput("a reasonable answer")
			tt.mutate(&in)
			ev := s.Evaluate(context.Background(), in)

			assert.True(t, ev.Failed())
			assert.Equal(t, 0.0, ev.TotalScore)
			assert.Equal(t, 0, mock.CallCount())
		})
	}
}

func TestEvaluateProviderFailure(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddError(&llm.ErrProviderUnavailable{})

	s := NewStage(mock, DefaultConfig(), "History", "")
	ev := s.Evaluate(context.Background(), evalInput("some answer"))

	assert.True(t, ev.Failed())
	assert.Equal(t, 0.0, ev.TotalScore)
	assert.Contains(t, ev.Err, "completion failed")
}

func TestEvaluateUnparsableResponse(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddText("I cannot evaluate this answer.")

	s := NewStage(mock, DefaultConfig(), "History", "")
	ev := s.Evaluate(context.Background(), evalInput("some answer"))

	assert.True(t, ev.Failed())
	assert.Equal(t, 0.0, ev.TotalScore)
	assert.Contains(t, ev.Err, "no scores found")
	assert.Equal(t, "I cannot evaluate this answer.", ev.RawResponse)
}

func TestEvaluatePartialResponseDefaults(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddText("CORRECTNESS: 9/10 - Accurate.\nno other sections")

	s := NewStage(mock, DefaultConfig(), "History", "")
	ev := s.Evaluate(context.Background(), evalInput("some answer"))

	require.False(t, ev.Failed())
	assert.Equal(t, CriteriaScores{Correctness: 9}, ev.Criteria)
	assert.Equal(t, 3.0, ev.TotalScore)
	assert.Equal(t, MethodCriteriaAverage, ev.Reconciliation.Method)
	assert.Empty(t, ev.Feedback)
}

func TestEvaluateQuick(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddText("SCORE: 6.5/10\nCOMMENT:\nDecent answer.\nADVICE:\nMention the dates.")

	cfg := DefaultConfig()
	cfg.Quick = true
	s := NewStage(mock, cfg, "History", "")
	ev := s.Evaluate(context.Background(), evalInput("some answer"))

	require.False(t, ev.Failed())
	assert.Equal(t, KindQuick, ev.Kind)
	assert.InDelta(t, 6.5, ev.TotalScore, 0.3)
	assert.Equal(t, "Decent answer.", ev.Comment)
	assert.Equal(t, "Mention the dates.", ev.Advice)
}

func TestSummarizeOmitsAnswer(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddText(detailedResponse)

	s := NewStage(mock, DefaultConfig(), "Operating Systems", "")
	in := evalInput("a very distinctive answer text")
	ev := s.Evaluate(context.Background(), in)
	sum := s.Summary(ev, in)

	assert.Equal(t, 7.0, sum.TotalScore)
	assert.Equal(t, BandGood, sum.OverallBand)
	assert.Equal(t, BandGood, sum.CorrectnessBand)
	assert.Equal(t, BandSatisfactory, sum.CompletenessBand)
	assert.Equal(t, "understand", sum.BloomLevel)
	assert.Equal(t, "initial", sum.QuestionKind)

	// The digest must never carry the answer text.
	assert.NotContains(t, sum.Strengths, in.Answer)
	assert.NotContains(t, sum.Weaknesses, in.Answer)
}
