package diagnostic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/examina/internal/evaluation"
	"github.com/abhisek/examina/internal/llm"
	"github.com/abhisek/examina/internal/question"
)

func evalWithScore(n int, score float64, c evaluation.CriteriaScores) evaluation.Evaluation {
	return evaluation.Evaluation{
		QuestionNumber: n,
		Kind:           evaluation.KindDetailed,
		Criteria:       c,
		TotalScore:     score,
	}
}

func TestComputeStatistics(t *testing.T) {
	evals := []evaluation.Evaluation{
		evalWithScore(1, 4.0, evaluation.CriteriaScores{Correctness: 4, Completeness: 4, Understanding: 4}),
		evalWithScore(2, 6.0, evaluation.CriteriaScores{Correctness: 6, Completeness: 6, Understanding: 6}),
		evalWithScore(3, 8.0, evaluation.CriteriaScores{Correctness: 9, Completeness: 7, Understanding: 8}),
		evalWithScore(4, 9.0, evaluation.CriteriaScores{Correctness: 9, Completeness: 9, Understanding: 9}),
	}

	s := ComputeStatistics(evals)
	assert.Equal(t, 4, s.QuestionsAnswered)
	assert.Equal(t, 27.0, s.TotalScore)
	assert.Equal(t, 40.0, s.MaxPossibleScore)
	assert.Equal(t, 6.8, s.AverageScore)
	assert.Equal(t, 67.5, s.Percentage)
	assert.Equal(t, 9.0, s.HighestScore)
	assert.Equal(t, 4.0, s.LowestScore)
	assert.Equal(t, 7.0, s.CriterionAverages[evaluation.CriterionCorrectness])
	assert.Equal(t, 6.5, s.CriterionAverages[evaluation.CriterionCompleteness])
	assert.Equal(t, Distribution{Excellent: 1, Good: 1, Satisfactory: 1, Poor: 1}, s.Distribution)
	assert.Equal(t, TrendImproving, s.Trend)
}

func TestComputeStatisticsTrend(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   string
	}{
		{"too few evaluations", []float64{8, 3}, TrendInsufficient},
		{"improving", []float64{3, 5, 8}, TrendImproving},
		{"declining", []float64{9, 6, 4, 3}, TrendDeclining},
		{"stable", []float64{7, 6, 7, 6}, TrendStable},
		{"middle score counts toward second half", []float64{5, 9, 5}, TrendImproving},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var evals []evaluation.Evaluation
			for i, sc := range tt.scores {
				evals = append(evals, evalWithScore(i+1, sc, evaluation.CriteriaScores{}))
			}
			assert.Equal(t, tt.want, ComputeStatistics(evals).Trend)
		})
	}
}

func TestDetermineGrade(t *testing.T) {
	assert.Equal(t, GradeExcellent, DetermineGrade(92).Label)
	assert.Equal(t, GradeGood, DetermineGrade(75).Label)
	assert.Equal(t, GradeSatisfactory, DetermineGrade(60).Label)
	assert.Equal(t, GradePoor, DetermineGrade(45).Label)
	assert.Equal(t, GradeCritical, DetermineGrade(20).Label)
}

const reportResponse = `Overall a satisfactory performance.

=== RECOMMENDATIONS ===
1. Review process scheduling.
2. Practice explaining deadlock conditions aloud.
3. Work through paging exercises.

=== CRITICAL AREAS ===
1. Deadlock detection
2. Page replacement policies`

func TestDiagnose(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddText("The student is strong on recall but weak on application.")
	mock.AddText(reportResponse)

	questions := []question.Question{
		{Number: 1, Text: "Define a deadlock.", TopicLevel: "basic", ThematicDirection: "concurrency"},
		{Number: 2, Text: "How does LRU page replacement work?", TopicLevel: "intermediate", ThematicDirection: "memory"},
	}
	evals := []evaluation.Evaluation{
		evalWithScore(1, 8.0, evaluation.CriteriaScores{Correctness: 8, Completeness: 8, Understanding: 8}),
		evalWithScore(2, 4.0, evaluation.CriteriaScores{Correctness: 4, Completeness: 4, Understanding: 4}),
	}

	s := NewStage(mock, DefaultConfig(), "Operating Systems", "")
	res, err := s.Diagnose(context.Background(), questions, evals)
	require.NoError(t, err)

	assert.Equal(t, "Operating Systems", res.Subject)
	assert.Equal(t, 12.0, res.Statistics.TotalScore)
	assert.Equal(t, 60.0, res.Statistics.Percentage)
	assert.Equal(t, GradeSatisfactory, res.Grade.Label)
	assert.Contains(t, res.PatternAnalysis, "weak on application")
	assert.Contains(t, res.FinalReport, "satisfactory performance")
	assert.Equal(t, []string{
		"Review process scheduling.",
		"Practice explaining deadlock conditions aloud.",
		"Work through paging exercises.",
	}, res.Recommendations)
	assert.Equal(t, []string{"Deadlock detection", "Page replacement policies"}, res.CriticalAreas)

	// The analysis prompt carries the transcript and scores.
	assert.Contains(t, mock.Calls[0].Prompt, "Define a deadlock.")
	assert.Contains(t, mock.Calls[0].Prompt, "8.0/10")
}

func TestDiagnoseRejectsMisalignedInput(t *testing.T) {
	s := NewStage(llm.NewMockProvider(), DefaultConfig(), "History", "")

	_, err := s.Diagnose(context.Background(), nil, nil)
	assert.ErrorContains(t, err, "insufficient data")

	_, err = s.Diagnose(context.Background(),
		[]question.Question{{Number: 1}, {Number: 2}},
		[]evaluation.Evaluation{{QuestionNumber: 1}})
	assert.ErrorContains(t, err, "insufficient data")
}

func TestExtractRecommendationsFallback(t *testing.T) {
	recs := extractRecommendations("a report with no sections", 8)
	assert.NotEmpty(t, recs)
	assert.LessOrEqual(t, len(recs), 8)

	recs = extractRecommendations("a report with no sections", 2)
	assert.Len(t, recs, 2)
}

func TestExtractCriticalAreasFallsBackToLowScores(t *testing.T) {
	questions := []question.Question{
		{Number: 1, ThematicDirection: "concurrency"},
		{Number: 2, ThematicDirection: "memory"},
		{Number: 3, ThematicDirection: "scheduling"},
	}
	evals := []evaluation.Evaluation{
		evalWithScore(1, 3.0, evaluation.CriteriaScores{}),
		evalWithScore(2, 8.0, evaluation.CriteriaScores{}),
		evalWithScore(3, 2.0, evaluation.CriteriaScores{}),
	}

	areas := extractCriticalAreas("no sections here", questions, evals, 5)
	assert.Equal(t, []string{"concurrency", "scheduling"}, areas)
}

func TestExtractCriticalAreasNone(t *testing.T) {
	report := "=== CRITICAL AREAS ===\n1. none"
	areas := extractCriticalAreas(report, nil, nil, 5)
	assert.Empty(t, areas)
}
