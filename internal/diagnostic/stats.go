package diagnostic

import (
	"math"

	"github.com/abhisek/examina/internal/evaluation"
)

// Distribution counts evaluations per performance bucket.
type Distribution struct {
	Excellent    int // score >= 9
	Good         int // 7 <= score < 9
	Satisfactory int // 5 <= score < 7
	Poor         int // score < 5
}

// Statistics aggregates the numeric outcome of an exam.
type Statistics struct {
	QuestionsAnswered int

	TotalScore       float64
	MaxPossibleScore float64
	AverageScore     float64
	Percentage       float64

	HighestScore float64
	LowestScore  float64

	// CriterionAverages holds the mean per rubric criterion.
	CriterionAverages map[string]float64

	Distribution Distribution

	// Trend compares the first and second half of the exam. It is
	// "insufficient data" below three evaluations. With an odd number of
	// evaluations the middle one counts toward the second half.
	Trend string
}

// Trend values.
const (
	TrendImproving    = "improving"
	TrendDeclining    = "declining"
	TrendStable       = "stable"
	TrendInsufficient = "insufficient data"
)

// ComputeStatistics aggregates evaluation scores. It tolerates error-tagged
// zero-score evaluations; they count like any other zero.
func ComputeStatistics(evals []evaluation.Evaluation) Statistics {
	s := Statistics{
		QuestionsAnswered: len(evals),
		CriterionAverages: map[string]float64{},
	}
	if len(evals) == 0 {
		s.Trend = TrendInsufficient
		return s
	}

	s.MaxPossibleScore = float64(len(evals)) * 10
	s.HighestScore = evals[0].TotalScore
	s.LowestScore = evals[0].TotalScore

	var corr, comp, und int
	for _, ev := range evals {
		s.TotalScore += ev.TotalScore
		s.HighestScore = math.Max(s.HighestScore, ev.TotalScore)
		s.LowestScore = math.Min(s.LowestScore, ev.TotalScore)

		corr += ev.Criteria.Correctness
		comp += ev.Criteria.Completeness
		und += ev.Criteria.Understanding

		switch {
		case ev.TotalScore >= 9:
			s.Distribution.Excellent++
		case ev.TotalScore >= 7:
			s.Distribution.Good++
		case ev.TotalScore >= 5:
			s.Distribution.Satisfactory++
		default:
			s.Distribution.Poor++
		}
	}

	n := float64(len(evals))
	s.TotalScore = round1(s.TotalScore)
	s.AverageScore = round1(s.TotalScore / n)
	s.Percentage = round1(s.TotalScore / s.MaxPossibleScore * 100)
	s.CriterionAverages[evaluation.CriterionCorrectness] = round1(float64(corr) / n)
	s.CriterionAverages[evaluation.CriterionCompleteness] = round1(float64(comp) / n)
	s.CriterionAverages[evaluation.CriterionUnderstanding] = round1(float64(und) / n)
	s.Trend = computeTrend(evals)
	return s
}

func computeTrend(evals []evaluation.Evaluation) string {
	if len(evals) < 3 {
		return TrendInsufficient
	}
	half := len(evals) / 2
	first := meanScore(evals[:half])
	second := meanScore(evals[half:])
	switch {
	case second > first:
		return TrendImproving
	case second < first:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func meanScore(evals []evaluation.Evaluation) float64 {
	var sum float64
	for _, ev := range evals {
		sum += ev.TotalScore
	}
	return sum / float64(len(evals))
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
