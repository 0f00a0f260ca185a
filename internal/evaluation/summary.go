package evaluation

import "time"

// Band is a coarse performance label derived from a 0-10 score.
type Band string

const (
	BandExcellent    Band = "excellent"
	BandGood         Band = "good"
	BandSatisfactory Band = "satisfactory"
	BandWeak         Band = "weak"
	BandPoor         Band = "poor"
)

// BandFor categorizes a 0-10 score.
func BandFor(score float64) Band {
	switch {
	case score >= 9:
		return BandExcellent
	case score >= 7:
		return BandGood
	case score >= 5:
		return BandSatisfactory
	case score >= 3:
		return BandWeak
	default:
		return BandPoor
	}
}

// Summary is the answer-free digest of an evaluation that downstream
// question generation sees. It deliberately carries no answer text: adaptive
// prompts are built from scores and bands only.
type Summary struct {
	QuestionNumber int

	TotalScore float64
	Criteria   CriteriaScores

	OverallBand       Band
	CorrectnessBand   Band
	CompletenessBand  Band
	UnderstandingBand Band

	Strengths  string
	Weaknesses string

	// BloomLevel, QuestionKind and TopicLevel describe the question the
	// summary belongs to, carried along for adaptive prompt building.
	BloomLevel   string
	QuestionKind string
	TopicLevel   string

	EvaluationKind Kind
	Failed         bool

	CreatedAt time.Time
}

// Summarize builds the answer-free digest of an evaluation. The question
// metadata is passed in by the caller since evaluations do not retain it.
func Summarize(ev Evaluation, bloomLevel, questionKind, topicLevel string) Summary {
	return Summary{
		QuestionNumber:    ev.QuestionNumber,
		TotalScore:        ev.TotalScore,
		Criteria:          ev.Criteria,
		OverallBand:       BandFor(ev.TotalScore),
		CorrectnessBand:   BandFor(float64(ev.Criteria.Correctness)),
		CompletenessBand:  BandFor(float64(ev.Criteria.Completeness)),
		UnderstandingBand: BandFor(float64(ev.Criteria.Understanding)),
		Strengths:         ev.Strengths,
		Weaknesses:        ev.Weaknesses,
		BloomLevel:        bloomLevel,
		QuestionKind:      questionKind,
		TopicLevel:        topicLevel,
		EvaluationKind:    ev.Kind,
		Failed:            ev.Failed(),
		CreatedAt:         ev.CreatedAt,
	}
}
