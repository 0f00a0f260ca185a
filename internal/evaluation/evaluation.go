package evaluation

import "time"

// Kind distinguishes how an evaluation was produced.
type Kind string

const (
	// KindDetailed is a full rubric evaluation with per-criterion feedback.
	KindDetailed Kind = "detailed"

	// KindQuick is a single-score evaluation with a short comment.
	KindQuick Kind = "quick"

	// KindEmpty is the fixed zero-score evaluation for a blank answer.
	// No completion call is made.
	KindEmpty Kind = "empty"
)

// Criterion names, in rubric order.
const (
	CriterionCorrectness   = "correctness"
	CriterionCompleteness  = "completeness"
	CriterionUnderstanding = "understanding"
)

// CriteriaScores holds the per-criterion integer scores on a 0-10 scale.
type CriteriaScores struct {
	Correctness   int
	Completeness  int
	Understanding int
}

// Values returns the scores in rubric order.
func (c CriteriaScores) Values() []int {
	return []int{c.Correctness, c.Completeness, c.Understanding}
}

// CriteriaFeedback holds the short per-criterion comments.
type CriteriaFeedback struct {
	Correctness   string
	Completeness  string
	Understanding string
}

// Evaluation is the scored assessment of one answer.
type Evaluation struct {
	QuestionNumber int
	Kind           Kind

	Criteria         CriteriaScores
	CriteriaFeedback CriteriaFeedback

	// TotalScore is the reconciled score on the 0-10 scale.
	TotalScore     float64
	Reconciliation Reconciliation

	Feedback   string
	Strengths  string
	Weaknesses string

	// Comment and Advice carry the quick-mode output.
	Comment string
	Advice  string

	// RawResponse preserves the unparsed model output.
	RawResponse string

	// Err tags a failed evaluation attempt. When non-empty all scores are
	// zero and the other fields hold fallback text.
	Err string

	CreatedAt time.Time
}

// Failed reports whether the evaluation attempt errored.
func (e Evaluation) Failed() bool { return e.Err != "" }
