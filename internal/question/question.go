package question

import (
	"time"

	"github.com/abhisek/examina/internal/taxonomy"
)

// Kind names the generation strategy that produced a question.
type Kind string

const (
	// KindInitial is the opening question of an exam with no history.
	KindInitial Kind = "initial"

	// KindContextual adapts to the student's performance so far.
	KindContextual Kind = "contextual"

	// KindGuided follows a taxonomy plan's per-level guidance.
	KindGuided Kind = "guided"
)

// Question is one generated exam question.
type Question struct {
	// Number is the 1-based position in the exam.
	Number int

	Text      string
	KeyPoints string

	// TopicLevel is the coarse difficulty: basic, intermediate or advanced.
	TopicLevel string

	// BloomLevel is set for guided questions only.
	BloomLevel taxonomy.Level

	ThematicDirection string
	Reasoning         string
	AdaptationNotes   string

	Kind        Kind
	RawResponse string
	CreatedAt   time.Time
}
