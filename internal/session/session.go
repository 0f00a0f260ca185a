// Package session holds the typed state of one exam attempt as it moves
// through the exam workflow.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/examina/internal/diagnostic"
	"github.com/abhisek/examina/internal/evaluation"
	"github.com/abhisek/examina/internal/question"
	"github.com/abhisek/examina/internal/taxonomy"
)

// Status is the lifecycle phase of an exam attempt. Transitions are
// monotonic: not_started -> in_progress -> completed.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

var statusOrder = map[Status]int{
	StatusNotStarted: 0,
	StatusInProgress: 1,
	StatusCompleted:  2,
}

// CanTransitionTo reports whether moving to next respects the monotonic
// lifecycle. Staying in place is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	a, okA := statusOrder[s]
	b, okB := statusOrder[next]
	return okA && okB && b >= a
}

// defaultErrorBudget is the number of recorded non-fatal errors after which
// an attempt stops asking further questions.
const defaultErrorBudget = 3

// Config fixes the parameters of one exam attempt.
type Config struct {
	StudentName  string
	Subject      string
	TopicContext string
	Difficulty   string
	MaxQuestions int

	// Guided enables plan-driven question generation.
	Guided bool
}

// Validate checks the attempt parameters.
func (c Config) Validate() error {
	if strings.TrimSpace(c.StudentName) == "" {
		return fmt.Errorf("student name is required")
	}
	if strings.TrimSpace(c.Subject) == "" {
		return fmt.Errorf("subject is required")
	}
	if c.MaxQuestions < 1 {
		return fmt.Errorf("max questions must be >= 1, got %d", c.MaxQuestions)
	}
	return nil
}

// Stats is a point-in-time numeric snapshot of an attempt.
type Stats struct {
	QuestionsAsked    int
	QuestionsAnswered int

	TotalScore       float64
	MaxPossibleScore float64
	AverageScore     float64
	Percentage       float64
	HighestScore     float64
	LowestScore      float64

	CompletionRate float64
}

// Metadata carries derived progress fields, refreshed by UpdateProgress.
type Metadata struct {
	QuestionsAsked       int
	QuestionsAnswered    int
	CompletionPercentage float64
	DurationSeconds      float64
	LastUpdated          time.Time
	Stats                Stats
}

// State is the full record of one exam attempt.
type State struct {
	SessionID string
	Config    Config

	Status    Status
	StartTime time.Time
	EndTime   time.Time

	// CurrentQuestionNumber tracks how many questions have been asked.
	CurrentQuestionNumber int

	Plan        *taxonomy.Plan
	Questions   []question.Question
	Evaluations []evaluation.Evaluation

	// Summaries are the answer-free evaluation digests fed back into
	// question generation.
	Summaries []evaluation.Summary

	Diagnostic *diagnostic.Result

	Metadata Metadata

	// Errors records non-fatal problems; the attempt continues until the
	// error budget is exhausted.
	Errors []string

	// Err marks a fatal workflow failure. Nodes other than finalization
	// no-op once set.
	Err string

	// Trace records workflow transitions for inspection.
	Trace []string

	now func() time.Time
}

// New creates an attempt in the not_started state.
func New(cfg Config) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid exam config: %w", err)
	}
	return &State{
		SessionID: newSessionID(),
		Config:    cfg,
		Status:    StatusNotStarted,
		now:       time.Now,
	}, nil
}

func newSessionID() string {
	return "exam_" + uuid.NewString()[:8]
}

// Begin moves the attempt to in_progress and stamps the start time.
func (s *State) Begin() error {
	if s.Status != StatusNotStarted {
		return fmt.Errorf("cannot begin exam in status %q", s.Status)
	}
	s.Status = StatusInProgress
	s.StartTime = s.clock()()
	return nil
}

// Finish moves the attempt to completed and stamps the end time. Finishing
// an already completed attempt is a no-op.
func (s *State) Finish() error {
	if s.Status == StatusCompleted {
		return nil
	}
	if !s.Status.CanTransitionTo(StatusCompleted) {
		return fmt.Errorf("cannot complete exam in status %q", s.Status)
	}
	s.Status = StatusCompleted
	s.EndTime = s.clock()()
	s.UpdateProgress()
	return nil
}

// RecordError appends a non-fatal error.
func (s *State) RecordError(msg string) {
	s.Errors = append(s.Errors, msg)
}

// Fail marks the attempt fatally errored. The first fatal error wins.
func (s *State) Fail(msg string) {
	if s.Err == "" {
		s.Err = msg
	}
	s.RecordError(msg)
}

// Failed reports whether a fatal error is set.
func (s *State) Failed() bool { return s.Err != "" }

// AddTrace records one workflow transition.
func (s *State) AddTrace(from, to string) {
	s.Trace = append(s.Trace, from+" -> "+to)
}

// ShouldContinue reports whether another question should be asked.
func (s *State) ShouldContinue() bool {
	return s.Status == StatusInProgress &&
		!s.Failed() &&
		len(s.Errors) <= defaultErrorBudget &&
		len(s.Questions) < s.Config.MaxQuestions
}

// HasPendingQuestion reports whether the latest question still awaits an
// answer.
func (s *State) HasPendingQuestion() bool {
	return len(s.Questions) > len(s.Evaluations)
}

// UpdateProgress refreshes the derived metadata from the accumulators.
func (s *State) UpdateProgress() {
	s.CurrentQuestionNumber = len(s.Questions)
	s.Metadata.QuestionsAsked = len(s.Questions)
	s.Metadata.QuestionsAnswered = len(s.Evaluations)
	if s.Config.MaxQuestions > 0 {
		s.Metadata.CompletionPercentage = round1(float64(len(s.Evaluations)) / float64(s.Config.MaxQuestions) * 100)
	}
	s.Metadata.LastUpdated = s.clock()()
	if !s.StartTime.IsZero() {
		end := s.EndTime
		if end.IsZero() {
			end = s.Metadata.LastUpdated
		}
		s.Metadata.DurationSeconds = end.Sub(s.StartTime).Seconds()
	}
	s.Metadata.Stats = s.Statistics()
}

// Statistics computes the numeric snapshot of the attempt so far.
func (s *State) Statistics() Stats {
	st := Stats{
		QuestionsAsked:    len(s.Questions),
		QuestionsAnswered: len(s.Evaluations),
	}
	if s.Config.MaxQuestions > 0 {
		st.CompletionRate = round1(float64(len(s.Evaluations)) / float64(s.Config.MaxQuestions) * 100)
	}
	if len(s.Evaluations) == 0 {
		return st
	}

	st.MaxPossibleScore = float64(len(s.Evaluations)) * 10
	st.HighestScore = s.Evaluations[0].TotalScore
	st.LowestScore = s.Evaluations[0].TotalScore
	for _, ev := range s.Evaluations {
		st.TotalScore += ev.TotalScore
		if ev.TotalScore > st.HighestScore {
			st.HighestScore = ev.TotalScore
		}
		if ev.TotalScore < st.LowestScore {
			st.LowestScore = ev.TotalScore
		}
	}
	st.TotalScore = round1(st.TotalScore)
	st.AverageScore = round1(st.TotalScore / float64(len(s.Evaluations)))
	st.Percentage = round1(st.TotalScore / st.MaxPossibleScore * 100)
	return st
}

// Validate checks the structural invariants of the state. It returns a list
// of violations, empty when the state is consistent.
func (s *State) Validate() []string {
	var problems []string
	if s.SessionID == "" {
		problems = append(problems, "missing session id")
	}
	if _, ok := statusOrder[s.Status]; !ok {
		problems = append(problems, fmt.Sprintf("unknown status %q", s.Status))
	}
	if len(s.Evaluations) > len(s.Questions) {
		problems = append(problems, fmt.Sprintf("%d evaluations for %d questions",
			len(s.Evaluations), len(s.Questions)))
	}
	if len(s.Questions)-len(s.Evaluations) > 1 {
		problems = append(problems, "more than one question awaiting an answer")
	}
	if len(s.Summaries) != len(s.Evaluations) {
		problems = append(problems, fmt.Sprintf("%d summaries for %d evaluations",
			len(s.Summaries), len(s.Evaluations)))
	}
	for i, q := range s.Questions {
		if q.Number != i+1 {
			problems = append(problems, fmt.Sprintf("question at index %d numbered %d", i, q.Number))
		}
	}
	if s.Status == StatusCompleted && s.EndTime.IsZero() {
		problems = append(problems, "completed without an end time")
	}
	return problems
}

func (s *State) clock() func() time.Time {
	if s.now != nil {
		return s.now
	}
	return time.Now
}

func round1(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}
