// Package exam orchestrates one oral-exam attempt: question generation,
// answer evaluation, progress tracking and the final diagnostic report,
// driven by a suspendable workflow graph.
package exam

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/abhisek/examina/internal/diagnostic"
	"github.com/abhisek/examina/internal/evaluation"
	"github.com/abhisek/examina/internal/journal"
	"github.com/abhisek/examina/internal/llm"
	"github.com/abhisek/examina/internal/question"
	"github.com/abhisek/examina/internal/session"
	"github.com/abhisek/examina/internal/taxonomy"
	"github.com/abhisek/examina/internal/workflow"
)

// Config assembles the per-stage configuration of one exam attempt.
type Config struct {
	Session    session.Config
	Planner    taxonomy.PlannerConfig
	Question   question.Config
	Evaluation evaluation.Config
	Diagnostic diagnostic.Config
}

// DefaultConfig returns the default exam configuration for the given
// session parameters.
func DefaultConfig(sc session.Config) Config {
	return Config{
		Session:    sc,
		Planner:    taxonomy.DefaultPlannerConfig(),
		Question:   question.DefaultConfig(),
		Evaluation: evaluation.DefaultConfig(),
		Diagnostic: diagnostic.DefaultConfig(),
	}
}

// Progress is a point-in-time view of the attempt, safe to show to the
// student.
type Progress struct {
	SessionID string
	Status    session.Status
	Stats     session.Stats
	Errors    int
}

// Summary is the attempt descriptor returned by Start.
type Summary struct {
	SessionID    string
	StudentName  string
	Subject      string
	TopicContext string
	Difficulty   string
	MaxQuestions int
	Guided       bool
	Status       session.Status
}

// Orchestrator drives one exam attempt from start to final report. It is
// single-flight: one student, one attempt, no concurrent calls.
type Orchestrator struct {
	cfg      Config
	state    *session.State
	engine   *workflow.Engine[*session.State]
	recorder journal.Recorder

	planner     *taxonomy.Planner
	questions   *question.Stage
	evaluator   *evaluation.Stage
	diagnostics *diagnostic.Stage

	// resume is the interrupt node the next invocation continues from,
	// empty once the graph has finished.
	resume string

	started       bool
	pendingAnswer string
	forceComplete bool
}

// New creates an orchestrator for one attempt. The student's name arrives
// at Start; everything else is fixed here. The recorder may be journal.Nop{}.
func New(provider llm.Provider, recorder journal.Recorder, cfg Config) (*Orchestrator, error) {
	if recorder == nil {
		recorder = journal.Nop{}
	}

	sc := cfg.Session
	o := &Orchestrator{
		cfg:         cfg,
		recorder:    recorder,
		planner:     taxonomy.NewPlanner(provider, cfg.Planner),
		questions:   question.NewStage(provider, cfg.Question, sc.Subject, sc.TopicContext, sc.Difficulty, sc.MaxQuestions),
		evaluator:   evaluation.NewStage(provider, cfg.Evaluation, sc.Subject, sc.TopicContext),
		diagnostics: diagnostic.NewStage(provider, cfg.Diagnostic, sc.Subject, sc.TopicContext),
	}

	engine, err := o.buildGraph()
	if err != nil {
		return nil, err
	}
	o.engine = engine
	return o, nil
}

// Start begins the attempt for the named student: it initializes the state,
// builds the taxonomy plan for guided exams, and stops just before the
// first question.
func (o *Orchestrator) Start(ctx context.Context, studentName string) (*Summary, error) {
	if o.started {
		return nil, ErrAlreadyStarted
	}

	sc := o.cfg.Session
	sc.StudentName = studentName
	state, err := session.New(sc)
	if err != nil {
		return nil, err
	}
	o.state = state
	o.started = true

	if err := o.run(ctx, func() (*session.State, string, error) {
		return o.engine.Run(ctx, o.state)
	}); err != nil {
		return nil, err
	}
	if o.state.Failed() {
		return nil, fmt.Errorf("exam: start failed: %s", o.state.Err)
	}

	return &Summary{
		SessionID:    o.state.SessionID,
		StudentName:  o.state.Config.StudentName,
		Subject:      o.state.Config.Subject,
		TopicContext: o.state.Config.TopicContext,
		Difficulty:   o.state.Config.Difficulty,
		MaxQuestions: o.state.Config.MaxQuestions,
		Guided:       o.state.Config.Guided,
		Status:       o.state.Status,
	}, nil
}

// NextQuestion generates and returns the next question. It returns
// ErrEndOfExam once the question budget is spent or the attempt is
// completed; call Complete then.
func (o *Orchestrator) NextQuestion(ctx context.Context) (*question.Question, error) {
	if !o.started {
		return nil, ErrNotStarted
	}
	if o.state.Status == session.StatusCompleted {
		return nil, ErrEndOfExam
	}
	if o.resume == nodeAwaitAnswer {
		return nil, ErrQuestionPending
	}
	if o.resume != nodeGenerate {
		return nil, ErrEndOfExam
	}
	if !o.state.ShouldContinue() {
		return nil, ErrEndOfExam
	}

	if err := o.run(ctx, func() (*session.State, string, error) {
		return o.engine.Resume(ctx, o.state, nodeGenerate)
	}); err != nil {
		return nil, err
	}
	if o.state.Failed() {
		// Close the attempt out; its history stays inspectable.
		o.finalizeFailed(ctx)
		return nil, fmt.Errorf("exam: %s", o.state.Err)
	}
	return &o.state.Questions[len(o.state.Questions)-1], nil
}

// SubmitAnswer scores the pending question's answer. An empty answer is
// valid and scores zero. The returned evaluation may carry a non-empty Err
// when scoring itself failed; the exam continues either way.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, answer string) (*evaluation.Evaluation, error) {
	if !o.started {
		return nil, ErrNotStarted
	}
	if o.state.Status == session.StatusCompleted {
		return nil, ErrCompleted
	}
	if o.resume != nodeAwaitAnswer {
		return nil, ErrNoPendingQuestion
	}

	o.pendingAnswer = answer
	if err := o.run(ctx, func() (*session.State, string, error) {
		return o.engine.Resume(ctx, o.state, nodeAwaitAnswer)
	}); err != nil {
		return nil, err
	}
	if o.state.Failed() {
		o.finalizeFailed(ctx)
		return nil, fmt.Errorf("exam: %s", o.state.Err)
	}
	return &o.state.Evaluations[len(o.state.Evaluations)-1], nil
}

// Complete finishes the attempt and returns the diagnostic result. A
// pending unanswered question is scored as an empty answer first so the
// record stays aligned. Complete is idempotent: repeated calls return the
// cached result without further work.
func (o *Orchestrator) Complete(ctx context.Context) (*diagnostic.Result, error) {
	if !o.started {
		return nil, ErrNotStarted
	}
	if o.state.Diagnostic != nil {
		return o.state.Diagnostic, nil
	}

	o.forceComplete = true
	switch o.resume {
	case nodeAwaitAnswer:
		// Score the open question as unanswered, then fall through to
		// completion via the update_progress branch.
		o.pendingAnswer = ""
		if err := o.run(ctx, func() (*session.State, string, error) {
			return o.engine.Resume(ctx, o.state, nodeAwaitAnswer)
		}); err != nil {
			return nil, err
		}
	case nodeGenerate:
		if err := o.run(ctx, func() (*session.State, string, error) {
			return o.engine.Resume(ctx, o.state, nodeComplete)
		}); err != nil {
			return nil, err
		}
	case "":
		// Graph already finished without a diagnostic result.
	default:
		return nil, fmt.Errorf("exam: cannot complete from %q", o.resume)
	}

	if o.state.Diagnostic == nil {
		return nil, fmt.Errorf("exam: no diagnostic result: %s", o.failureReason())
	}
	return o.state.Diagnostic, nil
}

// Progress reports the attempt's current standing.
func (o *Orchestrator) Progress() Progress {
	if o.state == nil {
		return Progress{Status: session.StatusNotStarted}
	}
	o.state.UpdateProgress()
	return Progress{
		SessionID: o.state.SessionID,
		Status:    o.state.Status,
		Stats:     o.state.Metadata.Stats,
		Errors:    len(o.state.Errors),
	}
}

// CanContinue reports whether another question can still be asked.
func (o *Orchestrator) CanContinue() bool {
	return o.started && o.resume == nodeGenerate && o.state.ShouldContinue()
}

// State exposes the underlying attempt record for inspection.
func (o *Orchestrator) State() *session.State { return o.state }

// run executes one engine invocation and tracks the resume point.
func (o *Orchestrator) run(_ context.Context, invoke func() (*session.State, string, error)) error {
	state, resume, err := invoke()
	if err != nil {
		return fmt.Errorf("exam: workflow error: %w", err)
	}
	o.state = state
	o.resume = resume
	return nil
}

// finalizeFailed closes out a fatally errored attempt.
func (o *Orchestrator) finalizeFailed(ctx context.Context) {
	if o.resume == "" {
		return
	}
	state, _, err := o.engine.Resume(ctx, o.state, nodeFinalize)
	if err == nil {
		o.state = state
	}
	o.resume = ""
}

func (o *Orchestrator) failureReason() string {
	if o.state.Err != "" {
		return o.state.Err
	}
	if n := len(o.state.Errors); n > 0 {
		return o.state.Errors[n-1]
	}
	return "unknown"
}

// recordStep journals one orchestration step. Journal failures never stop
// the exam.
func (o *Orchestrator) recordStep(ctx context.Context, rec journal.StepRecord) {
	rec.SessionID = o.state.SessionID
	rec.Timestamp = time.Now()
	if err := o.recorder.AppendStep(ctx, rec); err != nil {
		fmt.Fprintf(os.Stderr, "examina: journal append failed: %v\n", err)
	}
}
