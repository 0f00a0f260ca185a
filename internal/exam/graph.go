package exam

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/examina/internal/evaluation"
	"github.com/abhisek/examina/internal/journal"
	"github.com/abhisek/examina/internal/question"
	"github.com/abhisek/examina/internal/session"
	"github.com/abhisek/examina/internal/workflow"
)

// Node names of the exam graph.
const (
	nodeInitialize     = "initialize"
	nodeCreatePlan     = "create_plan"
	nodeStart          = "start"
	nodeGenerate       = "generate_question"
	nodeAwaitAnswer    = "await_answer"
	nodeEvaluate       = "evaluate_answer"
	nodeUpdateProgress = "update_progress"
	nodeComplete       = "complete_exam"
	nodeDiagnostics    = "run_diagnostics"
	nodeFinalize       = "finalize"
)

// buildGraph wires the exam workflow:
//
//	initialize -> [create_plan] -> start -> generate_question ->
//	await_answer -> evaluate_answer -> update_progress ->
//	  (continue) -> generate_question
//	  (complete) -> complete_exam -> run_diagnostics -> finalize
//
// generate_question and await_answer are interrupt points; each public
// operation is one engine invocation between them.
func (o *Orchestrator) buildGraph() (*workflow.Engine[*session.State], error) {
	e := workflow.New[*session.State]().
		AddNode(nodeInitialize, guard(o.initialize)).
		AddNode(nodeCreatePlan, guard(o.createPlan)).
		AddNode(nodeStart, guard(o.start)).
		AddNode(nodeGenerate, guard(o.generateQuestion)).
		AddNode(nodeAwaitAnswer, guard(o.awaitAnswer)).
		AddNode(nodeEvaluate, guard(o.evaluateAnswer)).
		AddNode(nodeUpdateProgress, guard(o.updateProgress)).
		AddNode(nodeComplete, guard(o.completeExam)).
		AddNode(nodeDiagnostics, guard(o.runDiagnostics)).
		AddNode(nodeFinalize, o.finalize).
		SetEntry(nodeInitialize).
		AddBranch(nodeInitialize, o.decidePlanning, map[string]string{
			"plan": nodeCreatePlan,
			"skip": nodeStart,
		}).
		AddEdge(nodeCreatePlan, nodeStart).
		AddEdge(nodeStart, nodeGenerate).
		AddEdge(nodeGenerate, nodeAwaitAnswer).
		AddEdge(nodeAwaitAnswer, nodeEvaluate).
		AddEdge(nodeEvaluate, nodeUpdateProgress).
		AddBranch(nodeUpdateProgress, o.decideNext, map[string]string{
			"continue": nodeGenerate,
			"complete": nodeComplete,
		}).
		AddEdge(nodeComplete, nodeDiagnostics).
		AddEdge(nodeDiagnostics, nodeFinalize).
		AddInterrupt(nodeGenerate).
		AddInterrupt(nodeAwaitAnswer).
		OnTransition(func(from, to string) { o.state.AddTrace(from, to) })

	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// guard skips a node once the attempt is fatally errored. Finalization is
// the only node that runs regardless.
func guard(fn workflow.NodeFunc[*session.State]) workflow.NodeFunc[*session.State] {
	return func(ctx context.Context, s *session.State) *session.State {
		if s.Failed() {
			return s
		}
		return fn(ctx, s)
	}
}

func (o *Orchestrator) decidePlanning(s *session.State) string {
	if s.Config.Guided && !s.Failed() {
		return "plan"
	}
	return "skip"
}

func (o *Orchestrator) decideNext(s *session.State) string {
	if o.forceComplete || !s.ShouldContinue() {
		return "complete"
	}
	return "continue"
}

func (o *Orchestrator) initialize(_ context.Context, s *session.State) *session.State {
	if err := s.Begin(); err != nil {
		s.Fail(err.Error())
	}
	return s
}

// createPlan builds the taxonomy plan for guided exams. Planning failure is
// non-fatal: the exam falls back to adaptive generation.
func (o *Orchestrator) createPlan(ctx context.Context, s *session.State) *session.State {
	plan, err := o.planner.BuildPlan(ctx, s.Config.Subject, s.Config.TopicContext, s.Config.Difficulty, s.Config.MaxQuestions)
	if err != nil {
		s.RecordError(fmt.Sprintf("plan creation failed, continuing unguided: %v", err))
		return s
	}
	s.Plan = plan
	o.questions.SetPlan(plan)
	return s
}

func (o *Orchestrator) start(ctx context.Context, s *session.State) *session.State {
	o.recordStep(ctx, journal.StepRecord{Step: "start"})
	return s
}

// generateQuestion asks the generation stage for the next question. A
// generation failure is fatal: without a question the flow cannot proceed,
// and the attempt is finalized with its history intact.
func (o *Orchestrator) generateQuestion(ctx context.Context, s *session.State) *session.State {
	q, err := o.questions.Generate(ctx, len(s.Questions)+1, s.Summaries)
	if err != nil {
		s.Fail(fmt.Sprintf("question generation failed: %v", err))
		return s
	}
	s.Questions = append(s.Questions, *q)
	s.UpdateProgress()
	o.recordStep(ctx, journal.StepRecord{Step: "question", Question: q.Text})
	return s
}

// awaitAnswer is the suspension point between asking and answering. The
// answer itself arrives through SubmitAnswer before the engine resumes here.
func (o *Orchestrator) awaitAnswer(_ context.Context, s *session.State) *session.State {
	return s
}

// evaluateAnswer scores the pending answer. Evaluation never fails fatally:
// an error-tagged zero-score result keeps questions and evaluations aligned.
func (o *Orchestrator) evaluateAnswer(ctx context.Context, s *session.State) *session.State {
	q := s.Questions[len(s.Questions)-1]
	in := o.evaluationInput(q, o.pendingAnswer)
	o.pendingAnswer = ""

	ev := o.evaluator.Evaluate(ctx, in)
	if ev.Failed() {
		s.RecordError("evaluation failed: " + ev.Err)
	}
	s.Evaluations = append(s.Evaluations, ev)
	s.Summaries = append(s.Summaries, o.evaluator.Summary(ev, in))

	rec := journal.StepRecord{Step: "evaluation", Question: q.Text, Answer: in.Answer}
	if body, err := json.Marshal(ev); err == nil {
		rec.Evaluation = string(body)
	}
	o.recordStep(ctx, rec)
	return s
}

func (o *Orchestrator) evaluationInput(q question.Question, answer string) evaluation.Input {
	return evaluation.Input{
		QuestionNumber: q.Number,
		Question:       q.Text,
		Answer:         answer,
		KeyPoints:      q.KeyPoints,
		TopicLevel:     q.TopicLevel,
		BloomLevel:     string(q.BloomLevel),
		QuestionKind:   string(q.Kind),
	}
}

func (o *Orchestrator) updateProgress(_ context.Context, s *session.State) *session.State {
	s.UpdateProgress()
	return s
}

func (o *Orchestrator) completeExam(_ context.Context, s *session.State) *session.State {
	if err := s.Finish(); err != nil {
		s.Fail(err.Error())
	}
	return s
}

// runDiagnostics produces the final report. Failure here is non-fatal: the
// attempt stays inspectable without a report.
func (o *Orchestrator) runDiagnostics(ctx context.Context, s *session.State) *session.State {
	res, err := o.diagnostics.Diagnose(ctx, s.Questions, s.Evaluations)
	if err != nil {
		s.RecordError(fmt.Sprintf("diagnostics failed: %v", err))
		return s
	}
	s.Diagnostic = res
	o.recordStep(ctx, journal.StepRecord{Step: "report", Report: res.FinalReport})
	return s
}

// finalize runs even on fatally errored attempts so the record is closed
// out either way.
func (o *Orchestrator) finalize(ctx context.Context, s *session.State) *session.State {
	if s.Status == session.StatusInProgress {
		if err := s.Finish(); err != nil {
			s.RecordError(err.Error())
		}
	}
	s.UpdateProgress()
	o.recordStep(ctx, journal.StepRecord{Step: "complete"})
	return s
}
