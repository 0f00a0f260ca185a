package exam

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/examina/internal/evaluation"
	"github.com/abhisek/examina/internal/journal"
	"github.com/abhisek/examina/internal/llm"
	"github.com/abhisek/examina/internal/session"
)

type memRecorder struct {
	steps []journal.StepRecord
}

func (m *memRecorder) AppendStep(_ context.Context, rec journal.StepRecord) error {
	m.steps = append(m.steps, rec)
	return nil
}

func (m *memRecorder) AppendLLMRequest(context.Context, journal.LLMRecord) error { return nil }

func (m *memRecorder) stepNames() []string {
	var names []string
	for _, s := range m.steps {
		names = append(names, s.Step)
	}
	return names
}

func questionResponse(n int) string {
	return fmt.Sprintf(`QUESTION:
Test question number %d about the subject?

KEY_POINTS:
point a
point b

TOPIC_LEVEL: basic

THEMATIC_DIRECTION:
theme %d

REASONING:
Fits here.

ADAPTATION:
none`, n, n)
}

const evaluationResponse = `CORRECTNESS: 8/10 - Accurate.
COMPLETENESS: 6/10 - Partial.
UNDERSTANDING: 7/10 - Solid.
TOTAL_SCORE: 7.0/10

FEEDBACK:
Good answer.

STRENGTHS:
Clarity.

WEAKNESSES:
Depth.`

const reportResponse = `You performed well overall.

=== RECOMMENDATIONS ===
1. Keep practicing aloud.

=== CRITICAL AREAS ===
1. none`

func testSessionConfig(maxQuestions int) session.Config {
	return session.Config{
		Subject:      "Operating Systems",
		Difficulty:   "intermediate",
		MaxQuestions: maxQuestions,
	}
}

func newTestOrchestrator(t *testing.T, mock *llm.MockProvider, maxQuestions int) (*Orchestrator, *memRecorder) {
	t.Helper()
	rec := &memRecorder{}
	o, err := New(mock, rec, DefaultConfig(testSessionConfig(maxQuestions)))
	require.NoError(t, err)
	return o, rec
}

func startExam(t *testing.T, o *Orchestrator) *Summary {
	t.Helper()
	sum, err := o.Start(context.Background(), "Priya")
	require.NoError(t, err)
	return sum
}

func TestFullExamFlow(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddText(questionResponse(1))
	mock.AddText(evaluationResponse)
	mock.AddText(questionResponse(2))
	mock.AddText(evaluationResponse)
	// Diagnostics: pattern analysis, then final report.
	mock.AddText("Consistent performance across both questions.")
	mock.AddText(reportResponse)

	o, rec := newTestOrchestrator(t, mock, 2)
	ctx := context.Background()

	sum := startExam(t, o)
	assert.Equal(t, session.StatusInProgress, sum.Status)
	assert.Equal(t, "Priya", sum.StudentName)
	assert.Equal(t, sum.SessionID, o.State().SessionID)
	assert.True(t, o.CanContinue())

	q1, err := o.NextQuestion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, q1.Number)
	assert.Contains(t, q1.Text, "number 1")

	// A second question cannot be asked while the first awaits an answer.
	_, err = o.NextQuestion(ctx)
	assert.ErrorIs(t, err, ErrQuestionPending)

	ev1, err := o.SubmitAnswer(ctx, "an answer about paging")
	require.NoError(t, err)
	assert.Equal(t, 7.0, ev1.TotalScore)

	p := o.Progress()
	assert.Equal(t, 1, p.Stats.QuestionsAnswered)
	assert.Equal(t, 7.0, p.Stats.TotalScore)

	q2, err := o.NextQuestion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, q2.Number)

	// Answering the last question completes the exam, diagnostics
	// included.
	_, err = o.SubmitAnswer(ctx, "another answer")
	require.NoError(t, err)
	assert.Equal(t, session.StatusCompleted, o.State().Status)
	assert.False(t, o.CanContinue())

	// The interactive loop relies on the end-of-exam marker here, not a
	// state error, so the final report is still reachable.
	_, err = o.NextQuestion(ctx)
	assert.ErrorIs(t, err, ErrEndOfExam)

	res, err := o.Complete(ctx)
	require.NoError(t, err)
	assert.Equal(t, 14.0, res.Statistics.TotalScore)
	assert.Equal(t, []string{"Keep practicing aloud."}, res.Recommendations)
	assert.Empty(t, res.CriticalAreas)

	// Complete is idempotent and does no further work.
	calls := mock.CallCount()
	res2, err := o.Complete(ctx)
	require.NoError(t, err)
	assert.Same(t, res, res2)
	assert.Equal(t, calls, mock.CallCount())

	assert.Equal(t, []string{"start", "question", "evaluation", "question", "evaluation", "report", "complete"}, rec.stepNames())
	assert.Empty(t, o.State().Validate())
}

func TestCompleteScoresPendingQuestionAsEmpty(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddText(questionResponse(1))
	mock.AddText("Only one question was answered, and it was left blank.")
	mock.AddText(reportResponse)

	o, _ := newTestOrchestrator(t, mock, 3)
	ctx := context.Background()

	startExam(t, o)
	_, err := o.NextQuestion(ctx)
	require.NoError(t, err)

	// Complete with the question still open: it is scored as unanswered
	// without a completion call, keeping the record aligned.
	res, err := o.Complete(ctx)
	require.NoError(t, err)

	st := o.State()
	require.Len(t, st.Questions, 1)
	require.Len(t, st.Evaluations, 1)
	assert.Equal(t, evaluation.KindEmpty, st.Evaluations[0].Kind)
	assert.Equal(t, 0.0, st.Evaluations[0].TotalScore)
	assert.Equal(t, 0.0, res.Statistics.TotalScore)
	assert.Equal(t, session.StatusCompleted, st.Status)
	assert.Empty(t, st.Validate())
}

func TestCompleteBetweenQuestions(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddText(questionResponse(1))
	mock.AddText(evaluationResponse)
	mock.AddText("One solid answer.")
	mock.AddText(reportResponse)

	o, _ := newTestOrchestrator(t, mock, 5)
	ctx := context.Background()

	startExam(t, o)
	_, err := o.NextQuestion(ctx)
	require.NoError(t, err)
	_, err = o.SubmitAnswer(ctx, "an answer")
	require.NoError(t, err)

	res, err := o.Complete(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7.0, res.Statistics.TotalScore)
	assert.Equal(t, session.StatusCompleted, o.State().Status)
}

func TestOperationOrderIsEnforced(t *testing.T) {
	mock := llm.NewMockProvider()
	o, _ := newTestOrchestrator(t, mock, 2)
	ctx := context.Background()

	_, err := o.NextQuestion(ctx)
	assert.ErrorIs(t, err, ErrNotStarted)
	_, err = o.SubmitAnswer(ctx, "early")
	assert.ErrorIs(t, err, ErrNotStarted)
	_, err = o.Complete(ctx)
	assert.ErrorIs(t, err, ErrNotStarted)

	startExam(t, o)
	_, err = o.Start(ctx, "Priya")
	assert.ErrorIs(t, err, ErrAlreadyStarted)

	_, err = o.SubmitAnswer(ctx, "nothing was asked")
	assert.ErrorIs(t, err, ErrNoPendingQuestion)
}

func TestQuestionGenerationFailureIsFatal(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddError(&llm.ErrProviderUnavailable{})

	o, _ := newTestOrchestrator(t, mock, 2)
	ctx := context.Background()

	startExam(t, o)
	_, err := o.NextQuestion(ctx)
	require.Error(t, err)

	st := o.State()
	assert.True(t, st.Failed())
	assert.Equal(t, session.StatusCompleted, st.Status, "attempt is closed out")

	// No diagnostic result exists for an attempt with no answers.
	_, err = o.Complete(ctx)
	assert.Error(t, err)
}

func TestEvaluationFailureIsNonFatal(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddText(questionResponse(1))
	mock.AddError(&llm.ErrProviderUnavailable{})
	mock.AddText(questionResponse(2))
	mock.AddText(evaluationResponse)
	mock.AddText("One failed evaluation, one good answer.")
	mock.AddText(reportResponse)

	o, _ := newTestOrchestrator(t, mock, 2)
	ctx := context.Background()

	startExam(t, o)
	_, err := o.NextQuestion(ctx)
	require.NoError(t, err)

	ev, err := o.SubmitAnswer(ctx, "an answer the provider never saw")
	require.NoError(t, err)
	assert.True(t, ev.Failed())
	assert.Equal(t, 0.0, ev.TotalScore)

	// The exam continues past the failed evaluation.
	_, err = o.NextQuestion(ctx)
	require.NoError(t, err)
	_, err = o.SubmitAnswer(ctx, "a scored answer")
	require.NoError(t, err)

	res, err := o.Complete(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7.0, res.Statistics.TotalScore)
	assert.Equal(t, 1, o.Progress().Errors)
	assert.Empty(t, o.State().Validate())
}

func TestSummariesNeverContainAnswerText(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddText(questionResponse(1))
	mock.AddText(evaluationResponse)
	mock.AddText(questionResponse(2))
	mock.AddText(evaluationResponse)
	mock.AddText("analysis")
	mock.AddText(reportResponse)

	o, _ := newTestOrchestrator(t, mock, 2)
	ctx := context.Background()
	startExam(t, o)

	answers := []string{
		"zxqv-first-answer-marker the TLB caches translations",
		"zxqv-second-answer-marker pages are evicted by LRU",
	}
	for _, a := range answers {
		_, err := o.NextQuestion(ctx)
		require.NoError(t, err)
		_, err = o.SubmitAnswer(ctx, a)
		require.NoError(t, err)
	}

	// The digest fed back into question generation must never carry the
	// literal answer text.
	serialized, err := json.Marshal(o.State().Summaries)
	require.NoError(t, err)
	for _, a := range answers {
		assert.NotContains(t, string(serialized), a)
	}
}

func TestGuidedExamBuildsPlan(t *testing.T) {
	mock := llm.NewMockProvider()
	// Plan: analysis plus one guidance response per level.
	mock.AddText("Subject analysis across levels.")
	for i := 0; i < 6; i++ {
		mock.AddText("FORMULATION_PRINCIPLES:\nShort questions.")
	}
	mock.AddText(questionResponse(1))

	cfg := testSessionConfig(6)
	cfg.Guided = true
	rec := &memRecorder{}
	o, err := New(mock, rec, DefaultConfig(cfg))
	require.NoError(t, err)

	ctx := context.Background()
	startExam(t, o)
	require.NotNil(t, o.State().Plan)
	assert.Equal(t, 6, o.State().Plan.TotalQuestions)

	q, err := o.NextQuestion(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, q.BloomLevel)
}

func TestGuidedPlanFailureFallsBackToAdaptive(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddError(&llm.ErrProviderUnavailable{})
	mock.AddText(questionResponse(1))

	cfg := testSessionConfig(3)
	cfg.Guided = true
	o, err := New(mock, &memRecorder{}, DefaultConfig(cfg))
	require.NoError(t, err)

	ctx := context.Background()
	startExam(t, o)
	assert.Nil(t, o.State().Plan)
	assert.Equal(t, 1, o.Progress().Errors)

	q, err := o.NextQuestion(ctx)
	require.NoError(t, err)
	assert.Empty(t, q.BloomLevel)
}
