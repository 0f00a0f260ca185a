package exam

import "errors"

var (
	// ErrEndOfExam is returned by NextQuestion when the question budget is
	// spent or the attempt can no longer continue. Callers should finish
	// with Complete.
	ErrEndOfExam = errors.New("exam: no further questions")

	// ErrAlreadyStarted is returned by Start on a running attempt.
	ErrAlreadyStarted = errors.New("exam: already started")

	// ErrNotStarted is returned by operations that need a running attempt.
	ErrNotStarted = errors.New("exam: not started")

	// ErrCompleted is returned by SubmitAnswer on a finished attempt.
	ErrCompleted = errors.New("exam: already completed")

	// ErrQuestionPending is returned by NextQuestion while the previous
	// question still awaits an answer.
	ErrQuestionPending = errors.New("exam: previous question awaits an answer")

	// ErrNoPendingQuestion is returned by SubmitAnswer when no question is
	// awaiting an answer.
	ErrNoPendingQuestion = errors.New("exam: no question awaiting an answer")
)
