package interview

import "errors"

var (
	// ErrServiceUnavailable wraps scoring failures. The session is left as
	// it was before the call, so the same Submit or Answer may be retried.
	ErrServiceUnavailable = errors.New("scoring service unavailable")

	// ErrBusy is returned while a scoring or explanation call is outstanding.
	ErrBusy = errors.New("interview is processing a previous input")

	// ErrNoPendingQuestion is returned by Answer when nothing was asked.
	ErrNoPendingQuestion = errors.New("no question is awaiting an answer")

	// ErrSessionClosed is returned with the terminal decision when an answer
	// arrives after the interview ended.
	ErrSessionClosed = errors.New("interview already finished")

	// ErrSessionAbandoned is returned to a call whose session was abandoned
	// while the call was in flight. Its result has been discarded.
	ErrSessionAbandoned = errors.New("interview was abandoned")

	// ErrEmptySymptoms is returned by Submit for blank input.
	ErrEmptySymptoms = errors.New("symptom description is empty")
)
