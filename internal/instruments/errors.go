package instruments

import "fmt"

// UnknownInstrumentError is returned for an instrument id that isn't in the
// catalog.
type UnknownInstrumentError struct {
	ID string
}

func (e *UnknownInstrumentError) Error() string {
	return fmt.Sprintf("unknown instrument %q", e.ID)
}

// InvalidAnswerError is returned when an answer doesn't fit its question.
type InvalidAnswerError struct {
	InstrumentID string
	QuestionID   int
	Reason       string
}

func newInvalidAnswerError(instrumentID string, questionID int, format string, args ...interface{}) *InvalidAnswerError {
	return &InvalidAnswerError{
		InstrumentID: instrumentID,
		QuestionID:   questionID,
		Reason:       fmt.Sprintf(format, args...),
	}
}

func (e *InvalidAnswerError) Error() string {
	return fmt.Sprintf("invalid answer for %s question %d: %s", e.InstrumentID, e.QuestionID, e.Reason)
}
