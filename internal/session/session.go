// Package session drives a client through one instrument, step by step.
package session

import (
	"fmt"
	"sort"

	"clinscore/internal/instruments"
	"clinscore/internal/models"
	"clinscore/internal/scoring"
)

// StepKind identifies what the current step shows.
type StepKind string

const (
	StepInstructions StepKind = "instructions"
	StepQuestion     StepKind = "question"
	StepResults      StepKind = "results"
)

// Step describes the current position of a session. Question is nil unless
// Kind is StepQuestion.
type Step struct {
	Kind     StepKind         `json:"kind"`
	Index    int              `json:"index"`
	Question *models.Question `json:"question,omitempty"`
}

// AnswerRequiredError is returned by Advance when the current question has
// no recorded answer.
type AnswerRequiredError struct {
	InstrumentID string
	QuestionID   int
}

func (e *AnswerRequiredError) Error() string {
	return fmt.Sprintf("%s: question %d requires an answer", e.InstrumentID, e.QuestionID)
}

// Session is the in-memory progress of one administration. A Session is
// owned by a single caller and is not safe for concurrent use.
type Session struct {
	instrumentID string
	instructions string
	questions    []models.Question
	step         int
	answers      models.Answers
	completed    bool
}

// Start opens a session at the instrument's first step.
func Start(instrumentID string) (*Session, error) {
	questions, err := instruments.Questions(instrumentID)
	if err != nil {
		return nil, err
	}
	instructions, err := instruments.Instructions(instrumentID)
	if err != nil {
		return nil, err
	}
	return &Session{
		instrumentID: instrumentID,
		instructions: instructions,
		questions:    questions,
		answers:      models.Answers{},
	}, nil
}

// InstrumentID returns the id of the instrument being administered.
func (s *Session) InstrumentID() string { return s.instrumentID }

// Instructions returns the text of the instructions step, if any.
func (s *Session) Instructions() string { return s.instructions }

// Questions returns the ordered question set.
func (s *Session) Questions() []models.Question {
	return append([]models.Question(nil), s.questions...)
}

func (s *Session) hasInstructions() bool { return s.instructions != "" }

// TotalSteps counts the instructions step, if any, and every question.
func (s *Session) TotalSteps() int {
	n := len(s.questions)
	if s.hasInstructions() {
		n++
	}
	return n
}

// StepIndex is the zero-based position; it equals TotalSteps once completed.
func (s *Session) StepIndex() int { return s.step }

// Completed reports whether the session reached the results step.
func (s *Session) Completed() bool { return s.completed }

// Progress is (StepIndex+1)/TotalSteps, capped at 1.
func (s *Session) Progress() float64 {
	total := s.TotalSteps()
	if total == 0 || s.completed {
		return 1
	}
	return float64(s.step+1) / float64(total)
}

// currentQuestion returns the question at the current step, if any.
func (s *Session) currentQuestion() (*models.Question, bool) {
	if s.completed {
		return nil, false
	}
	idx := s.step
	if s.hasInstructions() {
		if idx == 0 {
			return nil, false
		}
		idx--
	}
	if idx < 0 || idx >= len(s.questions) {
		return nil, false
	}
	return &s.questions[idx], true
}

// Current describes the step the session is on.
func (s *Session) Current() Step {
	if s.completed {
		return Step{Kind: StepResults, Index: s.step}
	}
	q, ok := s.currentQuestion()
	if !ok {
		return Step{Kind: StepInstructions, Index: s.step}
	}
	qc := *q
	return Step{Kind: StepQuestion, Index: s.step, Question: &qc}
}

// Answer records value for the current question. Single-select questions
// take an option value and overwrite any previous answer; multi-select
// questions take an option index and toggle it. It returns false and leaves
// the session untouched when questionID isn't the current question or the
// value isn't valid for it.
func (s *Session) Answer(questionID, value int) bool {
	q, ok := s.currentQuestion()
	if !ok || q.ID != questionID {
		return false
	}

	if !q.IsMulti() {
		if !q.HasValue(value) {
			return false
		}
		s.answers[q.ID] = models.Answer{Value: value}
		return true
	}

	if value < 0 || value >= len(q.Options) {
		return false
	}
	prev := s.answers[q.ID].Selected
	selected := make([]int, 0, len(prev)+1)
	toggledOff := false
	for _, idx := range prev {
		if idx == value {
			toggledOff = true
			continue
		}
		selected = append(selected, idx)
	}
	if !toggledOff {
		selected = append(selected, value)
		sort.Ints(selected)
	}
	// A multi-select entry stays recorded even when emptied: ticking
	// nothing is a valid answer once the question has been touched.
	s.answers[q.ID] = models.Answer{Selected: selected}
	return true
}

// Answers returns a copy of the recorded answers.
func (s *Session) Answers() models.Answers {
	return s.answers.Clone()
}

// Advance moves to the next step. Question steps require an answer;
// instructions advance unconditionally. Moving past the last question
// completes the session. Advance on a completed session does nothing.
func (s *Session) Advance() error {
	if s.completed {
		return nil
	}
	if q, ok := s.currentQuestion(); ok {
		if _, answered := s.answers[q.ID]; !answered {
			return &AnswerRequiredError{InstrumentID: s.instrumentID, QuestionID: q.ID}
		}
	}
	s.step++
	if s.step >= s.TotalSteps() {
		s.step = s.TotalSteps()
		s.completed = true
	}
	return nil
}

// Retreat moves back one step. It does nothing on the first step or once
// the session is completed.
func (s *Session) Retreat() {
	if s.completed || s.step == 0 {
		return
	}
	s.step--
}

// Reset returns the session to its first step with no answers.
func (s *Session) Reset() {
	s.step = 0
	s.answers = models.Answers{}
	s.completed = false
}

// Result scores the recorded answers and interprets the score. It is
// computed on every call and works on incomplete sessions too.
func (s *Session) Result() (scoring.Result, models.Interpretation, error) {
	return scoring.Evaluate(s.instrumentID, s.answers)
}
