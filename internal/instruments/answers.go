package instruments

import (
	"sort"

	"clinscore/internal/models"
)

// ValidateAnswers checks an answer set against an instrument's questions.
// Every answer must belong to a question of the instrument. Single-select
// answers must carry one of the question's option values and no selection.
// Multi-select answers must list distinct, in-range option indices and no
// value. Answers are checked in question id order so the first failure is
// stable.
func ValidateAnswers(id string, answers models.Answers) error {
	def, err := lookup(id)
	if err != nil {
		return err
	}
	byID := make(map[int]*models.Question, len(def.Questions))
	for i := range def.Questions {
		byID[def.Questions[i].ID] = &def.Questions[i]
	}

	ids := make([]int, 0, len(answers))
	for qid := range answers {
		ids = append(ids, qid)
	}
	sort.Ints(ids)

	for _, qid := range ids {
		q, ok := byID[qid]
		if !ok {
			return &InvalidAnswerError{InstrumentID: id, QuestionID: qid, Reason: "no such question"}
		}
		if err := validateAnswer(id, q, answers[qid]); err != nil {
			return err
		}
	}
	return nil
}

func validateAnswer(id string, q *models.Question, a models.Answer) error {
	invalid := func(format string, args ...interface{}) error {
		return newInvalidAnswerError(id, q.ID, format, args...)
	}

	if !q.IsMulti() {
		if len(a.Selected) > 0 {
			return invalid("single-select answer cannot list selected options")
		}
		if !q.HasValue(a.Value) {
			return invalid("%d is not an option", a.Value)
		}
		return nil
	}

	if a.Value != 0 {
		return invalid("multi-select answer takes option indices, not a value")
	}
	seen := make(map[int]bool, len(a.Selected))
	for _, idx := range a.Selected {
		if idx < 0 || idx >= len(q.Options) {
			return invalid("no option %d", idx)
		}
		if seen[idx] {
			return invalid("option %d selected twice", idx)
		}
		seen[idx] = true
	}
	return nil
}
