package scoring

import (
	"clinscore/internal/instruments"
	"clinscore/internal/models"
)

type entry struct {
	score   scorer
	banding Banding
}

var registry = map[string]entry{
	"audit": {score: sumScorer, banding: auditBanding},
	"bprs":  {score: sumScorer, banding: bprsBanding},
	"epds":  {score: epdsScorer, banding: epdsBanding},
	"gad7":  {score: sumScorer, banding: gad7Banding},
	"mdq":   {score: mdqScorer, banding: mdqBanding},
	"moca":  {score: mocaScorer, banding: mocaBanding},
	"pcl5":  {score: sumScorer, banding: pcl5Banding},
}

func lookup(id string) (entry, error) {
	e, ok := registry[id]
	if !ok {
		return entry{}, &instruments.UnknownInstrumentError{ID: id}
	}
	return e, nil
}

// Score reduces answers for the given instrument. Unanswered questions count
// as zero; answers is never modified. An answer that doesn't fit its
// question fails with *instruments.InvalidAnswerError.
func Score(instrumentID string, answers models.Answers) (Result, error) {
	e, err := lookup(instrumentID)
	if err != nil {
		return Result{}, err
	}
	if err := instruments.ValidateAnswers(instrumentID, answers); err != nil {
		return Result{}, err
	}
	questions, err := instruments.Questions(instrumentID)
	if err != nil {
		return Result{}, err
	}
	r := e.score(questions, answers)
	r.InstrumentID = instrumentID
	return r, nil
}

// Interpret maps a result to its clinical band.
func Interpret(instrumentID string, r Result) (models.Interpretation, error) {
	e, err := lookup(instrumentID)
	if err != nil {
		return models.Interpretation{}, err
	}
	return e.banding.interpret(r), nil
}

// Evaluate scores and interprets in one call.
func Evaluate(instrumentID string, answers models.Answers) (Result, models.Interpretation, error) {
	r, err := Score(instrumentID, answers)
	if err != nil {
		return Result{}, models.Interpretation{}, err
	}
	interp, err := Interpret(instrumentID, r)
	if err != nil {
		return Result{}, models.Interpretation{}, err
	}
	return r, interp, nil
}

// Bands returns a copy of the numeric band table of an instrument.
func Bands(instrumentID string) (BandTable, error) {
	e, err := lookup(instrumentID)
	if err != nil {
		return nil, err
	}
	return append(BandTable(nil), e.banding.Bands...), nil
}
