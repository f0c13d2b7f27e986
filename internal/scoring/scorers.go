package scoring

import "clinscore/internal/models"

// scorer reduces an answer set over an ordered question set.
type scorer func(questions []models.Question, answers models.Answers) Result

const (
	epdsCriticalItem = 10

	mdqSymptomItems      = 13
	mdqCoOccurrenceItem  = 14
	mdqImpairmentItem    = 15
	mdqSymptomThreshold  = 7
	mdqImpairmentMinimum = 2

	educationDomain = "education"
)

// answerValue is the contribution of a validated answer to its question's
// score. Multi-select answers add up the values of the ticked options.
func answerValue(q models.Question, a models.Answer) int {
	if !q.IsMulti() {
		return a.Value
	}
	sum := 0
	for _, idx := range a.Selected {
		sum += q.Options[idx].Value
	}
	return sum
}

// domainTotals walks the questions in order and subtotals tagged domains in
// order of first appearance.
func domainTotals(questions []models.Question, answers models.Answers) (total, answered int, domains []DomainScore) {
	index := map[string]int{}
	for _, q := range questions {
		if q.Domain != "" {
			if _, ok := index[q.Domain]; !ok {
				index[q.Domain] = len(domains)
				domains = append(domains, DomainScore{Domain: q.Domain})
			}
		}
		a, ok := answers[q.ID]
		if !ok {
			continue
		}
		answered++
		v := answerValue(q, a)
		total += v
		if q.Domain != "" {
			domains[index[q.Domain]].Score += v
		}
	}
	return total, answered, domains
}

// sumScorer is the default reduction: the sum of every answered question.
func sumScorer(questions []models.Question, answers models.Answers) Result {
	total, answered, domains := domainTotals(questions, answers)
	return Result{Total: total, Answered: answered, Domains: domains}
}

// epdsScorer adds the self-harm critical item flag to the plain sum.
func epdsScorer(questions []models.Question, answers models.Answers) Result {
	r := sumScorer(questions, answers)
	r.CriticalItemPositive = answers[epdsCriticalItem].Value > 0
	return r
}

// mdqScorer counts "yes" symptom items and derives the composite criteria.
// Items 14 and 15 never add to the symptom count.
func mdqScorer(questions []models.Question, answers models.Answers) Result {
	screen := &MoodScreen{}
	answered := 0
	for _, q := range questions {
		a, ok := answers[q.ID]
		if !ok {
			continue
		}
		answered++
		if q.ID <= mdqSymptomItems && a.Value == 1 {
			screen.SymptomScore++
		}
	}
	screen.CoOccurrence = answers[mdqCoOccurrenceItem].Value == 1
	screen.FunctionalImpairment = answers[mdqImpairmentItem].Value >= mdqImpairmentMinimum
	screen.PositiveScreen = screen.SymptomScore >= mdqSymptomThreshold &&
		screen.CoOccurrence && screen.FunctionalImpairment

	return Result{
		Total:    screen.SymptomScore,
		Answered: answered,
		Screen:   screen,
	}
}

// mocaScorer reports the education adjustment outside the 30-point total.
func mocaScorer(questions []models.Question, answers models.Answers) Result {
	_, answered, all := domainTotals(questions, answers)
	r := Result{Answered: answered}
	for _, d := range all {
		if d.Domain == educationDomain {
			r.EducationBonus = d.Score
			continue
		}
		r.Domains = append(r.Domains, d)
		r.Total += d.Score
	}
	r.TotalWithBonus = r.Total + r.EducationBonus
	return r
}
