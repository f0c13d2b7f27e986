package scoring

import (
	"fmt"

	"clinscore/internal/models"
)

// Band is one contiguous score range with its clinical reading. Min and Max
// are inclusive.
type Band struct {
	Min            int                 `json:"min"`
	Max            int                 `json:"max"`
	Level          string              `json:"level"`
	Description    string              `json:"description"`
	Recommendation string              `json:"recommendation"`
	Tier           models.SeverityTier `json:"severityTier"`
}

func (b Band) interpretation() models.Interpretation {
	return models.Interpretation{
		Level:          b.Level,
		Description:    b.Description,
		Recommendation: b.Recommendation,
		Tier:           b.Tier,
	}
}

// BandTable is an ascending list of bands covering an instrument's score
// range without gaps or overlaps.
type BandTable []Band

// Range returns the lowest and highest score the table covers.
func (t BandTable) Range() (int, int) {
	if len(t) == 0 {
		return 0, 0
	}
	return t[0].Min, t[len(t)-1].Max
}

// Lookup returns the band containing score. Scores below or above the
// covered range resolve to the first or last band.
func (t BandTable) Lookup(score int) Band {
	for _, b := range t {
		if score <= b.Max {
			return b
		}
	}
	return t[len(t)-1]
}

// Validate checks that the table is non-empty and contiguous.
func (t BandTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("band table is empty")
	}
	for i, b := range t {
		if b.Min > b.Max {
			return fmt.Errorf("band %q: min %d above max %d", b.Level, b.Min, b.Max)
		}
		if i > 0 && b.Min != t[i-1].Max+1 {
			return fmt.Errorf("band %q starts at %d, want %d", b.Level, b.Min, t[i-1].Max+1)
		}
	}
	return nil
}

// Override is a band that wins over the numeric table when its condition
// holds for the result.
type Override struct {
	Name string
	When func(Result) bool
	Band Band
}

// Banding is the interpretation contract of one instrument: overrides are
// tried first in order, then Bands is looked up with Result.Total.
type Banding struct {
	Overrides []Override
	Bands     BandTable
}

func (b Banding) interpret(r Result) models.Interpretation {
	for _, o := range b.Overrides {
		if o.When(r) {
			return o.Band.interpretation()
		}
	}
	return b.Bands.Lookup(r.Total).interpretation()
}

var auditBanding = Banding{
	Bands: BandTable{
		{Min: 0, Max: 7, Level: "Low Risk", Tier: models.TierLow,
			Description:    "Alcohol use is unlikely to be causing harm.",
			Recommendation: "Provide alcohol education and reinforce low-risk drinking guidelines."},
		{Min: 8, Max: 15, Level: "Hazardous Drinking", Tier: models.TierMild,
			Description:    "Drinking pattern increases the risk of harmful consequences.",
			Recommendation: "Offer simple advice focused on reducing hazardous drinking."},
		{Min: 16, Max: 19, Level: "Harmful Drinking", Tier: models.TierModerate,
			Description:    "Drinking is likely already causing physical or mental health harm.",
			Recommendation: "Provide brief counselling and arrange continued monitoring."},
		{Min: 20, Max: 40, Level: "Alcohol Dependence", Tier: models.TierSevere,
			Description:    "Responses are consistent with possible alcohol dependence.",
			Recommendation: "Refer to a specialist for diagnostic evaluation and treatment."},
	},
}

var bprsBanding = Banding{
	Bands: BandTable{
		{Min: 0, Max: 30, Level: "Minimal", Tier: models.TierLow,
			Description:    "Psychiatric symptoms are absent or minimal.",
			Recommendation: "Continue routine monitoring."},
		{Min: 31, Max: 40, Level: "Mild", Tier: models.TierMild,
			Description:    "Mild psychiatric symptom severity.",
			Recommendation: "Review the symptom profile and consider follow-up assessment."},
		{Min: 41, Max: 52, Level: "Moderate", Tier: models.TierModerate,
			Description:    "Moderate psychiatric symptom severity.",
			Recommendation: "Arrange psychiatric review and consider treatment adjustment."},
		{Min: 53, Max: 126, Level: "Severe", Tier: models.TierSevere,
			Description:    "Marked psychiatric symptom severity.",
			Recommendation: "Arrange urgent psychiatric review."},
	},
}

var epdsBanding = Banding{
	Overrides: []Override{
		{
			Name: "self_harm_item",
			When: func(r Result) bool { return r.CriticalItemPositive },
			Band: Band{Min: 0, Max: 30, Level: "Immediate Risk", Tier: models.TierCritical,
				Description:    "A positive response to the self-harm item was recorded.",
				Recommendation: "Assess safety immediately and follow the local crisis pathway before the client leaves."},
		},
	},
	Bands: BandTable{
		{Min: 0, Max: 9, Level: "Low Risk", Tier: models.TierLow,
			Description:    "Depression is unlikely.",
			Recommendation: "Rescreen at the next scheduled contact."},
		{Min: 10, Max: 12, Level: "Moderate Risk", Tier: models.TierModerate,
			Description:    "Possible depression.",
			Recommendation: "Repeat the EPDS in 2 to 4 weeks and consider a clinical assessment."},
		{Min: 13, Max: 30, Level: "High Risk", Tier: models.TierSevere,
			Description:    "Probable depression.",
			Recommendation: "Refer for a full clinical assessment of depression."},
	},
}

var gad7Banding = Banding{
	Bands: BandTable{
		{Min: 0, Max: 4, Level: "Minimal Anxiety", Tier: models.TierLow,
			Description:    "Minimal anxiety symptoms.",
			Recommendation: "No intervention required; monitor as needed."},
		{Min: 5, Max: 9, Level: "Mild Anxiety", Tier: models.TierMild,
			Description:    "Mild anxiety symptoms.",
			Recommendation: "Watchful waiting and rescreen at follow-up."},
		{Min: 10, Max: 14, Level: "Moderate Anxiety", Tier: models.TierModerate,
			Description:    "Moderate anxiety symptoms; possible clinically significant condition.",
			Recommendation: "Further evaluation and a treatment plan are recommended."},
		{Min: 15, Max: 21, Level: "Severe Anxiety", Tier: models.TierSevere,
			Description:    "Severe anxiety symptoms.",
			Recommendation: "Active treatment is warranted; consider specialist referral."},
	},
}

var mdqBanding = Banding{
	Overrides: []Override{
		{
			Name: "positive_screen",
			When: func(r Result) bool { return r.Screen != nil && r.Screen.PositiveScreen },
			Band: Band{Min: 7, Max: 13, Level: "Positive Screen", Tier: models.TierSevere,
				Description:    "Symptom count, co-occurrence and impairment criteria are all met.",
				Recommendation: "Refer for a comprehensive evaluation for bipolar spectrum disorder."},
		},
		{
			Name: "partial_positive",
			When: func(r Result) bool {
				return r.Screen != nil && r.Screen.SymptomScore >= mdqSymptomThreshold && r.Screen.CoOccurrence
			},
			Band: Band{Min: 7, Max: 13, Level: "Partial Positive", Tier: models.TierModerate,
				Description:    "Symptom count and co-occurrence criteria are met without moderate or serious impairment.",
				Recommendation: "Discuss the history further and consider a clinical evaluation."},
		},
		{
			Name: "some_symptoms",
			When: func(r Result) bool { return r.Screen != nil && r.Screen.SymptomScore >= 4 },
			Band: Band{Min: 4, Max: 13, Level: "Some Symptoms", Tier: models.TierMild,
				Description:    "Some mood elevation symptoms reported below the screening threshold.",
				Recommendation: "Monitor mood symptoms at follow-up."},
		},
	},
	Bands: BandTable{
		{Min: 0, Max: 13, Level: "Negative Screen", Tier: models.TierLow,
			Description:    "Screening criteria for bipolar spectrum disorder are not met.",
			Recommendation: "No further action required on this screen."},
	},
}

var mocaBanding = Banding{
	Bands: BandTable{
		{Min: 0, Max: 17, Level: "Significant Cognitive Impairment", Tier: models.TierSevere,
			Description:    "Performance is well below the normal range.",
			Recommendation: "Refer for comprehensive neuropsychological and medical evaluation."},
		{Min: 18, Max: 25, Level: "Mild Cognitive Impairment", Tier: models.TierModerate,
			Description:    "Performance is below the normal cutoff of 26.",
			Recommendation: "Consider further cognitive assessment and repeat screening in 6 to 12 months."},
		{Min: 26, Max: 30, Level: "Normal", Tier: models.TierLow,
			Description:    "Performance is within the normal range.",
			Recommendation: "No further cognitive assessment required at this time."},
	},
}

// Breakpoints 30/31/33 are fixed; the 31-32 band stays two points wide.
var pcl5Banding = Banding{
	Bands: BandTable{
		{Min: 0, Max: 30, Level: "Low", Tier: models.TierLow,
			Description:    "PTSD symptom severity is below the screening threshold.",
			Recommendation: "Monitor and rescreen if symptoms change."},
		{Min: 31, Max: 32, Level: "Moderate-High", Tier: models.TierModerate,
			Description:    "Possible PTSD.",
			Recommendation: "Complete a structured clinical interview for PTSD."},
		{Min: 33, Max: 80, Level: "High", Tier: models.TierSevere,
			Description:    "Probable PTSD.",
			Recommendation: "Refer for trauma-focused assessment and treatment."},
	},
}
