package scoring

// DomainScore is the subtotal of one named section of an instrument.
type DomainScore struct {
	Domain string `json:"domain"`
	Score  int    `json:"score"`
}

// MoodScreen holds the MDQ composite criteria.
type MoodScreen struct {
	SymptomScore         int  `json:"symptomScore"`
	CoOccurrence         bool `json:"coOccurrence"`
	FunctionalImpairment bool `json:"functionalImpairment"`
	PositiveScreen       bool `json:"positiveScreen"`
}

// Result is the reduced form of an answer set. Total is always set; the
// other fields are filled only for instruments that define them. For the
// MDQ, Total mirrors Screen.SymptomScore.
type Result struct {
	InstrumentID         string        `json:"instrumentId"`
	Total                int           `json:"total"`
	Answered             int           `json:"answered"`
	Domains              []DomainScore `json:"domains,omitempty"`
	EducationBonus       int           `json:"educationBonus,omitempty"`
	TotalWithBonus       int           `json:"totalWithBonus,omitempty"`
	CriticalItemPositive bool          `json:"criticalItemPositive,omitempty"`
	Screen               *MoodScreen   `json:"screen,omitempty"`
}

// Domain returns the subtotal for a named domain.
func (r Result) Domain(name string) (int, bool) {
	for _, d := range r.Domains {
		if d.Domain == name {
			return d.Score, true
		}
	}
	return 0, false
}

// Flags lists the derived boolean findings that are set, in a fixed order.
func (r Result) Flags() []string {
	var flags []string
	if r.CriticalItemPositive {
		flags = append(flags, "critical_item_positive")
	}
	if r.Screen != nil {
		if r.Screen.CoOccurrence {
			flags = append(flags, "co_occurrence")
		}
		if r.Screen.FunctionalImpairment {
			flags = append(flags, "functional_impairment")
		}
		if r.Screen.PositiveScreen {
			flags = append(flags, "positive_screen")
		}
	}
	if r.EducationBonus > 0 {
		flags = append(flags, "education_adjusted")
	}
	return flags
}
