package models

// SeverityTier is the coarse, instrument-independent ranking of a band.
type SeverityTier string

const (
	TierLow      SeverityTier = "low"
	TierMild     SeverityTier = "mild"
	TierModerate SeverityTier = "moderate"
	TierSevere   SeverityTier = "severe"
	TierCritical SeverityTier = "critical"
)

// Rank orders tiers from 0 (low) to 4 (critical).
func (t SeverityTier) Rank() int {
	switch t {
	case TierLow:
		return 0
	case TierMild:
		return 1
	case TierModerate:
		return 2
	case TierSevere:
		return 3
	case TierCritical:
		return 4
	}
	return -1
}

// Interpretation is the clinical reading of a score.
type Interpretation struct {
	Level          string       `json:"level"`
	Description    string       `json:"description"`
	Recommendation string       `json:"recommendation"`
	Tier           SeverityTier `json:"severityTier"`
}
