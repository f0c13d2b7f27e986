package models

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// AssessmentResult is the summary of a completed session kept against a
// client record.
type AssessmentResult struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	ClientName     string          `gorm:"index;not null" json:"clientName"`
	InstrumentID   string          `gorm:"index;not null" json:"instrumentId"`
	Total          int             `json:"total"`
	TotalWithBonus int             `json:"totalWithBonus"`
	Level          string          `json:"level"`
	Tier           SeverityTier    `json:"severityTier"`
	Flags          pq.StringArray  `gorm:"type:text[]" json:"flags"`
	Answers        json.RawMessage `gorm:"type:jsonb" json:"answers,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}
