package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clinscore/internal/models"
	"clinscore/internal/scoring"

	"gorm.io/gorm"
)

// ResultRepository stores completed assessment summaries.
type ResultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// NewResultRecord builds the row persisted for a completed session.
func NewResultRecord(clientName string, res scoring.Result, interp models.Interpretation, answers models.Answers) (*models.AssessmentResult, error) {
	raw, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answers: %w", err)
	}
	return &models.AssessmentResult{
		ClientName:     clientName,
		InstrumentID:   res.InstrumentID,
		Total:          res.Total,
		TotalWithBonus: res.TotalWithBonus,
		Level:          interp.Level,
		Tier:           interp.Tier,
		Flags:          res.Flags(),
		Answers:        raw,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// Save inserts a result and fills in its ID.
func (r *ResultRepository) Save(ctx context.Context, result *models.AssessmentResult) error {
	if err := r.db.WithContext(ctx).Create(result).Error; err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// List returns a client's results, oldest first. An empty instrumentID
// returns results for every instrument.
func (r *ResultRepository) List(ctx context.Context, clientName, instrumentID string) ([]models.AssessmentResult, error) {
	var results []models.AssessmentResult
	q := r.db.WithContext(ctx).Where("client_name = ?", clientName)
	if instrumentID != "" {
		q = q.Where("instrument_id = ?", instrumentID)
	}
	if err := q.Order("created_at").Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return results, nil
}
