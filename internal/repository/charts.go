package repository

import (
	"context"
	"fmt"
	"time"
)

type TimelineDataPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Timeline returns the banded total of every result a client has for one
// instrument, in date order.
func (r *ResultRepository) Timeline(ctx context.Context, clientName, instrumentID string) ([]TimelineDataPoint, error) {
	var data []TimelineDataPoint

	query := `
		SELECT
			created_at AS date,
			total::float AS value
		FROM assessment_results
		WHERE client_name = ? AND instrument_id = ?
		ORDER BY created_at;
	`

	if err := r.db.WithContext(ctx).Raw(query, clientName, instrumentID).Scan(&data).Error; err != nil {
		return nil, fmt.Errorf("failed to load timeline: %w", err)
	}
	return data, nil
}
