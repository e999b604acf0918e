package handler

import (
	"time"

	"shelfcheck/internal/validation/models"
)

// ValidateResponse is the POST /validate response body.
type ValidateResponse struct {
	RunID       string                               `json:"run_id"`
	RecordCount int                                  `json:"record_count"`
	ReconActive bool                                 `json:"recon_active"`
	Validations []models.Validation                  `json:"validations"`
	Scores      map[models.Domain]models.DomainScore `json:"scores"`
	GeneratedAt time.Time                            `json:"generated_at"`
}

// FromReport maps an engine report onto the response shape.
func FromReport(r *models.Report) ValidateResponse {
	return ValidateResponse{
		RunID:       r.RunID,
		RecordCount: r.RecordCount,
		ReconActive: r.ReconActive,
		Validations: r.Validations,
		Scores:      r.Scores,
		GeneratedAt: r.GeneratedAt,
	}
}
