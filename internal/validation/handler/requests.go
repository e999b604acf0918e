package handler

import "shelfcheck/internal/validation/models"

// ValidateRequest is the POST /validate payload. ScanData is optional; its
// absence (not just emptiness) deactivates the recon layer, so the nil/empty
// distinction from the wire is preserved all the way into the engine.
type ValidateRequest struct {
	Records  []models.Record            `json:"records"`
	ScanData map[string]models.ScanInfo `json:"scan_data"`
}
