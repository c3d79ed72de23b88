package models

import "time"

// ExportLog records one export attempt for auditing.
type ExportLog struct {
	ID         int       `json:"id"`
	InvoiceID  int       `json:"invoice_id"`
	Format     string    `json:"format"` // "pdf" or "csv"
	Status     string    `json:"status"` // "ok" or "failed"
	DurationMs float64   `json:"duration_ms"`
	Requester  string    `json:"requester"`
	CreatedAt  time.Time `json:"created_at"`
}
