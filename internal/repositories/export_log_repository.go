package repositories

import (
	"context"

	"billing-export/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ExportLogRepository struct {
	DB *pgxpool.Pool
}

func NewExportLogRepository(db *pgxpool.Pool) *ExportLogRepository {
	return &ExportLogRepository{DB: db}
}

// Insert records one export attempt.
func (r *ExportLogRepository) Insert(ctx context.Context, entry *models.ExportLog) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO export_logs(invoice_id, format, status, duration_ms, requester)
		 VALUES($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		entry.InvoiceID, entry.Format, entry.Status, entry.DurationMs, entry.Requester,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// ListByInvoice returns the export history for one invoice, newest first.
func (r *ExportLogRepository) ListByInvoice(ctx context.Context, invoiceID int) ([]*models.ExportLog, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, invoice_id, format, status, duration_ms, requester, created_at
		 FROM export_logs
		 WHERE invoice_id = $1
		 ORDER BY created_at DESC`,
		invoiceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.ExportLog
	for rows.Next() {
		entry := &models.ExportLog{}
		if err := rows.Scan(&entry.ID, &entry.InvoiceID, &entry.Format, &entry.Status,
			&entry.DurationMs, &entry.Requester, &entry.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}
