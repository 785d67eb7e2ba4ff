package mysql

import (
	"context"
	"database/sql"
	"time"

	"marketplace-backend/internal/domain"

	_ "github.com/go-sql-driver/mysql"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, report *domain.SellerReport) error {
	query := `
        INSERT INTO seller_reports (id, seller_id, reporter_id, message, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		report.ID, report.SellerID, report.ReporterID, report.Message,
		report.CreatedAt, report.UpdatedAt)
	return err
}

// GetOwned fetches a report only when the given customer filed it.
func (r *ReportRepository) GetOwned(ctx context.Context, id, reporterID string) (*domain.SellerReport, error) {
	query := `
        SELECT id, seller_id, reporter_id, message, created_at, updated_at
        FROM seller_reports WHERE id = ? AND reporter_id = ?
    `
	var report domain.SellerReport
	err := r.db.QueryRowContext(ctx, query, id, reporterID).Scan(
		&report.ID, &report.SellerID, &report.ReporterID, &report.Message,
		&report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) Update(ctx context.Context, id, message string) error {
	query := `UPDATE seller_reports SET message = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, message, time.Now(), id)
	return err
}

func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM seller_reports WHERE id = ?`, id)
	return err
}

func (r *ReportRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seller_reports`).Scan(&count)
	return count, err
}
