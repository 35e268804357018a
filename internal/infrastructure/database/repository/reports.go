package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"linkshield/internal/domain/models"
)

// ReportRepository persists flagged scan verdicts for history and stats
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new report repository
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Create inserts a scan report
func (r *ReportRepository) Create(ctx context.Context, rep *models.ScanReport) (*models.ScanReport, error) {
	if rep.ID == uuid.Nil {
		rep.ID = uuid.New()
	}
	rep.CreatedAt = time.Now()

	query := `
		INSERT INTO scan_reports (id, url, risk_score, matched_brand, reasons, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		rep.ID, rep.URL, rep.RiskScore, rep.MatchedBrand, rep.Reasons, rep.Source, rep.CreatedAt,
	).Scan(&rep.ID, &rep.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create scan report: %w", err)
	}

	return rep, nil
}

// ListRecent returns the newest reports, capped by limit
func (r *ReportRepository) ListRecent(ctx context.Context, limit int) ([]models.ScanReport, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `
		SELECT id, url, risk_score, matched_brand, reasons, source, created_at
		FROM scan_reports ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scan reports: %w", err)
	}
	defer rows.Close()

	reports := []models.ScanReport{}
	for rows.Next() {
		var rep models.ScanReport
		if err := rows.Scan(
			&rep.ID, &rep.URL, &rep.RiskScore, &rep.MatchedBrand,
			&rep.Reasons, &rep.Source, &rep.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, rep)
	}

	return reports, rows.Err()
}

// CountSince counts reports created after the cutoff
func (r *ReportRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM scan_reports WHERE created_at >= $1`, since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count scan reports: %w", err)
	}
	return count, nil
}
