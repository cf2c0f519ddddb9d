package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"dataqc/domain/core"
	"dataqc/ports"
)

// reportRepository implements the ReportRepository interface
type reportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *sqlx.DB) ports.ReportRepository {
	return &reportRepository{db: db}
}

// Migrate creates the validation_reports table if it does not exist.
func Migrate(db *sqlx.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS validation_reports (
		id TEXT PRIMARY KEY,
		dataset TEXT NOT NULL DEFAULT '',
		total_validations INT NOT NULL,
		passed INT NOT NULL,
		failed INT NOT NULL,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create validation_reports table: %w", err)
	}
	return nil
}

// Save inserts a stored report
func (r *reportRepository) Save(ctx context.Context, sr *ports.StoredReport) error {
	payload, err := json.Marshal(sr.Report)
	if err != nil {
		return fmt.Errorf("failed to marshal report payload: %w", err)
	}

	query := `INSERT INTO validation_reports (
		id, dataset, total_validations, passed, failed, payload, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.ExecContext(ctx, query,
		sr.ID.String(), sr.Dataset, sr.Report.TotalValidations,
		sr.Report.Passed, sr.Report.Failed, payload, sr.CreatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

// GetByID retrieves a stored report by its ID
func (r *reportRepository) GetByID(ctx context.Context, id core.ReportID) (*ports.StoredReport, error) {
	query := `SELECT id, dataset, payload, created_at FROM validation_reports WHERE id = $1`

	var (
		sr        ports.StoredReport
		rawID     string
		payload   []byte
		createdAt time.Time
	)
	err := r.db.QueryRowContext(ctx, query, id.String()).Scan(&rawID, &sr.Dataset, &payload, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", core.ErrReportNotFound, id)
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	sr.ID = core.ReportID(rawID)
	sr.CreatedAt = core.NewTimestamp(createdAt)
	if err := json.Unmarshal(payload, &sr.Report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report payload: %w", err)
	}

	return &sr, nil
}

// ListRecent retrieves the most recent stored reports
func (r *reportRepository) ListRecent(ctx context.Context, limit int) ([]*ports.StoredReport, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, dataset, payload, created_at FROM validation_reports
		ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*ports.StoredReport
	for rows.Next() {
		var (
			sr        ports.StoredReport
			rawID     string
			payload   []byte
			createdAt time.Time
		)
		if err := rows.Scan(&rawID, &sr.Dataset, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		sr.ID = core.ReportID(rawID)
		sr.CreatedAt = core.NewTimestamp(createdAt)
		if err := json.Unmarshal(payload, &sr.Report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report payload: %w", err)
		}
		reports = append(reports, &sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate report rows: %w", err)
	}

	return reports, nil
}
