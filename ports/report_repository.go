package ports

import (
	"context"

	"dataqc/domain/core"
	"dataqc/domain/validation"
)

// StoredReport is a validation report persisted with its identity.
type StoredReport struct {
	ID        core.ReportID     `json:"id"`
	Dataset   string            `json:"dataset"`
	CreatedAt core.Timestamp    `json:"created_at"`
	Report    validation.Report `json:"report"`
}

// ReportRepository defines the interface for report history storage.
type ReportRepository interface {
	Save(ctx context.Context, r *StoredReport) error
	GetByID(ctx context.Context, id core.ReportID) (*StoredReport, error)
	ListRecent(ctx context.Context, limit int) ([]*StoredReport, error)
}
