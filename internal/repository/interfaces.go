package repository

import (
	"context"

	"sera-scan-api/internal/model"
)

// ScanRepository defines the snapshot write path. The items table is
// append-only: rows are inserted and read, never updated or deleted here.
type ScanRepository interface {
	// InsertSnapshot writes all rows inside a single transaction. Either
	// every row commits or none do; the returned count is the number of
	// rows written on success.
	InsertSnapshot(ctx context.Context, rows []model.ScanRow) (int, error)

	// Stats returns statistics about the scan store.
	Stats(ctx context.Context) (map[string]interface{}, error)

	// Close closes the repository connection.
	Close() error
}

// ScanLogRepository records per-request ingestion outcomes.
type ScanLogRepository interface {
	Insert(ctx context.Context, entry *model.ScanLog) error
	Recent(ctx context.Context, limit int) ([]model.ScanLog, error)
}

// ServerStateRepository reads the server_state table maintained by the base
// control system.
type ServerStateRepository interface {
	Get(ctx context.Context) (*model.ServerState, error)
}
