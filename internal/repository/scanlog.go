package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"sera-scan-api/internal/model"
	"sera-scan-api/internal/scan"
)

// Dialect selects the SQL flavor for the repositories that run on either
// backend.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

func (d Dialect) placeholder() scan.Placeholder {
	if d == DialectPostgres {
		return scan.DollarPlaceholder
	}
	return scan.QuestionPlaceholder
}

// SQLScanLogRepository stores the ingestion audit log in the same database as
// the scan store. Timestamps are kept as ISO-8601 text so the table reads the
// same on both backends.
type SQLScanLogRepository struct {
	db *sql.DB
	ph scan.Placeholder
}

// NewScanLogRepository creates the scan_logs table if needed.
func NewScanLogRepository(db *sql.DB, dialect Dialect) (*SQLScanLogRepository, error) {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if dialect == DialectPostgres {
		idColumn = "id BIGSERIAL PRIMARY KEY"
	}

	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS "scan_logs" (
		%s,
		request_id TEXT NOT NULL,
		item_count INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		error_message TEXT,
		elapsed_ms INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`, idColumn)
	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("failed to create scan_logs table: %w", err)
	}

	return &SQLScanLogRepository{db: db, ph: dialect.placeholder()}, nil
}

// Insert appends one audit entry.
func (r *SQLScanLogRepository) Insert(ctx context.Context, entry *model.ScanLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := fmt.Sprintf(
		`INSERT INTO "scan_logs" (request_id, item_count, status, error_message, elapsed_ms, created_at) VALUES (%s, %s, %s, %s, %s, %s)`,
		r.ph(1), r.ph(2), r.ph(3), r.ph(4), r.ph(5), r.ph(6))

	var errMsg interface{}
	if entry.ErrorMsg != "" {
		errMsg = entry.ErrorMsg
	}

	_, err := r.db.ExecContext(ctx, query,
		entry.RequestID, entry.ItemCount, entry.Status, errMsg,
		entry.ElapsedMs, entry.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert scan log: %w", err)
	}
	return nil
}

// Recent returns the latest entries, newest first.
func (r *SQLScanLogRepository) Recent(ctx context.Context, limit int) ([]model.ScanLog, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := fmt.Sprintf(
		`SELECT id, request_id, item_count, status, error_message, elapsed_ms, created_at FROM "scan_logs" ORDER BY id DESC LIMIT %s`,
		r.ph(1))

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan logs: %w", err)
	}
	defer rows.Close()

	logs := []model.ScanLog{}
	for rows.Next() {
		var l model.ScanLog
		var errMsg sql.NullString
		var createdAt string
		if err := rows.Scan(&l.ID, &l.RequestID, &l.ItemCount, &l.Status, &errMsg, &l.ElapsedMs, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan log row: %w", err)
		}
		if errMsg.Valid {
			l.ErrorMsg = errMsg.String
		}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			l.CreatedAt = t
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// Ensure SQLScanLogRepository implements ScanLogRepository
var _ ScanLogRepository = (*SQLScanLogRepository)(nil)
