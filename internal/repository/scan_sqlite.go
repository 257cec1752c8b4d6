package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"

	"sera-scan-api/internal/model"
	"sera-scan-api/internal/scan"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteScanRepository implements ScanRepository using SQLite, for local
// development and tests. SQLite has no array type, so tags are stored as the
// encoded array literal in a TEXT column; everything else behaves like the
// postgres backend, including the all-or-nothing snapshot transaction.
type SQLiteScanRepository struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteScanRepository opens (or creates) the SQLite scan store.
// dbPath may be ":memory:" for throwaway stores.
func NewSQLiteScanRepository(dbPath string) (*SQLiteScanRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createSQLiteTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[SQLiteScanRepository] Initialized with database: %s", dbPath)
	return &SQLiteScanRepository{db: db}, nil
}

func createSQLiteTables(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS "items" (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		"amount" INTEGER NOT NULL DEFAULT 0,
		"displayName" TEXT NOT NULL,
		"fingerprint" NUMERIC NOT NULL,
		"isCraftable" BOOLEAN NOT NULL DEFAULT 0,
		"name" TEXT NOT NULL,
		"nbt" TEXT,
		"scan_date" TEXT NOT NULL,
		"tags" TEXT NOT NULL DEFAULT '{}'
	);
	CREATE INDEX IF NOT EXISTS idx_items_scan_date ON "items"("scan_date");
	CREATE INDEX IF NOT EXISTS idx_items_fingerprint ON "items"("fingerprint");
	`
	_, err := db.Exec(query)
	return err
}

// InsertSnapshot writes one snapshot atomically, mirroring the postgres
// backend's contract.
func (r *SQLiteScanRepository) InsertSnapshot(ctx context.Context, rows []model.ScanRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	conn, err := r.db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, batch := range scan.BuildInsertBatches(rows, scan.DefaultBatchSize, scan.QuestionPlaceholder) {
		if _, err := tx.ExecContext(ctx, batch.SQL, batch.Args...); err != nil {
			return 0, fmt.Errorf("failed to insert batch of %d items: %w", batch.Rows, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return len(rows), nil
}

// Stats returns statistics about the scan store.
func (r *SQLiteScanRepository) Stats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "items"`).Scan(&count); err != nil {
		return nil, err
	}
	stats["total_rows"] = count

	var lastScan sql.NullString
	if err := r.db.QueryRowContext(ctx, `SELECT MAX("scan_date") FROM "items"`).Scan(&lastScan); err == nil && lastScan.Valid {
		stats["last_scan_date"] = lastScan.String
	}

	return stats, nil
}

// DB exposes the underlying handle for the sibling state and log
// repositories.
func (r *SQLiteScanRepository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection.
func (r *SQLiteScanRepository) Close() error {
	return r.db.Close()
}

// Ensure SQLiteScanRepository implements ScanRepository
var _ ScanRepository = (*SQLiteScanRepository)(nil)
