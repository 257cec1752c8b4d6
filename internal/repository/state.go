package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"sera-scan-api/internal/model"
)

// SQLServerStateRepository reads the server_state table. The base control
// system owns and writes that table; this service only reports it.
type SQLServerStateRepository struct {
	db *sql.DB
}

// NewServerStateRepository wraps the shared database handle. When the table
// does not exist yet (fresh dev databases) it is created with a single safe
// row so the status surface has something to report.
func NewServerStateRepository(db *sql.DB, dialect Dialect) (*SQLServerStateRepository, error) {
	query := `
	CREATE TABLE IF NOT EXISTS "server_state" (
		"isAlert" BOOLEAN NOT NULL DEFAULT FALSE,
		"isSafe" BOOLEAN NOT NULL DEFAULT TRUE,
		"isEmergency" BOOLEAN NOT NULL DEFAULT FALSE,
		"time" TEXT NOT NULL
	)`
	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("failed to create server_state table: %w", err)
	}

	r := &SQLServerStateRepository{db: db}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM "server_state"`).Scan(&count); err == nil && count == 0 {
		ph1 := dialect.placeholder()(1)
		seed := fmt.Sprintf(`INSERT INTO "server_state" ("isAlert", "isSafe", "isEmergency", "time") VALUES (FALSE, TRUE, FALSE, %s)`, ph1)
		if _, err := db.Exec(seed, time.Now().UTC().Format(time.RFC3339)); err != nil {
			return nil, fmt.Errorf("failed to seed server_state: %w", err)
		}
	}

	return r, nil
}

// Get returns the current server state.
func (r *SQLServerStateRepository) Get(ctx context.Context) (*model.ServerState, error) {
	var state model.ServerState
	var ts interface{}

	err := r.db.QueryRowContext(ctx,
		`SELECT "isAlert", "isSafe", "isEmergency", "time" FROM "server_state" LIMIT 1`,
	).Scan(&state.IsAlert, &state.IsSafe, &state.IsEmergency, &ts)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("server_state is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get server state: %w", err)
	}

	// The companion system may have created the column as TIMESTAMP; fresh
	// dev databases store ISO-8601 text.
	switch v := ts.(type) {
	case time.Time:
		state.Time = v
	case []byte:
		state.Time = parseTimestamp(string(v))
	case string:
		state.Time = parseTimestamp(v)
	}

	return &state, nil
}

func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05.999999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Ensure SQLServerStateRepository implements ServerStateRepository
var _ ServerStateRepository = (*SQLServerStateRepository)(nil)
