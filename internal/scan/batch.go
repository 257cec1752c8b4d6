package scan

import (
	"strconv"
	"strings"
	"time"

	"sera-scan-api/internal/model"
)

// DefaultBatchSize is the maximum number of rows per insert statement.
const DefaultBatchSize = 1024

// columnsPerRow is the number of persisted columns, one placeholder each.
const columnsPerRow = 8

const insertPrefix = `INSERT INTO "items" ("amount", "displayName", "fingerprint", "isCraftable", "name", "nbt", "scan_date", "tags") VALUES `

// PreparedBatch is one executable multi-row insert: the statement text and
// its flattened parameter list.
type PreparedBatch struct {
	SQL  string
	Args []interface{}
	Rows int
}

// Placeholder renders the nth positional parameter (1-based) for the target
// dialect.
type Placeholder func(n int) string

// DollarPlaceholder renders postgres-style $1, $2, ... parameters.
func DollarPlaceholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// QuestionPlaceholder renders sqlite-style ? parameters.
func QuestionPlaceholder(n int) string {
	return "?"
}

// BuildInsertBatches slices rows into insert batches of at most batchSize
// rows each, preserving input order within and across batches. Placeholder
// numbering restarts at 1 for every batch, and a row's eight column values
// never straddle a batch boundary. Values travel as parameters, never
// concatenated into the statement text.
func BuildInsertBatches(rows []model.ScanRow, batchSize int, ph Placeholder) []PreparedBatch {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if len(rows) == 0 {
		return nil
	}

	batches := make([]PreparedBatch, 0, (len(rows)+batchSize-1)/batchSize)

	var sb strings.Builder
	var args []interface{}
	count := 0
	paramIndex := 1

	seal := func() {
		batches = append(batches, PreparedBatch{
			SQL:  insertPrefix + sb.String(),
			Args: args,
			Rows: count,
		})
		sb.Reset()
		args = nil
		count = 0
		paramIndex = 1
	}

	for _, row := range rows {
		if count > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for c := 0; c < columnsPerRow; c++ {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(ph(paramIndex))
			paramIndex++
		}
		sb.WriteByte(')')

		args = append(args, rowArgs(row)...)
		count++

		if count == batchSize {
			seal()
		}
	}

	if count > 0 {
		seal()
	}

	return batches
}

// rowArgs flattens a row into its eight column values, in statement column
// order. The timestamp travels as ISO-8601 text, matching the store contract
// for timestamp columns.
func rowArgs(row model.ScanRow) []interface{} {
	var fingerprint interface{}
	if row.Fingerprint != nil {
		fingerprint = *row.Fingerprint
	}
	return []interface{}{
		row.Amount,
		row.DisplayName,
		fingerprint,
		row.IsCraftable,
		row.Name,
		row.NBT,
		row.ScanDate.UTC().Format(time.RFC3339Nano),
		row.Tags,
	}
}
