package scan

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"sera-scan-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRows(n int) []model.ScanRow {
	now := time.Now()
	rows := make([]model.ScanRow, n)
	for i := range rows {
		rows[i] = model.ScanRow{
			Name:        fmt.Sprintf("minecraft:item_%d", i),
			DisplayName: fmt.Sprintf("Item %d", i),
			Amount:      int64(i),
			NBT:         "null",
			ScanDate:    now,
			Tags:        "{}",
		}
	}
	return rows
}

func TestBuildInsertBatchesEmpty(t *testing.T) {
	assert.Nil(t, BuildInsertBatches(nil, DefaultBatchSize, DollarPlaceholder))
	assert.Nil(t, BuildInsertBatches([]model.ScanRow{}, DefaultBatchSize, DollarPlaceholder))
}

func TestBuildInsertBatchesChunking(t *testing.T) {
	cases := []struct {
		total    int
		expected []int
	}{
		{1, []int{1}},
		{DefaultBatchSize, []int{1024}},
		{DefaultBatchSize + 1, []int{1024, 1}},
		{2 * DefaultBatchSize, []int{1024, 1024}},
	}

	for _, tc := range cases {
		batches := BuildInsertBatches(makeRows(tc.total), DefaultBatchSize, DollarPlaceholder)
		require.Len(t, batches, len(tc.expected), "total=%d", tc.total)
		for i, want := range tc.expected {
			assert.Equal(t, want, batches[i].Rows)
			assert.Len(t, batches[i].Args, want*columnsPerRow)
		}
	}
}

func TestBuildInsertBatchesPlaceholderNumberingResets(t *testing.T) {
	batches := BuildInsertBatches(makeRows(3), 2, DollarPlaceholder)
	require.Len(t, batches, 2)

	assert.True(t, strings.HasSuffix(batches[0].SQL,
		"($1, $2, $3, $4, $5, $6, $7, $8), ($9, $10, $11, $12, $13, $14, $15, $16)"))
	assert.True(t, strings.HasSuffix(batches[1].SQL,
		"($1, $2, $3, $4, $5, $6, $7, $8)"))
}

func TestBuildInsertBatchesQuestionPlaceholders(t *testing.T) {
	batches := BuildInsertBatches(makeRows(2), 2, QuestionPlaceholder)
	require.Len(t, batches, 1)
	assert.True(t, strings.HasSuffix(batches[0].SQL,
		"(?, ?, ?, ?, ?, ?, ?, ?), (?, ?, ?, ?, ?, ?, ?, ?)"))
}

func TestBuildInsertBatchesPreservesOrder(t *testing.T) {
	batches := BuildInsertBatches(makeRows(5), 2, DollarPlaceholder)
	require.Len(t, batches, 3)

	// name is the fifth column of each row group
	i := 0
	for _, b := range batches {
		for r := 0; r < b.Rows; r++ {
			assert.Equal(t, fmt.Sprintf("minecraft:item_%d", i), b.Args[r*columnsPerRow+4])
			i++
		}
	}
	assert.Equal(t, 5, i)
}

func TestBuildInsertBatchesNeverSplitsARow(t *testing.T) {
	for _, size := range []int{1, 2, 3, 7} {
		for _, total := range []int{1, 5, 14} {
			batches := BuildInsertBatches(makeRows(total), size, DollarPlaceholder)
			got := 0
			for _, b := range batches {
				require.Equal(t, 0, len(b.Args)%columnsPerRow)
				require.Equal(t, b.Rows*columnsPerRow, len(b.Args))
				require.LessOrEqual(t, b.Rows, size)
				got += b.Rows
			}
			assert.Equal(t, total, got)
		}
	}
}

func TestBuildInsertBatchesValuesAreParameters(t *testing.T) {
	rows := makeRows(1)
	rows[0].Tags = `{"evil\"tag"}`
	batches := BuildInsertBatches(rows, DefaultBatchSize, DollarPlaceholder)
	require.Len(t, batches, 1)
	assert.NotContains(t, batches[0].SQL, "evil")
}
