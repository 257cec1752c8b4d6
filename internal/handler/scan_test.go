package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sera-scan-api/internal/cache"
	"sera-scan-api/internal/repository"
	"sera-scan-api/internal/service"
	"sera-scan-api/pkg/sera"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scanFixture struct {
	handler *ScanHandler
	repo    *repository.SQLiteScanRepository
	logs    *repository.SQLScanLogRepository
}

func newScanFixture(t *testing.T) *scanFixture {
	t.Helper()

	repo, err := repository.NewSQLiteScanRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	logs, err := repository.NewScanLogRepository(repo.DB(), repository.DialectSQLite)
	require.NoError(t, err)

	statsCache := cache.NewMemoryCache()
	t.Cleanup(func() { statsCache.Close() })

	svc := service.NewScanService(repo, logs, statsCache, 10*time.Second)
	return &scanFixture{handler: NewScanHandler(svc), repo: repo, logs: logs}
}

// envelope builds the double-encoded wire body: the item list is JSON-encoded
// into a string which is then embedded in the outer JSON payload.
func envelope(t *testing.T, items []map[string]interface{}) string {
	t.Helper()
	inner, err := json.Marshal(map[string]interface{}{"items": items})
	require.NoError(t, err)
	outer, err := json.Marshal(map[string]interface{}{
		"jsonPayload": map[string]interface{}{"items": string(inner)},
	})
	require.NoError(t, err)
	return string(outer)
}

func (f *scanFixture) post(t *testing.T, body string) sera.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/receive", strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.handler.Receive(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp sera.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Text)
	require.Len(t, resp.Text.Values, 1)
	return resp
}

func (f *scanFixture) rowCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.repo.DB().QueryRow(`SELECT COUNT(*) FROM "items"`).Scan(&count))
	return count
}

func TestReceiveSuccess(t *testing.T) {
	f := newScanFixture(t)
	start := time.Now().UTC()

	items := make([]map[string]interface{}, 3)
	for i := range items {
		items[i] = map[string]interface{}{
			"name":        fmt.Sprintf("minecraft:item_%d", i),
			"amount":      64,
			"fingerprint": 1000 + i,
			"isCraftable": false,
		}
	}

	resp := f.post(t, envelope(t, items))
	assert.Equal(t, "Successfully inserted 3 items", resp.Text.Values[0].Text)
	assert.Equal(t, sera.ColorInfo, resp.Text.Values[0].Color)
	assert.Equal(t, int64(3), f.rowCount(t))

	// every persisted scan_date falls inside the test's execution window
	rows, err := f.repo.DB().Query(`SELECT "scan_date" FROM "items"`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var raw string
		require.NoError(t, rows.Scan(&raw))
		stamped, err := time.Parse(time.RFC3339Nano, raw)
		require.NoError(t, err)
		assert.False(t, stamped.Before(start.Truncate(time.Second)))
		assert.False(t, stamped.After(time.Now().UTC()))
	}
	require.NoError(t, rows.Err())
}

func TestReceiveEmptyListShortCircuits(t *testing.T) {
	f := newScanFixture(t)

	resp := f.post(t, `{"jsonPayload":{"items":"{\"items\":[]}"}}`)
	assert.Equal(t, "No items found in the request body", resp.Text.Values[0].Text)
	assert.Equal(t, sera.ColorError, resp.Text.Values[0].Color)

	// the store was never contacted — no rows, no audit entries
	assert.Equal(t, int64(0), f.rowCount(t))
	recent, err := f.logs.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestReceiveMissingPayload(t *testing.T) {
	f := newScanFixture(t)

	resp := f.post(t, `{}`)
	assert.Equal(t, "No items found in the request body", resp.Text.Values[0].Text)
	assert.Equal(t, int64(0), f.rowCount(t))
}

func TestReceiveMalformedEnvelope(t *testing.T) {
	f := newScanFixture(t)

	resp := f.post(t, `{"jsonPayload":{"items":"not json"}}`)
	assert.Equal(t, sera.ColorError, resp.Text.Values[0].Color)
	assert.Contains(t, resp.Text.Values[0].Text, "Error:")
	assert.Equal(t, int64(0), f.rowCount(t))
}

func TestReceiveStoreFailureRollsBack(t *testing.T) {
	f := newScanFixture(t)

	items := []map[string]interface{}{
		{"name": "minecraft:iron_ingot", "fingerprint": 1},
		{"name": "minecraft:ghost"}, // no fingerprint -> NOT NULL violation
		{"name": "minecraft:gold_ingot", "fingerprint": 3},
	}

	resp := f.post(t, envelope(t, items))
	assert.Equal(t, sera.ColorError, resp.Text.Values[0].Color)
	assert.Contains(t, resp.Text.Values[0].Text, "Error:")

	// all-or-nothing: the valid records rolled back with the bad one
	assert.Equal(t, int64(0), f.rowCount(t))
}

func TestReceiveAdversarialTags(t *testing.T) {
	f := newScanFixture(t)

	items := []map[string]interface{}{{
		"name":        "minecraft:evil",
		"fingerprint": 666,
		"tags":        []interface{}{`quote"breaker`, 7, "forge:ingots"},
	}}

	resp := f.post(t, envelope(t, items))
	assert.Equal(t, "Successfully inserted 1 items", resp.Text.Values[0].Text)

	var tags string
	require.NoError(t, f.repo.DB().QueryRow(`SELECT "tags" FROM "items"`).Scan(&tags))
	assert.Equal(t, `{"quote\"breaker","forge:ingots"}`, tags)
}

func TestHealth(t *testing.T) {
	h := New(nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp sera.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Text)
	assert.Equal(t, "OK", resp.Text.Values[0].Text)
	assert.Equal(t, sera.ColorInfo, resp.Text.Values[0].Color)
}
