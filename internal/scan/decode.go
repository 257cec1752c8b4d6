// Package scan implements the snapshot ingestion pipeline: decoding untrusted
// item records into storage-ready rows and slicing them into bounded
// multi-row insert batches.
package scan

import (
	"encoding/json"
	"math"
	"time"

	"sera-scan-api/internal/model"
	"sera-scan-api/pkg/pgtext"
)

// SentinelName is persisted as the display name when a record carries
// neither displayName nor name.
const SentinelName = "Bugged name"

// DecodeRecord normalizes one raw item into a ScanRow. It is total:
// malformed optional fields fall back to defaults instead of failing, so a
// partially broken client payload still ingests. Missing name or fingerprint
// is not rejected here — name persists empty and fingerprint persists NULL,
// surfacing downstream only if the schema objects.
//
// scanDate is stamped by the caller with server receipt time; client-supplied
// scan dates are ignored to bound clock skew.
func DecodeRecord(raw model.RawItem, scanDate time.Time) model.ScanRow {
	row := model.ScanRow{
		Amount:      intField(raw["amount"]),
		IsCraftable: boolField(raw["isCraftable"]),
		ScanDate:    scanDate,
		Tags:        pgtext.EncodeArray(pgtext.NormalizeTags(raw["tags"])),
	}

	row.Name, _ = raw["name"].(string)

	if dn, ok := raw["displayName"].(string); ok && dn != "" {
		row.DisplayName = dn
	} else if row.Name != "" {
		row.DisplayName = row.Name
	} else {
		row.DisplayName = SentinelName
	}

	switch v := raw["fingerprint"].(type) {
	case json.Number:
		s := v.String()
		row.Fingerprint = &s
	case string:
		if v != "" {
			s := v
			row.Fingerprint = &s
		}
	case float64:
		s := formatFloat(v)
		row.Fingerprint = &s
	}

	row.NBT = encodeNBT(raw["nbt"])

	return row
}

// DecodeRecords decodes all records, stamping every row with the same
// server-side scan time.
func DecodeRecords(items []model.RawItem, scanDate time.Time) []model.ScanRow {
	rows := make([]model.ScanRow, len(items))
	for i, item := range items {
		rows[i] = DecodeRecord(item, scanDate)
	}
	return rows
}

// encodeNBT serializes the opaque nbt payload to JSON text. Absent or
// unserializable payloads persist as the JSON null literal.
func encodeNBT(v interface{}) string {
	if v == nil {
		return "null"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}

func intField(v interface{}) int64 {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		// Fractional amounts truncate; magnitudes beyond int64 fall back to
		// the zero default rather than overflowing.
		if f, err := n.Float64(); err == nil && math.Abs(f) < 9.2e18 {
			return int64(f)
		}
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	}
	return 0
}

func boolField(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

func formatFloat(f float64) string {
	data, _ := json.Marshal(f)
	return string(data)
}
