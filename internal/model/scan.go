package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// RawItem is one inbound inventory stack as sent by the in-game scanner.
// The payload is untrusted and loosely typed, so every field is held in its
// decoded-JSON form; the scan decoder applies defaults and normalization.
// Numbers are preserved as json.Number so large fingerprints survive intact.
type RawItem map[string]interface{}

// ScanRow is one normalized, storage-ready row of the items table.
type ScanRow struct {
	Amount      int64
	DisplayName string
	Fingerprint *string // numeric rendered as text; nil when the client omitted it
	IsCraftable bool
	Name        string
	NBT         string // opaque payload serialized as JSON text, never interpreted
	ScanDate    time.Time
	Tags        string // postgres array literal
}

// snapshotEnvelope is the outer request body: { "jsonPayload": { "items": "<json string>" } }.
type snapshotEnvelope struct {
	JSONPayload struct {
		Items string `json:"items"`
	} `json:"jsonPayload"`
}

// snapshotPayload is what the embedded JSON string decodes to.
type snapshotPayload struct {
	Items []RawItem `json:"items"`
}

// ParseSnapshotEnvelope unwraps the double-encoded snapshot request: the
// outer body carries the item list as a JSON string which must be parsed a
// second time. This is the wire contract with the in-game clients; the
// double decode is isolated here so the rest of the pipeline sees typed
// records. An empty or missing inner list is not an error — the endpoint
// short-circuits on it.
func ParseSnapshotEnvelope(body []byte) ([]RawItem, error) {
	var env snapshotEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if env.JSONPayload.Items == "" {
		return nil, nil
	}

	var payload snapshotPayload
	dec := json.NewDecoder(bytes.NewReader([]byte(env.JSONPayload.Items)))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid items payload: %w", err)
	}
	return payload.Items, nil
}
