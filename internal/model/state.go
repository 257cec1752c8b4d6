package model

import "time"

// ServerState mirrors the server_state table maintained by the base control
// system. This service only reads it.
type ServerState struct {
	IsAlert     bool      `json:"isAlert"`
	IsSafe      bool      `json:"isSafe"`
	IsEmergency bool      `json:"isEmergency"`
	Time        time.Time `json:"time"`
}

// ScanLog is one entry of the append-only ingestion audit log, recorded per
// /receive request.
type ScanLog struct {
	ID        int64     `json:"id"`
	RequestID string    `json:"request_id"`
	ItemCount int       `json:"item_count"`
	Status    string    `json:"status"` // 'success' or 'failed'
	ErrorMsg  string    `json:"error_message,omitempty"`
	ElapsedMs int64     `json:"elapsed_ms"`
	CreatedAt time.Time `json:"created_at"`
}

// Scan log status values.
const (
	ScanStatusSuccess = "success"
	ScanStatusFailed  = "failed"
)
