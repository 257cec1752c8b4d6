package handler

import (
	"fmt"
	"io"
	"log"
	"net/http"

	"sera-scan-api/internal/middleware"
	"sera-scan-api/internal/model"
	"sera-scan-api/internal/service"
	"sera-scan-api/pkg/sera"
)

// ScanHandler handles snapshot ingestion requests from the in-game scanners.
type ScanHandler struct {
	scanService *service.ScanService
}

// NewScanHandler creates a new scan handler.
func NewScanHandler(scanService *service.ScanService) *ScanHandler {
	return &ScanHandler{scanService: scanService}
}

// Receive handles POST /receive. The outcome always travels in-band in the
// SERA text vocabulary over HTTP 200; store failures are contained here and
// never escape to the transport layer.
func (h *ScanHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		sera.Write(w, sera.Message("Error: failed to read request body", sera.ColorError))
		return
	}
	defer r.Body.Close()

	items, err := model.ParseSnapshotEnvelope(body)
	if err != nil {
		log.Printf("[ScanHandler] Bad envelope: %v", err)
		sera.Write(w, sera.Message("Error: "+err.Error(), sera.ColorError))
		return
	}

	log.Printf("[ScanHandler] Received items: %d", len(items))
	if len(items) == 0 {
		sera.Write(w, sera.Message("No items found in the request body", sera.ColorError))
		return
	}

	count, err := h.scanService.IngestSnapshot(r.Context(), middleware.GetRequestID(r.Context()), items)
	if err != nil {
		sera.Write(w, sera.Message("Error: "+err.Error(), sera.ColorError))
		return
	}

	sera.Write(w, sera.Message(fmt.Sprintf("Successfully inserted %d items", count), sera.ColorInfo))
}
