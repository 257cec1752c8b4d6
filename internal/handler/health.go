package handler

import (
	"net/http"
	"runtime"
	"time"

	"sera-scan-api/internal/repository"
	"sera-scan-api/internal/service"
	"sera-scan-api/pkg/apierror"
	"sera-scan-api/pkg/response"
	"sera-scan-api/pkg/sera"
)

// StartTime tracks when the server started for uptime calculation
var StartTime = time.Now()

// Handler contains the health and status endpoints.
type Handler struct {
	scanService *service.ScanService
	stateRepo   repository.ServerStateRepository
}

// New creates a new handler.
func New(scanService *service.ScanService, stateRepo repository.ServerStateRepository) *Handler {
	return &Handler{
		scanService: scanService,
		stateRepo:   stateRepo,
	}
}

// Health handles GET /health. The in-game clients poll this and render the
// text directly, so the response uses the SERA vocabulary.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	sera.Write(w, sera.Message("OK", sera.ColorInfo))
}

// StatusResponse is the unified status payload for external monitoring.
type StatusResponse struct {
	Service       string               `json:"service"`
	Status        string               `json:"status"`
	Timestamp     string               `json:"timestamp"`
	UptimeSeconds int64                `json:"uptime_seconds"`
	MemoryMB      float64              `json:"memory_mb"`
	BaseState     string               `json:"base_state,omitempty"`
	LastScan      *service.ScanSummary `json:"last_scan,omitempty"`
}

// Status handles GET /api/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	resp := StatusResponse{
		Service:       "sera-scan-api",
		Status:        "ok",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		UptimeSeconds: int64(time.Since(StartTime).Seconds()),
		MemoryMB:      float64(int(float64(memStats.Alloc)/1024/1024*100)) / 100,
	}

	if h.stateRepo != nil {
		if state, err := h.stateRepo.Get(r.Context()); err == nil {
			resp.BaseState = "safe"
			if state.IsAlert {
				resp.BaseState = "alert"
			}
			if state.IsEmergency {
				resp.BaseState = "emergency"
			}
		}
	}

	if h.scanService != nil {
		resp.LastScan = h.scanService.LastScan(r.Context())
	}

	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	response.OK(w, resp)
}

// State handles GET /api/v1/state, exposing the base control system's
// server_state row.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	if h.stateRepo == nil {
		response.Error(w, apierror.ServiceUnavailable("server state unavailable"))
		return
	}
	state, err := h.stateRepo.Get(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, state)
}
