package handler

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"sera-scan-api/internal/repository"
	"sera-scan-api/internal/service"
	"sera-scan-api/pkg/apierror"
	"sera-scan-api/pkg/response"
)

// AdminHandler serves the operator endpoints: store statistics and the
// ingestion audit log.
type AdminHandler struct {
	scanService *service.ScanService
	logRepo     repository.ScanLogRepository
	dbType      string
	startTime   time.Time
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(scanService *service.ScanService, logRepo repository.ScanLogRepository, dbType string) *AdminHandler {
	return &AdminHandler{
		scanService: scanService,
		logRepo:     logRepo,
		dbType:      dbType,
		startTime:   time.Now(),
	}
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats := make(map[string]interface{})

	stats["uptime_seconds"] = int64(time.Since(h.startTime).Seconds())
	stats["uptime_human"] = time.Since(h.startTime).Round(time.Second).String()
	stats["server_time"] = time.Now().Format(time.RFC3339)
	stats["db_type"] = h.dbType

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats["memory"] = map[string]interface{}{
		"alloc_mb":   float64(memStats.Alloc) / 1024 / 1024,
		"sys_mb":     float64(memStats.Sys) / 1024 / 1024,
		"num_gc":     memStats.NumGC,
		"goroutines": runtime.NumGoroutine(),
	}

	if h.scanService != nil {
		storeStats, err := h.scanService.StoreStats(ctx)
		if err == nil {
			storeStats["status"] = "connected"
			stats["scan_store"] = storeStats
		} else {
			stats["scan_store"] = map[string]interface{}{
				"status": "error",
				"error":  err.Error(),
			}
		}

		if summary := h.scanService.LastScan(ctx); summary != nil {
			stats["last_scan"] = summary
		}
	}

	response.OK(w, stats)
}

// GetLogs handles GET /api/v1/admin/logs?limit=N
func (h *AdminHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	if h.logRepo == nil {
		response.Error(w, apierror.ServiceUnavailable("scan log unavailable"))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	logs, err := h.logRepo.Recent(r.Context(), limit)
	if err != nil {
		response.Error(w, apierror.InternalError("failed to fetch scan logs"))
		return
	}

	response.OK(w, map[string]interface{}{
		"data":  logs,
		"count": len(logs),
	})
}
