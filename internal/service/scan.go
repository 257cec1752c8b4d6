package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"sera-scan-api/internal/cache"
	"sera-scan-api/internal/model"
	"sera-scan-api/internal/repository"
	"sera-scan-api/internal/scan"
)

// lastScanKey is the cache key for the most recent snapshot summary.
const lastScanKey = "last_scan"

// auditTimeout bounds the audit-log write, which runs detached from the
// request context so rollbacks and timeouts still get recorded.
const auditTimeout = 5 * time.Second

// ScanSummary describes the most recently ingested snapshot.
type ScanSummary struct {
	ItemCount int       `json:"item_count"`
	ScanDate  time.Time `json:"scan_date"`
}

// ScanService runs the ingestion pipeline: decode, batch, write, audit.
type ScanService struct {
	scanRepo     repository.ScanRepository
	logRepo      repository.ScanLogRepository
	statsCache   cache.Cache
	writeTimeout time.Duration
}

// NewScanService creates a new scan service. scanRepo is required; logRepo
// and statsCache are optional and skipped when nil.
func NewScanService(
	scanRepo repository.ScanRepository,
	logRepo repository.ScanLogRepository,
	statsCache cache.Cache,
	writeTimeout time.Duration,
) *ScanService {
	if scanRepo == nil {
		return nil
	}
	if writeTimeout <= 0 {
		writeTimeout = 60 * time.Second
	}
	return &ScanService{
		scanRepo:     scanRepo,
		logRepo:      logRepo,
		statsCache:   statsCache,
		writeTimeout: writeTimeout,
	}
}

// IngestSnapshot decodes the raw items, stamps them with the server receipt
// time, and writes them in one all-or-nothing transaction bounded by the
// write timeout. The returned count is the number of rows committed.
func (s *ScanService) IngestSnapshot(ctx context.Context, requestID string, items []model.RawItem) (int, error) {
	// Empty snapshots never touch the store, not even the audit log.
	if len(items) == 0 {
		return 0, nil
	}

	start := time.Now()
	rows := scan.DecodeRecords(items, start.UTC())

	writeCtx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	count, err := s.scanRepo.InsertSnapshot(writeCtx, rows)
	elapsed := time.Since(start)
	if err != nil {
		log.Printf("[ScanService] Snapshot failed after %v: %v", elapsed, err)
		s.audit(requestID, len(items), model.ScanStatusFailed, err, elapsed)
		return 0, err
	}

	log.Printf("[ScanService] Inserted %d items in %v", count, elapsed)
	s.audit(requestID, count, model.ScanStatusSuccess, nil, elapsed)
	s.cacheSummary(count, start.UTC())
	return count, nil
}

// LastScan returns the cached summary of the most recent snapshot, or nil if
// nothing has been ingested since the cache was last cleared.
func (s *ScanService) LastScan(ctx context.Context) *ScanSummary {
	if s.statsCache == nil {
		return nil
	}
	data, err := s.statsCache.Get(ctx, lastScanKey)
	if err != nil {
		return nil
	}
	var summary ScanSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil
	}
	return &summary
}

// StoreStats exposes the scan store statistics.
func (s *ScanService) StoreStats(ctx context.Context) (map[string]interface{}, error) {
	return s.scanRepo.Stats(ctx)
}

func (s *ScanService) cacheSummary(count int, scanDate time.Time) {
	if s.statsCache == nil {
		return
	}
	data, err := json.Marshal(ScanSummary{ItemCount: count, ScanDate: scanDate})
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()
	if err := s.statsCache.Set(ctx, lastScanKey, data, 24*time.Hour); err != nil {
		log.Printf("[ScanService] Failed to cache scan summary: %v", err)
	}
}

func (s *ScanService) audit(requestID string, itemCount int, status string, cause error, elapsed time.Duration) {
	if s.logRepo == nil {
		return
	}

	entry := &model.ScanLog{
		RequestID: requestID,
		ItemCount: itemCount,
		Status:    status,
		ElapsedMs: elapsed.Milliseconds(),
	}
	if cause != nil {
		entry.ErrorMsg = cause.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()
	if err := s.logRepo.Insert(ctx, entry); err != nil {
		log.Printf("[ScanService] Failed to write scan log: %v", err)
	}
}
