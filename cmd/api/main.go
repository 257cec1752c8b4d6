package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"sera-scan-api/internal/cache"
	"sera-scan-api/internal/config"
	"sera-scan-api/internal/handler"
	"sera-scan-api/internal/middleware"
	"sera-scan-api/internal/repository"
	"sera-scan-api/internal/router"
	"sera-scan-api/internal/service"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting SERA scan API...")

	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Scan store
	var scanRepo repository.ScanRepository
	var storeDB *sql.DB
	dialect := repository.DialectPostgres

	switch cfg.DB.Type {
	case "sqlite":
		sqliteRepo, err := repository.NewSQLiteScanRepository(cfg.DB.Path)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite scan store: %v", err)
		}
		defer sqliteRepo.Close()
		scanRepo = sqliteRepo
		storeDB = sqliteRepo.DB()
		dialect = repository.DialectSQLite
		log.Println("SQLite scan store initialized")
	default: // postgres
		pgRepo, err := repository.NewPostgresScanRepository(cfg.DB.PostgresDSN(), cfg.DB.PoolSize)
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL scan store: %v", err)
		}
		defer pgRepo.Close()
		scanRepo = pgRepo
		storeDB = pgRepo.DB()
		log.Println("PostgreSQL scan store initialized")
	}

	// Audit log and server state share the scan store's database.
	logRepo, err := repository.NewScanLogRepository(storeDB, dialect)
	if err != nil {
		log.Printf("Warning: scan log unavailable: %v", err)
		logRepo = nil
	}

	stateRepo, err := repository.NewServerStateRepository(storeDB, dialect)
	if err != nil {
		log.Printf("Warning: server state unavailable: %v", err)
		stateRepo = nil
	}

	// Stats cache: Redis when configured, in-memory otherwise.
	var statsCache cache.Cache
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(cache.RedisCacheConfig{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Printf("Warning: Redis connection failed, falling back to memory cache: %v", err)
		} else {
			statsCache = redisCache
		}
	}
	if statsCache == nil {
		statsCache = cache.NewMemoryCache()
		log.Println("Memory stats cache initialized")
	}
	defer statsCache.Close()

	// Services
	var logIface repository.ScanLogRepository
	if logRepo != nil {
		logIface = logRepo
	}
	scanService := service.NewScanService(scanRepo, logIface, statsCache, cfg.Scan.WriteTimeout)

	var stateIface repository.ServerStateRepository
	if stateRepo != nil {
		stateIface = stateRepo
	}

	// Handlers
	healthHandler := handler.New(scanService, stateIface)
	scanHandler := handler.NewScanHandler(scanService)
	adminHandler := handler.NewAdminHandler(scanService, logIface, cfg.DB.Type)

	r := router.New(router.Config{
		Handler:      healthHandler,
		ScanHandler:  scanHandler,
		AdminHandler: adminHandler,
		AdminGate:    middleware.NewLoginKeyMiddleware(cfg.App.LoginKey),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
