package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/MOSTAFA-AL-MANNANI/ihsas/api/swagger"
	"github.com/MOSTAFA-AL-MANNANI/ihsas/internal/handler"
	"github.com/MOSTAFA-AL-MANNANI/ihsas/internal/middleware"
	"github.com/MOSTAFA-AL-MANNANI/ihsas/internal/repository"
	"github.com/MOSTAFA-AL-MANNANI/ihsas/internal/service"
	"github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/cache"
	"github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/config"
	"github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/database"
	"github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/logger"
	corsmiddleware "github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/middleware/cors"
	reqidmiddleware "github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/middleware/requestid"
	"github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/storage"
	"github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/upload"
)

// @title Ihsas Intake API
// @version 1.0.0
// @description Recruitment intake back office
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	// Redis backs the stats cache and the logout denylist; the service
	// degrades gracefully without it.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching and token revocation disabled", zap.Error(err))
		redisClient = nil
	}

	documentStore, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Fatal("failed to init upload storage", zap.Error(err))
	}
	reportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Fatal("failed to init export storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	candidateRepo := repository.NewCandidateRepository(db)
	centerRepo := repository.NewCenterRepository(db)
	filiereRepo := repository.NewFiliereRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	uploadValidator := upload.NewValidator(upload.Constraints{
		MaxSizeBytes: cfg.Uploads.MaxFileSizeBytes,
		AllowedMIMEs: cfg.Uploads.AllowedMIMEs,
	})

	authSvc := service.NewAuthService(adminRepo, cacheRepo, cfg.JWT, logr)
	candidateSvc := service.NewCandidateService(candidateRepo, filiereRepo, documentStore, uploadValidator, logr)
	statusSvc := service.NewStatusService(candidateRepo, logr)
	centerSvc := service.NewCenterService(centerRepo, logr)
	filiereSvc := service.NewFiliereService(filiereRepo, centerRepo, logr)
	statsSvc := service.NewStatsService(statsRepo, cacheRepo, cfg.Stats.CacheTTL, logr)
	exportSvc := service.NewExportService(candidateRepo, statsSvc, documentStore, reportStore, signer, cfg.Exports.SignedURLTTL, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)

	r := gin.New()
	r.MaxMultipartMemory = uploadValidator.MaxSizeBytes()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(metrics.Handler())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Candidates: handler.NewCandidateHandler(candidateSvc, statusSvc, exportSvc, statsSvc),
		Centers:    handler.NewCenterHandler(centerSvc),
		Filieres:   handler.NewFiliereHandler(filiereSvc),
		Stats:      handler.NewStatsHandler(statsSvc, exportSvc),
	}, middleware.JWTAuth(authSvc))

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
