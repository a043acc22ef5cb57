package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-jobmatch-backend/config"
	_ "go-jobmatch-backend/docs" // Important for Swagger
	"go-jobmatch-backend/internal/delivery/http/middleware"
	v1 "go-jobmatch-backend/internal/delivery/http/v1"
	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/internal/jobsync"
	"go-jobmatch-backend/internal/matching"
	"go-jobmatch-backend/internal/repository/postgres"
	"go-jobmatch-backend/internal/scheduler"
	"go-jobmatch-backend/internal/usecase"
	"go-jobmatch-backend/pkg/airtable"
	"go-jobmatch-backend/pkg/audit"
	"go-jobmatch-backend/pkg/auth"
	"go-jobmatch-backend/pkg/database"
	"go-jobmatch-backend/pkg/email"
	"go-jobmatch-backend/pkg/logger"
	"go-jobmatch-backend/pkg/redis"
	"go-jobmatch-backend/pkg/resume"
	"go-jobmatch-backend/pkg/storage"
	"go-jobmatch-backend/pkg/validation"

	goredis "github.com/redis/go-redis/v9"
)

// @title           Job Match API
// @version         1.0
// @description     Syncs jobs from Airtable and ranks them against candidate profiles.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting jobmatch backend", "port", cfg.Port)

	auditLog := audit.New("jobmatch-api")
	defer func() { _ = auditLog.Sync() }()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Setup Database
	if cfg.RunMigrations {
		if err := database.Migrate(cfg.DBUrl); err != nil {
			logger.Log.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
	}
	dbPool, err := database.NewPostgresConnection(rootCtx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Redis (optional)
	var redisClient *goredis.Client
	if rc, err := redis.NewClient(rootCtx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		if !errors.Is(err, redis.ErrNotConfigured) {
			logger.Log.Warn("Redis unavailable, using in-memory fallback", "error", err)
		}
	} else {
		redisClient = rc
		defer redisClient.Close()
	}

	// 5. Setup Repositories
	jobRepo := postgres.NewJobRepository(dbPool)
	profileRepo := postgres.NewProfileRepository(dbPool)
	syncLogRepo := postgres.NewSyncLogRepository(dbPool)

	// 6. External collaborators; each one is optional and degrades its feature
	var syncLocker domain.SyncLocker
	if redisClient != nil {
		syncLocker = redis.NewLock(redisClient, redis.SyncLockKey, cfg.SyncLockTTL)
	}

	var source jobsync.JobSource = unconfiguredSource{}
	if client, err := airtable.NewClient(airtable.Config{
		APIKey:            cfg.AirtableAPIKey,
		BaseID:            cfg.AirtableBaseID,
		Table:             cfg.AirtableTableName,
		View:              cfg.AirtableView,
		RequestsPerSecond: cfg.AirtableRateLimit,
	}); err == nil {
		source = client
	}

	var mailer domain.Mailer
	if m, err := email.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom); err == nil {
		mailer = m
	} else {
		logger.Log.Warn("Email delivery not configured - match digests are disabled")
	}

	var fileStore domain.FileStore
	if s, err := storage.NewS3Store(rootCtx, storage.Config{
		Endpoint:        cfg.StorageEndpoint,
		Region:          cfg.StorageRegion,
		Bucket:          cfg.StorageBucket,
		AccessKeyID:     cfg.StorageAccessKeyID,
		SecretAccessKey: cfg.StorageSecretAccessKey,
		PublicBaseURL:   cfg.StoragePublicURL,
	}); err == nil {
		fileStore = s
	} else {
		logger.Log.Warn("Resume storage not configured - uploads are disabled", "error", err)
	}

	var analyzer domain.ResumeAnalyzer
	if a, err := resume.NewAnthropicAnalyzer(cfg.AnthropicAPIKey, cfg.AnthropicModel); err == nil {
		analyzer = a
	} else {
		logger.Log.Warn("Resume analysis not configured - resumes are stored without analysis", "error", err)
	}

	// 7. Setup UseCases
	engine := jobsync.NewEngine(source, jobRepo, jobsync.WithFetchDelay(cfg.SyncFetchDelay))
	scorer := matching.NewScorer(time.Now)

	syncUC := usecase.NewSyncUsecase(engine, syncLogRepo, syncLocker, auditLog)
	jobUC := usecase.NewJobUsecase(jobRepo)
	matchUC := usecase.NewMatchUsecase(profileRepo, jobRepo, scorer)
	profileUC := usecase.NewProfileUsecase(profileRepo, validation.New())
	resumeUC := usecase.NewResumeUsecase(profileRepo, fileStore, analyzer, auditLog)
	notificationUC := usecase.NewNotificationUsecase(profileRepo, jobRepo, scorer, mailer, auditLog, usecase.NotificationConfig{
		MinScore:    cfg.NotifyMinScore,
		MaxJobs:     cfg.NotifyMaxJobs,
		FrontendURL: cfg.FrontendURL,
	})
	adminUC := usecase.NewAdminUsecase(jobRepo, profileRepo, syncLogRepo, syncUC, notificationUC, auditLog)

	healthChecks := map[string]usecase.HealthCheck{"database": dbPool.Ping}
	if redisClient != nil {
		healthChecks["redis"] = func(ctx context.Context) error { return redis.HealthCheck(ctx, redisClient) }
	}
	healthUC := usecase.NewHealthUsecase(healthChecks)

	// 8. Setup Auth Provider (JWKS)
	var jwksProvider *auth.Provider
	if cfg.SupabaseUrl != "" {
		jwksProvider = auth.NewProvider(auth.SupabaseJWKSURL(cfg.SupabaseUrl))
	}

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		JobUC:        jobUC,
		MatchUC:      matchUC,
		ProfileUC:    profileUC,
		ResumeUC:     resumeUC,
		AdminUC:      adminUC,
		HealthUC:     healthUC,
		Roles:        profileRepo,
		RateLimiter:  middleware.NewRateLimiter(redisClient),
		Audit:        auditLog,
		JWKSProvider: jwksProvider,
		Config:       cfg,
	})

	// 10. Scheduler
	var digestSpec string
	if mailer != nil {
		digestSpec = cfg.DigestSchedule
	}
	sched := scheduler.New(syncUC, notificationUC, scheduler.Config{
		SyncSpec:      cfg.SyncSchedule,
		DigestSpec:    digestSpec,
		SyncOnStartup: cfg.SyncOnStartup && cfg.AirtableConfigured(),
	})
	if err := sched.Start(rootCtx); err != nil {
		logger.Log.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}

	// 11. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Manual syncs run inside the request
		WriteTimeout: 10 * time.Minute,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-rootCtx.Done()
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}
	sched.Stop(ctx)

	logger.Log.Info("Server exiting")
}

// unconfiguredSource fails every sync with a clear error when Airtable credentials are missing.
type unconfiguredSource struct{}

func (unconfiguredSource) ListActive(context.Context) ([]domain.ExternalJobRecord, error) {
	return nil, airtable.ErrNotConfigured
}

func (unconfiguredSource) AcknowledgeSync(context.Context, string, string) error {
	return airtable.ErrNotConfigured
}
