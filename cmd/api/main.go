package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"callrec-dashboard/internal/audit"
	"callrec-dashboard/internal/auth"
	"callrec-dashboard/internal/config"
	"callrec-dashboard/internal/docstore"
	"callrec-dashboard/internal/groups"
	"callrec-dashboard/internal/httpapi"
	"callrec-dashboard/internal/identity/google"
	"callrec-dashboard/internal/objectstore"
	"callrec-dashboard/internal/recordings"
	"callrec-dashboard/internal/reporting"
	"callrec-dashboard/internal/users"
	"callrec-dashboard/pkg/logger"
	"callrec-dashboard/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, utils.PgxDriver, cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr(), Password: cfg.Redis.Password})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	blobs, err := openObjectStore(rootCtx, cfg.Storage, log)
	if err != nil {
		log.Error("object store init failed", "err", err)
		os.Exit(1)
	}

	h, err := buildHandlers(cfg, docstore.New(db), rdb, blobs, tokens, log)
	if err != nil {
		log.Error("service init failed", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           newRouter(log, h),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Audio streams are long-lived; WriteTimeout bounds the whole response.
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env, "group_by", cfg.Dashboard.GroupBy)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}

// openObjectStore connects to the audio bucket. Outside production an unset
// endpoint falls back to an empty in-memory store so the dashboard still runs.
func openObjectStore(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (recordings.ObjectStore, error) {
	if cfg.Endpoint == "" {
		log.Warn("STORAGE_ENDPOINT not set, audio playback disabled")
		return objectstore.NewMemoryStore(), nil
	}
	store, err := objectstore.NewMinio(objectstore.MinioConfig{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		Region:    cfg.Region,
		UseSSL:    cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	if err := store.HealthCheck(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func buildHandlers(cfg config.Config, store *docstore.Store, rdb *redis.Client, blobs recordings.ObjectStore, tokens *auth.Manager, log *slog.Logger) (httpapi.Handlers, error) {
	auditRepo, err := audit.NewDocRepo(store)
	if err != nil {
		return httpapi.Handlers{}, err
	}
	auditor := audit.NewService(auditRepo)

	recRepo, err := recordings.NewDocRepo(store)
	if err != nil {
		return httpapi.Handlers{}, err
	}
	groupRepo, err := groups.NewDocRepo(store)
	if err != nil {
		return httpapi.Handlers{}, err
	}

	engine := recordings.NewEngine(recordings.KeyMode(cfg.Dashboard.GroupBy), cfg.Location())
	recSvc := recordings.NewService(
		recRepo,
		blobs,
		recordings.NewRedisCache(rdb, cfg.Dashboard.SnapshotTTL),
		auditor,
		engine,
	)

	return httpapi.Handlers{
		Sessions: auth.NewSessions(tokens, auth.NewRedisDenylist(rdb)),
		States:   auth.NewRedisStateStore(rdb),
		Identity: google.NewVerifier(cfg.Auth.GoogleClientID, cfg.Auth.GoogleClientSecret, cfg.Auth.GoogleRedirectURI, log),

		Users:      users.NewService(users.NewDocRepo(store), auditor),
		Groups:     groups.NewService(groupRepo, auditor),
		Recordings: recSvc,
		Reporting:  reporting.NewService(recSvc),

		// Streams hold their slot for at most the server write timeout.
		Streams:    recordings.NewRedisStreamLimiter(rdb, cfg.Dashboard.MaxConcurrentStreams, 10*time.Minute),
		PresignTTL: cfg.Storage.PresignTTL,
	}, nil
}
