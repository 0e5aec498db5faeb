package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-availability/internal/audit"
	"github.com/BruksfildServices01/booking-availability/internal/config"
	dbpkg "github.com/BruksfildServices01/booking-availability/internal/db"
	"github.com/BruksfildServices01/booking-availability/internal/infra/memstore"
	"github.com/BruksfildServices01/booking-availability/internal/infra/repository"
	"github.com/BruksfildServices01/booking-availability/internal/lock"
	"github.com/BruksfildServices01/booking-availability/internal/logger"
	"github.com/BruksfildServices01/booking-availability/internal/media"
	"github.com/BruksfildServices01/booking-availability/internal/notify"
	"github.com/BruksfildServices01/booking-availability/internal/payment"
	"github.com/BruksfildServices01/booking-availability/internal/routes"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	deps := routes.Deps{
		Logger:              lg,
		JWTSecret:           cfg.JWTSecret,
		PublicRatePerMinute: cfg.PublicRatePerMinute,
	}

	// ======================================================
	// STORAGE
	// ======================================================
	switch cfg.StoreDriver {
	case config.StoreMemory:
		store := memstore.New()
		seedDemo(store)
		deps.Repo = store
		deps.AuditStore = audit.NewMemory()
		deps.Notifier = notify.NewMemory()
		lg.Warn("using in-memory store, data is lost on restart")

	default:
		db, err := dbpkg.NewDB(cfg)
		if err != nil {
			lg.Fatal("failed to connect to database", zap.Error(err))
		}
		deps.Repo = repository.NewScheduleGormRepository(db)
		deps.AuditStore = audit.New(db)
		deps.Notifier = notify.NewOutbox(db)
	}

	dispatcher := audit.NewDispatcher(deps.AuditStore, lg)
	defer dispatcher.Close()
	deps.Audit = dispatcher

	// ======================================================
	// LOCKS
	// ======================================================
	switch cfg.LockDriver {
	case config.LockRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			lg.Fatal("failed to reach redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		deps.Locker = lock.NewRedis(rdb, cfg.LockTTL, lg)

	default:
		deps.Locker = lock.NewMemory()
	}

	// ======================================================
	// INTEGRATIONS
	// ======================================================
	if cfg.MercadoPagoToken != "" {
		mp, err := payment.NewMercadoPago(cfg.MercadoPagoToken)
		if err != nil {
			lg.Fatal("failed to configure mercado pago", zap.Error(err))
		}
		deps.Refunder = mp
	} else {
		deps.Refunder = payment.Disabled{}
		lg.Info("refunds disabled, MERCADOPAGO_ACCESS_TOKEN not set")
	}

	if cfg.S3Enabled() {
		deps.Objects = media.NewS3(media.S3Config{
			Bucket:        cfg.S3.Bucket,
			Region:        cfg.S3.Region,
			Endpoint:      cfg.S3.Endpoint,
			AccessKey:     cfg.S3.AccessKey,
			SecretKey:     cfg.S3.SecretKey,
			PublicBaseURL: cfg.S3.PublicBaseURL,
		})
	} else {
		deps.Objects = media.NewMemory("http://localhost" + cfg.Addr() + "/media")
	}

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		lg.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("graceful shutdown failed", zap.Error(err))
	}
}
