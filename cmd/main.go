package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/inventory-order-api/config"
	"github.com/oksasatya/inventory-order-api/internal/container"
	"github.com/oksasatya/inventory-order-api/internal/infrastructure/audit"
	"github.com/oksasatya/inventory-order-api/internal/infrastructure/metrics"
	pginfra "github.com/oksasatya/inventory-order-api/internal/infrastructure/postgres"
	"github.com/oksasatya/inventory-order-api/internal/interface/middleware"
	"github.com/oksasatya/inventory-order-api/internal/router"
	"github.com/oksasatya/inventory-order-api/pkg/helpers"
	"github.com/oksasatya/inventory-order-api/pkg/mailer"
	"github.com/oksasatya/inventory-order-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()
	container.SetConfig(cfg)
	container.SetLogger(logger)

	// Postgres pool + migrations, unless running on the in-memory store
	if cfg.StorageDriver != container.StorageMemory {
		pool, err := pginfra.NewPool(ctx, cfg)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to postgres")
		}
		defer pool.Close()
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			logger.WithError(err).Fatal("migration failed")
		}
		container.SetPGPool(pool)
	} else {
		logger.Warn("STORAGE_DRIVER=memory; data is lost on restart")
	}

	// Redis (sessions, rate limits); optional
	if rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rdb != nil {
		if err := helpers.PingRedis(ctx, rdb); err != nil {
			logger.WithError(err).Fatal("failed to connect to redis")
		}
		defer func() { _ = rdb.Close() }()
		container.SetRedis(rdb)
	}

	// GCS for product images; optional
	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.WithError(err).Fatal("failed to init GCS client")
		}
		defer func() { _ = gcsClient.Close() }()
		container.SetGCS(gcsClient)
	}

	// Elasticsearch for product search; optional
	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		logger.WithError(err).Fatal("failed to init elasticsearch client")
	}
	container.SetES(es)

	container.SetJWT(helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL))

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
		container.SetMetrics(m)
	}

	// Email jobs go to RabbitMQ for cmd/email_worker; without a broker they are only logged
	if cfg.MailSendEnabled && cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Fatal("failed to init email publisher")
		}
		defer pub.Close()
		container.SetMailQueue(mailer.NewRabbitQueue(pub))
	} else {
		container.SetMailQueue(mailer.NewLogQueue(logger))
	}

	dispatcher, closeAuditPub := newAuditDispatcher(cfg, logger, m)
	defer closeAuditPub()
	container.SetAuditSink(dispatcher)

	svcs := router.BuildServices()

	// Background jobs
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.TokenPurgeSchedule, func() {
		n, err := svcs.Verification.PurgeExpired(context.Background())
		if err != nil {
			logger.WithError(err).Error("purge expired verification tokens failed")
			return
		}
		logger.WithField("deleted", n).Info("purged expired verification tokens")
	}); err != nil {
		logger.WithError(err).Fatal("invalid TOKEN_PURGE_SCHEDULE")
	}
	scheduler.Start()

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.New(corsCfg))
	if m != nil {
		r.Use(m.Middleware())
	}
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	reg.Use(middleware.RateLimit(container.GetRedis(), 1000, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP()))
	router.InitModules(reg, svcs)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}
	<-scheduler.Stop().Done()
	if err := dispatcher.Close(ctxShutdown); err != nil {
		logger.WithError(err).Warn("audit entries lost on shutdown")
	}
	logger.Info("server exited properly")
}

// newAuditDispatcher writes audit entries in-process, or publishes them for
// cmd/audit_worker when AUDIT_TRANSPORT=rabbitmq.
func newAuditDispatcher(cfg *config.Config, logger *logrus.Logger, m *metrics.Metrics) (*audit.Dispatcher, func()) {
	var onDrop func()
	if m != nil {
		onDrop = m.AuditDropped
	}
	var w audit.Writer = audit.RepositoryWriter{Repo: container.GetRepositories().AuditLogs}
	closePub := func() {}
	if cfg.AuditTransport == "rabbitmq" {
		if cfg.RabbitMQURL == "" {
			logger.Fatal("AUDIT_TRANSPORT=rabbitmq requires RABBITMQ_URL")
		}
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQAuditQueue)
		if err != nil {
			logger.WithError(err).Fatal("failed to init audit publisher")
		}
		w = audit.QueueWriter{Pub: pub}
		closePub = pub.Close
	}
	logger.WithField("transport", cfg.AuditTransport).Info("audit dispatcher started")
	return audit.NewDispatcher(w, cfg.AuditBufferSize, logger, onDrop), closePub
}
