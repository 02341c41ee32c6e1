package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/inventory-order-api/config"
	"github.com/oksasatya/inventory-order-api/internal/application"
	"github.com/oksasatya/inventory-order-api/internal/infrastructure/memory"
	"github.com/oksasatya/inventory-order-api/internal/infrastructure/metrics"
	"github.com/oksasatya/inventory-order-api/pkg/helpers"
	"github.com/oksasatya/inventory-order-api/pkg/mailer"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	memStore    *memory.Store
	redisClient *redis.Client
	gcsClient   *storage.Client

	jwtManager *helpers.JWTManager

	esClient  *elasticsearch.Client
	mailQueue mailer.Queue
	auditSink application.AuditSink
	metricSet *metrics.Metrics
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetGCS(s *storage.Client)     { gcsClient = s }
func GetGCS() *storage.Client      { return gcsClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager {
	if jwtManager != nil {
		return jwtManager
	}
	return helpers.DefaultJWT()
}

func SetES(c *elasticsearch.Client) { esClient = c }
func GetES() *elasticsearch.Client  { return esClient }

// GetMemoryStore returns the process-wide in-memory store, creating it on first use.
func GetMemoryStore() *memory.Store {
	if memStore == nil {
		memStore = memory.NewStore()
	}
	return memStore
}

func SetMailQueue(q mailer.Queue) { mailQueue = q }

// GetMailQueue falls back to a logging queue when no broker is configured.
func GetMailQueue() mailer.Queue {
	if mailQueue == nil {
		mailQueue = mailer.NewLogQueue(logger)
	}
	return mailQueue
}

func SetAuditSink(s application.AuditSink) { auditSink = s }
func GetAuditSink() application.AuditSink  { return auditSink }

func SetMetrics(m *metrics.Metrics) { metricSet = m }
func GetMetrics() *metrics.Metrics  { return metricSet }
