package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/inventory-order-api/internal/container"
	"github.com/oksasatya/inventory-order-api/internal/infrastructure/metrics"
	"github.com/oksasatya/inventory-order-api/internal/interface/middleware"
)

type MetricsModule struct {
	Metrics *metrics.Metrics
}

func NewMetricsModule(m *metrics.Metrics) *MetricsModule { return &MetricsModule{Metrics: m} }

func (m *MetricsModule) Register(rg *gin.RouterGroup) {
	// Public Prometheus endpoint, rate-limited per IP; private networks bypass
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	rg.GET("/metrics", rl, gin.WrapH(m.Metrics.Handler()))
}
