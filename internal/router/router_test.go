package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/inventory-order-api/config"
	"github.com/oksasatya/inventory-order-api/internal/container"
	"github.com/oksasatya/inventory-order-api/internal/infrastructure/metrics"
	"github.com/oksasatya/inventory-order-api/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	container.SetConfig(&config.Config{
		StorageDriver:            container.StorageMemory,
		VerifyTokenTTL:           time.Hour,
		OrderCancellableStatuses: "Submitted,InProgress",
		MetricsEnabled:           true,
	})
	container.SetLogger(helpers.NewDiscardLogger())
	container.SetMetrics(metrics.New())

	r := gin.New()
	reg := NewRegistry(r)
	svcs := BuildServices()
	require.NotNil(t, svcs.Orders)
	InitModules(reg, svcs)
	reg.RegisterAll()
	return r
}

func TestInitModulesRegistersRoutes(t *testing.T) {
	r := newTestEngine(t)
	got := map[string]bool{}
	for _, ri := range r.Routes() {
		got[ri.Method+" "+ri.Path] = true
	}
	for _, want := range []string{
		"POST /api/auth/register",
		"POST /api/auth/login",
		"GET /api/auth/user/verify/:tokenId",
		"GET /api/profile",
		"POST /api/orders",
		"GET /api/orders/:id",
		"GET /api/orders/user/all",
		"PUT /api/orders/:id/cancel",
		"GET /api/admin/orders",
		"PUT /api/admin/orders/:id/status",
		"GET /api/products",
		"GET /api/products/search",
		"GET /api/admin/products",
		"PUT /api/admin/products/:id/stock",
		"POST /api/admin/products/:id/image",
		"GET /api/audit",
		"GET /api/audit/date/:date",
		"GET /api/metrics",
		"GET /api/health",
	} {
		assert.True(t, got[want], want)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "inventory_orders_submitted_total")
}

func TestProtectedRouteRejectsAnonymous(t *testing.T) {
	r := newTestEngine(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/audit", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
