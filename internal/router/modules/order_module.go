package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/inventory-order-api/internal/container"
	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
	handlers "github.com/oksasatya/inventory-order-api/internal/interface/http"
	"github.com/oksasatya/inventory-order-api/internal/interface/middleware"
	"github.com/oksasatya/inventory-order-api/pkg/helpers"
)

type OrderModule struct {
	Handler *handlers.OrderHandler
	JWT     *helpers.JWTManager
}

func NewOrderModule(h *handlers.OrderHandler, jwt *helpers.JWTManager) *OrderModule {
	return &OrderModule{Handler: h, JWT: jwt}
}

func (m *OrderModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	orders := rg.Group("/orders")
	orders.Use(
		middleware.Auth(rdb, m.JWT),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		orders.POST("", m.Handler.Submit)
		orders.GET("/user/all", m.Handler.History)
		orders.GET("/:id", m.Handler.Get)
		orders.PUT("/:id/cancel", m.Handler.Cancel)
	}

	admin := rg.Group("/admin/orders")
	admin.Use(middleware.Auth(rdb, m.JWT), middleware.RequireRole(entity.RoleAdmin))
	{
		admin.GET("", m.Handler.ListAll)
		admin.PUT("/:id/status", m.Handler.UpdateStatus)
	}
}
