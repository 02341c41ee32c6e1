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

// ProductModule serves the customer catalogue publicly and product management to admins.
type ProductModule struct {
	Handler *handlers.ProductHandler
	JWT     *helpers.JWTManager
}

func NewProductModule(h *handlers.ProductHandler, jwt *helpers.JWTManager) *ProductModule {
	return &ProductModule{Handler: h, JWT: jwt}
}

func (m *ProductModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	catalog := rg.Group("/products")
	catalog.Use(middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIPAndPath(), nil))
	{
		catalog.GET("", m.Handler.List)
		catalog.GET("/search", m.Handler.Search)
		catalog.GET("/:id", m.Handler.Get)
	}

	admin := rg.Group("/admin/products")
	admin.Use(middleware.Auth(rdb, m.JWT), middleware.RequireRole(entity.RoleAdmin))
	{
		admin.GET("", m.Handler.AdminList)
		admin.GET("/:id", m.Handler.AdminGet)
		admin.POST("", m.Handler.Create)
		admin.PUT("/:id", m.Handler.Update)
		admin.PUT("/:id/stock", m.Handler.UpdateStock)
		admin.DELETE("/:id", m.Handler.Delete)
		admin.POST("/:id/image", m.Handler.UploadImage)
	}
}
