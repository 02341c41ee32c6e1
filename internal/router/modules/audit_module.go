package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/inventory-order-api/internal/container"
	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
	handlers "github.com/oksasatya/inventory-order-api/internal/interface/http"
	"github.com/oksasatya/inventory-order-api/internal/interface/middleware"
	"github.com/oksasatya/inventory-order-api/pkg/helpers"
)

// AuditModule exposes the audit trail to admins only.
type AuditModule struct {
	Handler *handlers.AuditHandler
	JWT     *helpers.JWTManager
}

func NewAuditModule(h *handlers.AuditHandler, jwt *helpers.JWTManager) *AuditModule {
	return &AuditModule{Handler: h, JWT: jwt}
}

func (m *AuditModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/audit")
	g.Use(middleware.Auth(container.GetRedis(), m.JWT), middleware.RequireRole(entity.RoleAdmin))
	{
		g.GET("", m.Handler.All)
		g.GET("/user/:userId", m.Handler.ByUser)
		g.GET("/date/:date", m.Handler.ByDate)
	}
}
