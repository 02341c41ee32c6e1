package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/inventory-order-api/internal/application"
	"github.com/oksasatya/inventory-order-api/internal/domain/entity"
)

type AuditHandler struct {
	Svc *application.AuditService
}

func NewAuditHandler(svc *application.AuditService) *AuditHandler {
	return &AuditHandler{Svc: svc}
}

// All GET /api/audit
func (h *AuditHandler) All(c *gin.Context) {
	writeResult(c, h.Svc.All(c.Request.Context()), "audit logs", identity[[]entity.AuditLog])
}

// ByUser GET /api/audit/user/:userId
func (h *AuditHandler) ByUser(c *gin.Context) {
	writeResult(c, h.Svc.ByUser(c.Request.Context(), c.Param("userId")), "audit logs", identity[[]entity.AuditLog])
}

// ByDate GET /api/audit/date/:date (YYYY-MM-DD, UTC)
func (h *AuditHandler) ByDate(c *gin.Context) {
	writeResult(c, h.Svc.ByDate(c.Request.Context(), c.Param("date")), "audit logs", identity[[]entity.AuditLog])
}
