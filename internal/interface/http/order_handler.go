package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/inventory-order-api/internal/application"
	"github.com/oksasatya/inventory-order-api/internal/interface/middleware"
	"github.com/oksasatya/inventory-order-api/pkg/response"
	"github.com/oksasatya/inventory-order-api/pkg/validation"
)

type OrderHandler struct {
	Svc    *application.OrderService
	Logger *logrus.Logger
}

func NewOrderHandler(svc *application.OrderService, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{Svc: svc, Logger: logger}
}

// Line validation is left to the service so every bad line is reported at once.
// Clients may name the product as productId or product_id.
type orderLineRequest struct {
	ProductID      string `json:"product_id"`
	ProductIDCamel string `json:"productId"`
	Quantity       int    `json:"quantity"`
}

func (l orderLineRequest) productID() string {
	if l.ProductID != "" {
		return l.ProductID
	}
	return l.ProductIDCamel
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Submitted InProgress Completed Cancelled"`
}

// Submit POST /api/orders, body is a JSON array of order lines.
func (h *OrderHandler) Submit(c *gin.Context) {
	var req []orderLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	lines := make([]application.OrderLine, 0, len(req))
	for _, l := range req {
		lines = append(lines, application.OrderLine{ProductID: l.productID(), Quantity: l.Quantity})
	}
	res := h.Svc.Submit(c.Request.Context(), middleware.UserID(c), lines)
	writeResult(c, res, "order submitted", toOrderView)
}

// Get GET /api/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	res := h.Svc.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	writeResult(c, res, "order", toOrderView)
}

// History GET /api/orders/user/all
func (h *OrderHandler) History(c *gin.Context) {
	res := h.Svc.History(c.Request.Context(), middleware.UserID(c))
	writeResult(c, res, "orders", toOrderViews)
}

// Cancel PUT /api/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	res := h.Svc.Cancel(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	writeResult(c, res, "order cancelled", toOrderView)
}

// ListAll GET /api/admin/orders
func (h *OrderHandler) ListAll(c *gin.Context) {
	writeResult(c, h.Svc.ListAll(c.Request.Context()), "orders", toOrderViews)
}

// UpdateStatus PUT /api/admin/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res := h.Svc.UpdateStatus(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Status)
	writeResult(c, res, "order status updated", toOrderView)
}
