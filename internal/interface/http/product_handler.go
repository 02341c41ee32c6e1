package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/inventory-order-api/internal/application"
	"github.com/oksasatya/inventory-order-api/internal/interface/middleware"
	"github.com/oksasatya/inventory-order-api/pkg/response"
	"github.com/oksasatya/inventory-order-api/pkg/validation"
)

// maxImageSize bounds multipart image uploads.
const maxImageSize = 5 << 20

type ProductHandler struct {
	Svc    *application.ProductService
	Logger *logrus.Logger
}

func NewProductHandler(svc *application.ProductService, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{Svc: svc, Logger: logger}
}

type createProductRequest struct {
	Name          string          `json:"name" binding:"required,productname"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" binding:"money"`
	StockQuantity int             `json:"stock_quantity" binding:"stock"`
}

type updateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,productname"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" binding:"omitempty,money"`
}

type updateStockRequest struct {
	StockQuantity *int `json:"stock_quantity" binding:"required,stock"`
}

// List GET /api/products
func (h *ProductHandler) List(c *gin.Context) {
	writeResult(c, h.Svc.List(c.Request.Context()), "products", toProductViews)
}

// Get GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	writeResult(c, h.Svc.Get(c.Request.Context(), c.Param("id")), "product", toProductView)
}

// Search GET /api/products/search?q=
func (h *ProductHandler) Search(c *gin.Context) {
	writeResult(c, h.Svc.Search(c.Request.Context(), c.Query("q")), "products", toProductViews)
}

// AdminList GET /api/admin/products
func (h *ProductHandler) AdminList(c *gin.Context) {
	writeResult(c, h.Svc.List(c.Request.Context()), "products", toAdminProductViews)
}

// AdminGet GET /api/admin/products/:id
func (h *ProductHandler) AdminGet(c *gin.Context) {
	writeResult(c, h.Svc.Get(c.Request.Context(), c.Param("id")), "product", toAdminProductView)
}

// Create POST /api/admin/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res := h.Svc.Create(c.Request.Context(), middleware.UserID(c), application.ProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
	})
	writeResult(c, res, "product created", toAdminProductView)
}

// Update PUT /api/admin/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res := h.Svc.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), application.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	writeResult(c, res, "product updated", toAdminProductView)
}

// UpdateStock PUT /api/admin/products/:id/stock
func (h *ProductHandler) UpdateStock(c *gin.Context) {
	var req updateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res := h.Svc.UpdateStock(c.Request.Context(), middleware.UserID(c), c.Param("id"), *req.StockQuantity)
	writeResult(c, res, "stock updated", toAdminProductView)
}

// Delete DELETE /api/admin/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	res := h.Svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	writeResult(c, res, "product deleted", toAdminProductView)
}

// UploadImage POST /api/admin/products/:id/image (multipart form, field "file")
func (h *ProductHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageSize)
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "file is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.Logger.WithError(err).WithField("product_id", c.Param("id")).Error("open uploaded file failed")
		response.Error[any](c, http.StatusBadRequest, "cannot read file", nil)
		return
	}
	defer f.Close()

	res := h.Svc.UploadImage(c.Request.Context(), middleware.UserID(c), c.Param("id"), fh.Filename, fh.Header.Get("Content-Type"), f)
	writeResult(c, res, "image uploaded", toAdminProductView)
}
