package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/inventory-order-api/internal/application"
	"github.com/oksasatya/inventory-order-api/pkg/response"
)

// statusOf maps a result kind onto its HTTP status code.
func statusOf(k application.Kind) int {
	switch k {
	case application.KindOK:
		return http.StatusOK
	case application.KindCreated:
		return http.StatusCreated
	case application.KindBadRequest:
		return http.StatusBadRequest
	case application.KindUnauthorized:
		return http.StatusUnauthorized
	case application.KindForbidden:
		return http.StatusForbidden
	case application.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeResult renders res through view on success, or as an error envelope otherwise.
func writeResult[T, V any](c *gin.Context, res application.Result[T], message string, view func(T) V) {
	status := statusOf(res.Kind())
	if !res.Succeeded() {
		response.Error[any](c, status, res.Message(), nil)
		return
	}
	response.Success(c, status, view(res.Value()), message, nil)
}

func identity[T any](v T) T { return v }
