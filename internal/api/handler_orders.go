package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"repair-order-backend/internal/model"
	"repair-order-backend/internal/order"
	"repair-order-backend/internal/store"
)

// ListOrders handles GET /api/repair-orders with optional status and
// priority query filters.
func (h *Handler) ListOrders(c *gin.Context) {
	filter, err := order.ParseFilter(c.Query("status"), c.Query("priority"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	orders, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(orders))
}

// ListLateOrders handles GET /api/repair-orders/late.
func (h *Handler) ListLateOrders(c *gin.Context) {
	orders, err := h.svc.ListLate(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(orders))
}

// GetOrder handles GET /api/repair-orders/:id.
func (h *Handler) GetOrder(c *gin.Context) {
	o, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// CreateOrder handles POST /api/repair-orders.
func (h *Handler) CreateOrder(c *gin.Context) {
	var in order.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	o, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// UpdateOrder handles PUT /api/repair-orders/:id with a partial payload.
func (h *Handler) UpdateOrder(c *gin.Context) {
	var in order.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	o, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// DeleteOrder handles DELETE /api/repair-orders/:id.
func (h *Handler) DeleteOrder(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// renderError maps the service error taxonomy to HTTP responses.
// Storage failures are logged server-side and surfaced opaquely.
func (h *Handler) renderError(c *gin.Context, err error) {
	var verr *order.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "errors": verr.Fields})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "repair order not found"})
	default:
		log.Printf("Error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database operation failed"})
	}
}

// nonNil keeps empty result sets rendering as [] rather than null.
func nonNil(orders []model.RepairOrder) []model.RepairOrder {
	if orders == nil {
		return []model.RepairOrder{}
	}
	return orders
}
