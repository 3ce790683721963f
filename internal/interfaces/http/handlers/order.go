// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bagstore/internal/domain/access"
	"github.com/your-org/bagstore/internal/domain/customer"
	"github.com/your-org/bagstore/internal/domain/order"
)

// OrderHandler handles order history endpoints
type OrderHandler struct {
	principals
	orders *order.Service
	logger *logrus.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(customers *customer.Service, orders *order.Service, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		principals: principals{customers: customers},
		orders:     orders,
		logger:     logger,
	}
}

// GetOrders handles GET /orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	p, err := h.authorize(c, access.ActionListOrders, access.Anything)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req order.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.orders.List(c.Request.Context(), p.CustomerID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    resp,
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	p, err := h.resolve(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	o, err := h.orders.GetByID(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	res := access.Resource{Kind: "order", ID: o.ID, OwnerID: o.CustomerID}
	if err := access.Authorize(p, access.ActionViewOrder, res); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}
