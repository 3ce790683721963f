// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bagstore/internal/domain/access"
	"github.com/your-org/bagstore/internal/domain/apperr"
	"github.com/your-org/bagstore/internal/domain/cart"
	"github.com/your-org/bagstore/internal/domain/customer"
	"github.com/your-org/bagstore/internal/pkg/metrics"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	principals
	cart    *cart.Service
	logger  *logrus.Logger
	metrics *metrics.Metrics
}

// NewCartHandler creates a new cart handler
func NewCartHandler(customers *customer.Service, cartService *cart.Service, logger *logrus.Logger, m *metrics.Metrics) *CartHandler {
	return &CartHandler{
		principals: principals{customers: customers},
		cart:       cartService,
		logger:     logger,
		metrics:    m,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	p, err := h.authorize(c, access.ActionViewCart, access.Anything)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	view, err := h.cart.View(c.Request.Context(), p.CustomerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    view,
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	p, err := h.authorize(c, access.ActionEditCart, access.Anything)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	view, err := h.cart.AddItem(c.Request.Context(), p.CustomerID, req.BagID, req.Quantity)
	h.metrics.CartAdd(cartOutcome(err))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    view,
	})
}

// RemoveFromCart handles DELETE /cart/items/:bag_id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	p, err := h.authorize(c, access.ActionEditCart, access.Anything)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	bagID, err := parseID(c, "bag_id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	view, err := h.cart.RemoveItem(c.Request.Context(), p.CustomerID, bagID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    view,
	})
}

func cartOutcome(err error) string {
	switch {
	case err == nil:
		return "added"
	case errors.Is(err, apperr.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, apperr.ErrOutOfStock):
		return "out_of_stock"
	case errors.Is(err, apperr.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
