// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bagstore/internal/domain/access"
	"github.com/your-org/bagstore/internal/domain/checkout"
	"github.com/your-org/bagstore/internal/domain/customer"
	"github.com/your-org/bagstore/internal/domain/order"
	"github.com/your-org/bagstore/internal/pkg/idempotency"
)

// CheckoutHandler commits carts into orders
type CheckoutHandler struct {
	principals
	checkout    *checkout.Service
	idempotency *idempotency.Store
	logger      *logrus.Logger
}

// NewCheckoutHandler creates a new checkout handler. store may be nil, in
// which case Idempotency-Key headers are ignored.
func NewCheckoutHandler(customers *customer.Service, checkoutService *checkout.Service, store *idempotency.Store, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		principals:  principals{customers: customers},
		checkout:    checkoutService,
		idempotency: store,
		logger:      logger,
	}
}

// CheckoutResponse is the receipt returned for a committed order
type CheckoutResponse struct {
	OrderID    uint         `json:"order_id"`
	Number     string       `json:"number"`
	TotalPrice int64        `json:"total_price"`
	Status     order.Status `json:"status"`
	Items      []order.Item `json:"items"`
}

// Checkout handles POST /checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	p, err := h.authorize(c, access.ActionCheckout, access.Anything)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	// An empty body means no shipping details.
	var req checkout.CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	key := idempotency.Key(c.Request)
	if h.idempotency == nil {
		key = ""
	}
	if err := idempotency.Validate(key); err != nil {
		respondError(c, h.logger, err)
		return
	}

	ctx := c.Request.Context()
	scope := strconv.FormatUint(uint64(p.CustomerID), 10)

	if key != "" {
		stored, err := h.idempotency.Begin(ctx, scope, key)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		if stored != nil {
			c.Header("Idempotent-Replayed", "true")
			c.Data(stored.Status, "application/json; charset=utf-8", stored.Body)
			return
		}
	}

	o, err := h.checkout.CommitOrderWithShipping(ctx, p.CustomerID, req.Shipping)
	if err != nil {
		if key != "" {
			if abortErr := h.idempotency.Abort(ctx, scope, key); abortErr != nil {
				h.logger.WithError(abortErr).Warn("Failed to release idempotency key")
			}
		}
		respondError(c, h.logger, err)
		return
	}

	body, err := json.Marshal(gin.H{
		"message": "Order placed successfully",
		"data": CheckoutResponse{
			OrderID:    o.ID,
			Number:     o.OrderNumber,
			TotalPrice: o.TotalPrice,
			Status:     o.Status,
			Items:      o.Items,
		},
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if key != "" {
		if err := h.idempotency.Complete(ctx, scope, key, http.StatusCreated, body); err != nil {
			h.logger.WithError(err).WithField("order_id", o.ID).Warn("Failed to store idempotent response")
		}
	}

	c.Data(http.StatusCreated, "application/json; charset=utf-8", body)
}
