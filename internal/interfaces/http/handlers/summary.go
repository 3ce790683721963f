// internal/interfaces/http/handlers/summary.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bagstore/internal/domain/access"
	"github.com/your-org/bagstore/internal/domain/customer"
	"github.com/your-org/bagstore/internal/domain/summary"
)

// SummaryHandler handles the order summary staged before checkout
type SummaryHandler struct {
	principals
	summaries *summary.Service
	logger    *logrus.Logger
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(customers *customer.Service, summaries *summary.Service, logger *logrus.Logger) *SummaryHandler {
	return &SummaryHandler{
		principals: principals{customers: customers},
		summaries:  summaries,
		logger:     logger,
	}
}

// CreateSummary handles POST /order-summary
func (h *SummaryHandler) CreateSummary(c *gin.Context) {
	p, err := h.authorize(c, access.ActionStageSummary, access.Anything)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	s, err := h.summaries.Promote(c.Request.Context(), p.CustomerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order summary created successfully",
		"data":    s,
	})
}

// GetSummary handles GET /order-summary
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	p, err := h.authorize(c, access.ActionViewSummary, access.Anything)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	s, err := h.summaries.Latest(c.Request.Context(), p.CustomerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order summary retrieved successfully",
		"data":    s,
	})
}
