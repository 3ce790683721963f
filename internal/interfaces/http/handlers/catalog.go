// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bagstore/internal/domain/catalog"
)

// CatalogHandler serves the public bag catalog
type CatalogHandler struct {
	catalog *catalog.Service
	logger  *logrus.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *catalog.Service, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalogService, logger: logger}
}

// ListBags handles GET /bags
func (h *CatalogHandler) ListBags(c *gin.Context) {
	bags, err := h.catalog.ListBags(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bags retrieved successfully",
		"data":    bags,
	})
}

// GetBag handles GET /bags/:id
func (h *CatalogHandler) GetBag(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	bag, err := h.catalog.GetBag(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bag retrieved successfully",
		"data":    bag,
	})
}
