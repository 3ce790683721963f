// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bagstore/internal/config"
	"github.com/your-org/bagstore/internal/domain/cart"
	"github.com/your-org/bagstore/internal/domain/catalog"
	"github.com/your-org/bagstore/internal/domain/checkout"
	"github.com/your-org/bagstore/internal/domain/customer"
	"github.com/your-org/bagstore/internal/domain/inventory"
	"github.com/your-org/bagstore/internal/domain/order"
	"github.com/your-org/bagstore/internal/domain/summary"
	"github.com/your-org/bagstore/internal/interfaces/http/handlers"
	"github.com/your-org/bagstore/internal/interfaces/http/middleware"
	"github.com/your-org/bagstore/internal/pkg/idempotency"
	"github.com/your-org/bagstore/internal/pkg/metrics"
	"gorm.io/gorm"
)

// SetupCatalogRoutes sets up the public catalog routes
func SetupCatalogRoutes(rg *gin.RouterGroup, catalogService *catalog.Service, log *logrus.Logger) {
	catalogHandler := handlers.NewCatalogHandler(catalogService, log)

	bags := rg.Group("/bags")
	{
		bags.GET("", catalogHandler.ListBags)
		bags.GET("/:id", catalogHandler.GetBag)
	}
}

// SetupCartRoutes sets up cart routes
func SetupCartRoutes(rg *gin.RouterGroup, customers *customer.Service, cartService *cart.Service, cfg *config.Config, log *logrus.Logger, m *metrics.Metrics) {
	cartHandler := handlers.NewCartHandler(customers, cartService, log, m)

	carts := rg.Group("/cart")
	carts.Use(middleware.AuthMiddleware(cfg))
	{
		carts.GET("", cartHandler.GetCart)
		carts.POST("/items", cartHandler.AddToCart)
		carts.DELETE("/items/:bag_id", cartHandler.RemoveFromCart)
	}
}

// SetupCheckoutRoutes sets up order summary and checkout routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, customers *customer.Service, summaries *summary.Service, checkoutService *checkout.Service, store *idempotency.Store, cfg *config.Config, log *logrus.Logger) {
	summaryHandler := handlers.NewSummaryHandler(customers, summaries, log)
	checkoutHandler := handlers.NewCheckoutHandler(customers, checkoutService, store, log)

	protected := rg.Group("")
	protected.Use(middleware.AuthMiddleware(cfg))
	{
		protected.POST("/order-summary", summaryHandler.CreateSummary)
		protected.GET("/order-summary", summaryHandler.GetSummary)
		protected.POST("/checkout", checkoutHandler.Checkout)
	}
}

// SetupOrderRoutes sets up order history routes
func SetupOrderRoutes(rg *gin.RouterGroup, customers *customer.Service, orders *order.Service, cfg *config.Config, log *logrus.Logger) {
	orderHandler := handlers.NewOrderHandler(customers, orders, log)

	ordersGroup := rg.Group("/orders")
	ordersGroup.Use(middleware.AuthMiddleware(cfg))
	{
		ordersGroup.GET("", orderHandler.GetOrders)
		ordersGroup.GET("/:id", orderHandler.GetOrder)
	}
}

// SetupRoutes builds the services and registers every API route
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger, m *metrics.Metrics) {
	catalogService := catalog.NewService(db, redisClient, cfg)
	customers := customer.NewService(db)
	ledger := inventory.NewLedger(cfg.Store.LockTimeout)
	checkoutService := checkout.NewService(db, ledger, catalogService, cfg, log, m)
	store := idempotency.NewStore(redisClient, cfg.Store.IdempotencyTTL)

	SetupCatalogRoutes(rg, catalogService, log)
	SetupCartRoutes(rg, customers, cart.NewService(db, cfg), cfg, log, m)
	SetupCheckoutRoutes(rg, customers, summary.NewService(db), checkoutService, store, cfg, log)
	SetupOrderRoutes(rg, customers, order.NewService(db), cfg, log)
}
