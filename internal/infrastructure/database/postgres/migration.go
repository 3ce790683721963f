// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bagstore/internal/domain/cart"
	"github.com/your-org/bagstore/internal/domain/catalog"
	"github.com/your-org/bagstore/internal/domain/customer"
	"github.com/your-org/bagstore/internal/domain/inventory"
	"github.com/your-org/bagstore/internal/domain/order"
	"github.com/your-org/bagstore/internal/domain/outbox"
	"github.com/your-org/bagstore/internal/domain/summary"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger *logrus.Logger) *Migration {
	return &Migration{
		db:     db,
		logger: logger,
	}
}

// Models lists every persisted model in dependency order
func Models() []interface{} {
	return []interface{}{
		// Catalog and customers - base tables
		&catalog.Bag{},
		&customer.Customer{},

		// Cart domain
		&cart.Cart{},
		&cart.CartItem{},

		// Staged summaries
		&summary.OrderSummary{},
		&summary.Item{},

		// Order domain - dependent tables
		&order.Order{},
		&order.Item{},
		&order.StatusHistory{},

		// Inventory audit
		&inventory.StockMovement{},

		// Messaging
		&outbox.Event{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("Running database auto-migrations")

	for _, model := range Models() {
		m.logger.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	m.logger.Info("Creating additional database indexes")

	indexes := []string{
		// Catalog
		"CREATE INDEX IF NOT EXISTS idx_bags_size ON bags(size)",
		"CREATE INDEX IF NOT EXISTS idx_bags_brand ON bags(brand)",

		// Summaries: latest-first lookups per customer
		"CREATE INDEX IF NOT EXISTS idx_order_summaries_customer_created ON order_summaries(customer_id, created_at DESC, id DESC)",

		// Orders
		"CREATE INDEX IF NOT EXISTS idx_orders_customer_created ON orders(customer_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",

		// Stock movements
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_reference ON stock_movements(reference_type, reference_id)",

		// Outbox: pending scan
		"CREATE INDEX IF NOT EXISTS idx_outbox_events_pending ON outbox_events(id) WHERE sent_at IS NULL",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).Warnf("Failed to create index: %s", indexSQL)
			continue
		}
	}

	m.logger.Info("Database indexes created successfully")
	return nil
}

// SeedInitialData seeds the catalog for development
func (m *Migration) SeedInitialData() error {
	var count int64
	if err := m.db.Model(&catalog.Bag{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count bags: %w", err)
	}
	if count > 0 {
		m.logger.WithField("bags", count).Info("Catalog already seeded, skipping")
		return nil
	}

	bags := []catalog.Bag{
		{ModelName: "Classic Tote", Brand: "Atelier", Size: catalog.SizeMaxi, Color: catalog.ColorBeige, Fabric: catalog.FabricNaturalLeather, Price: 45000, Amount: 10},
		{ModelName: "City Shopper", Brand: "Atelier", Size: catalog.SizeMidi, Color: catalog.ColorBlack, Fabric: catalog.FabricVeganLeather, Price: 18900, Amount: 25},
		{ModelName: "Evening Clutch", Brand: "Lumen", Size: catalog.SizeMini, Color: catalog.ColorGold, Fabric: catalog.FabricNylon, Price: 12900, Amount: 8},
		{ModelName: "Market Bag", Brand: "Lumen", Size: catalog.SizeMaxi, Color: catalog.ColorGreen, Fabric: catalog.FabricCanvas, Price: 5900, Amount: 40},
		{ModelName: "Crossbody", Brand: "Nord", Size: catalog.SizeMini, Color: catalog.ColorRed, Fabric: catalog.FabricNaturalLeather, Price: 21500, Amount: 3},
	}

	if err := m.db.Create(&bags).Error; err != nil {
		return fmt.Errorf("failed to seed bags: %w", err)
	}

	m.logger.WithField("bags", len(bags)).Info("Catalog seeded")
	return nil
}

// DropAllTables drops every table (use with caution!)
func (m *Migration) DropAllTables() error {
	m.logger.Warn("Dropping all tables")

	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := m.db.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("failed to drop table for %T: %w", models[i], err)
		}
	}
	return nil
}
