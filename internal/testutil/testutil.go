// Package testutil provides storage fixtures for tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bagstore/internal/config"
	"github.com/your-org/bagstore/internal/domain/catalog"
	"github.com/your-org/bagstore/internal/infrastructure/database/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB returns a migrated SQLite database private to the test. A single
// connection is used, so transactions run one at a time.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bagstore.db")
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, model := range postgres.Models() {
		require.NoError(t, db.AutoMigrate(model), "migrate %T", model)
	}
	return db
}

// Redis starts an in-memory Redis server and returns a client for it
func Redis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

// Config returns a configuration with the store defaults
func Config() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "bagstore"
	cfg.App.Environment = "test"
	cfg.Server.RequestTimeout = 5 * time.Second
	cfg.JWT.Secret = "test-secret-key-that-is-long-enough"
	cfg.JWT.AccessTokenExpiry = time.Hour
	cfg.Security.RateLimitPerMinute = 1000
	cfg.Security.CORSAllowedOrigins = []string{"*"}
	cfg.Security.CORSAllowedMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	cfg.Security.CORSAllowedHeaders = []string{"Authorization", "Content-Type", "Idempotency-Key"}
	cfg.Store.MaxQuantityPerAdd = 5
	cfg.Store.LockTimeout = time.Second
	cfg.Store.CatalogCacheTTL = time.Minute
	cfg.Store.IdempotencyTTL = time.Hour
	cfg.Kafka.OrderEventsTopic = "orders.events"
	cfg.Kafka.FulfillmentTopic = "orders.fulfillment"
	cfg.Logging.Level = "error"
	cfg.Logging.Format = "json"
	return cfg
}

// CreateBag inserts a bag with the given price and stock
func CreateBag(t *testing.T, db *gorm.DB, price int64, amount int) *catalog.Bag {
	t.Helper()

	bag := &catalog.Bag{
		ModelName: "Test Bag",
		Brand:     "Test",
		Size:      catalog.SizeMidi,
		Color:     catalog.ColorBlack,
		Fabric:    catalog.FabricCanvas,
		Price:     price,
		Amount:    amount,
	}
	require.NoError(t, db.Create(bag).Error)
	return bag
}

// BagAmount reads a bag's current stock
func BagAmount(t *testing.T, db *gorm.DB, bagID uint) int {
	t.Helper()

	var bag catalog.Bag
	require.NoError(t, db.First(&bag, bagID).Error)
	return bag.Amount
}
