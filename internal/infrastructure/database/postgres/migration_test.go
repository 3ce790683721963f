package postgres_test

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bagstore/internal/domain/catalog"
	"github.com/your-org/bagstore/internal/infrastructure/database/postgres"
	"github.com/your-org/bagstore/internal/pkg/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestMigrateSeedAndDrop(t *testing.T) {
	db := openSQLite(t)
	m := postgres.NewMigration(db, logger.Discard())

	require.NoError(t, m.RunAutoMigrations())
	require.NoError(t, m.CreateIndexes())

	for _, model := range postgres.Models() {
		assert.True(t, db.Migrator().HasTable(model), "%T", model)
	}

	require.NoError(t, m.SeedInitialData())
	var count int64
	require.NoError(t, db.Model(&catalog.Bag{}).Count(&count).Error)
	assert.Equal(t, int64(5), count)

	// Seeding twice keeps the catalog as is.
	require.NoError(t, m.SeedInitialData())
	require.NoError(t, db.Model(&catalog.Bag{}).Count(&count).Error)
	assert.Equal(t, int64(5), count)

	require.NoError(t, m.DropAllTables())
	assert.False(t, db.Migrator().HasTable(&catalog.Bag{}))
}

func TestBagConstraints(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, postgres.NewMigration(db, logger.Discard()).RunAutoMigrations())

	bag := catalog.Bag{ModelName: "x", Brand: "y", Price: 10, Amount: 1}
	require.NoError(t, db.Create(&bag).Error)

	assert.Error(t, db.Model(&bag).Update("amount", -1).Error)
	assert.Error(t, db.Create(&catalog.Bag{ModelName: "x", Brand: "y", Price: 0}).Error)
}
