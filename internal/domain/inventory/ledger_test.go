package inventory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bagstore/internal/domain/apperr"
	"github.com/your-org/bagstore/internal/domain/catalog"
	"github.com/your-org/bagstore/internal/domain/inventory"
	"github.com/your-org/bagstore/internal/testutil"
	"gorm.io/gorm"
)

func TestReserveCheck(t *testing.T) {
	ledger := inventory.NewLedger(time.Second)
	bag := &catalog.Bag{ID: 1, Amount: 3}

	assert.True(t, ledger.ReserveCheck(bag, 1))
	assert.True(t, ledger.ReserveCheck(bag, 3))
	assert.False(t, ledger.ReserveCheck(bag, 4))
}

func TestLockReturnsEveryDistinctBag(t *testing.T) {
	db := testutil.OpenDB(t)
	a := testutil.CreateBag(t, db, 100, 5)
	b := testutil.CreateBag(t, db, 200, 2)
	ledger := inventory.NewLedger(time.Second)

	err := db.Transaction(func(tx *gorm.DB) error {
		locked, err := ledger.Lock(tx, []uint{b.ID, a.ID, b.ID})
		require.NoError(t, err)
		require.Len(t, locked, 2)
		assert.Equal(t, 5, locked[a.ID].Amount)
		assert.Equal(t, 2, locked[b.ID].Amount)
		return nil
	})
	require.NoError(t, err)
}

func TestLockUnknownBag(t *testing.T) {
	db := testutil.OpenDB(t)
	a := testutil.CreateBag(t, db, 100, 5)
	ledger := inventory.NewLedger(time.Second)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := ledger.Lock(tx, []uint{a.ID, 9999})
		return err
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestDecrement(t *testing.T) {
	db := testutil.OpenDB(t)
	bag := testutil.CreateBag(t, db, 100, 5)
	ledger := inventory.NewLedger(time.Second)

	err := db.Transaction(func(tx *gorm.DB) error {
		locked, err := ledger.Lock(tx, []uint{bag.ID})
		if err != nil {
			return err
		}
		return ledger.Decrement(tx, locked[bag.ID], 2, inventory.Reference{Type: "order", ID: 42})
	})
	require.NoError(t, err)
	assert.Equal(t, 3, testutil.BagAmount(t, db, bag.ID))

	var movements []inventory.StockMovement
	require.NoError(t, db.Where("bag_id = ?", bag.ID).Find(&movements).Error)
	require.Len(t, movements, 1)
	assert.Equal(t, inventory.ReasonSale, movements[0].Reason)
	assert.Equal(t, -2, movements[0].Quantity)
	assert.Equal(t, 5, movements[0].PreviousQuantity)
	assert.Equal(t, 3, movements[0].NewQuantity)
	assert.Equal(t, uint(42), movements[0].ReferenceID)
}

func TestDecrementToZero(t *testing.T) {
	db := testutil.OpenDB(t)
	bag := testutil.CreateBag(t, db, 100, 2)
	ledger := inventory.NewLedger(time.Second)

	err := db.Transaction(func(tx *gorm.DB) error {
		locked, err := ledger.Lock(tx, []uint{bag.ID})
		if err != nil {
			return err
		}
		return ledger.Decrement(tx, locked[bag.ID], 2, inventory.Reference{Type: "order", ID: 1})
	})
	require.NoError(t, err)
	assert.Equal(t, 0, testutil.BagAmount(t, db, bag.ID))
}

func TestDecrementInsufficientStockLeavesAmount(t *testing.T) {
	db := testutil.OpenDB(t)
	bag := testutil.CreateBag(t, db, 100, 1)
	ledger := inventory.NewLedger(time.Second)

	err := db.Transaction(func(tx *gorm.DB) error {
		locked, err := ledger.Lock(tx, []uint{bag.ID})
		if err != nil {
			return err
		}
		return ledger.Decrement(tx, locked[bag.ID], 2, inventory.Reference{Type: "order", ID: 1})
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInsufficientStock))

	var stockErr *apperr.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, bag.ID, stockErr.BagID)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 1, testutil.BagAmount(t, db, bag.ID))

	var count int64
	require.NoError(t, db.Model(&inventory.StockMovement{}).Count(&count).Error)
	assert.Zero(t, count)
}
