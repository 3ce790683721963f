package summary_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bagstore/internal/domain/apperr"
	"github.com/your-org/bagstore/internal/domain/cart"
	"github.com/your-org/bagstore/internal/domain/catalog"
	"github.com/your-org/bagstore/internal/domain/summary"
	"github.com/your-org/bagstore/internal/testutil"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *cart.Service, *summary.Service) {
	db := testutil.OpenDB(t)
	return db, cart.NewService(db, testutil.Config()), summary.NewService(db)
}

func TestPromoteSnapshotsCart(t *testing.T) {
	db, carts, summaries := setup(t)
	a := testutil.CreateBag(t, db, 100, 10)
	b := testutil.CreateBag(t, db, 40, 10)
	ctx := context.Background()

	_, err := carts.AddItem(ctx, 1, a.ID, 2)
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, 1, b.ID, 1)
	require.NoError(t, err)

	s, err := summaries.Promote(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(240), s.TotalPrice)
	require.Len(t, s.Items, 2)
	assert.Equal(t, a.ID, s.Items[0].BagID)
	assert.Equal(t, 2, s.Items[0].Quantity)
	assert.Equal(t, int64(100), s.Items[0].PriceAtTime)

	// Cart and stock are untouched.
	view, err := carts.View(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, view.Items, 2)
	assert.Equal(t, 10, testutil.BagAmount(t, db, a.ID))
}

func TestPromoteEmptyCart(t *testing.T) {
	_, carts, summaries := setup(t)

	_, err := summaries.Promote(context.Background(), 1)
	assert.True(t, errors.Is(err, apperr.ErrEmptyCart))

	_, err = carts.View(context.Background(), 1)
	require.NoError(t, err)
	_, err = summaries.Promote(context.Background(), 1)
	assert.True(t, errors.Is(err, apperr.ErrEmptyCart))
}

func TestLatestReturnsNewest(t *testing.T) {
	db, carts, summaries := setup(t)
	bag := testutil.CreateBag(t, db, 100, 10)
	ctx := context.Background()

	_, err := carts.AddItem(ctx, 1, bag.ID, 1)
	require.NoError(t, err)
	first, err := summaries.Promote(ctx, 1)
	require.NoError(t, err)

	_, err = carts.AddItem(ctx, 1, bag.ID, 1)
	require.NoError(t, err)
	second, err := summaries.Promote(ctx, 1)
	require.NoError(t, err)

	// Same timestamp must still resolve to the later summary.
	require.NoError(t, db.Model(&summary.OrderSummary{}).
		Where("id IN ?", []uint{first.ID, second.ID}).
		Update("created_at", first.CreatedAt).Error)

	latest, err := summaries.Latest(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, int64(200), latest.TotalPrice)
	require.Len(t, latest.Items, 1)
	require.NotNil(t, latest.Items[0].Bag)
	assert.Equal(t, bag.ID, latest.Items[0].Bag.ID)
}

func TestLatestNone(t *testing.T) {
	_, _, summaries := setup(t)

	_, err := summaries.Latest(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, 404, apperr.HTTPStatus(err))
}

func TestSummaryTotalIgnoresLaterPriceChanges(t *testing.T) {
	db, carts, summaries := setup(t)
	bag := testutil.CreateBag(t, db, 100, 10)
	ctx := context.Background()

	_, err := carts.AddItem(ctx, 1, bag.ID, 3)
	require.NoError(t, err)
	s, err := summaries.Promote(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, db.Model(&catalog.Bag{}).Where("id = ?", bag.ID).Update("price", 1).Error)

	latest, err := summaries.Latest(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, s.TotalPrice, latest.TotalPrice)
	assert.Equal(t, int64(300), latest.TotalPrice)
}

func TestDeleteForCustomer(t *testing.T) {
	db, carts, summaries := setup(t)
	bag := testutil.CreateBag(t, db, 100, 10)
	ctx := context.Background()

	for _, id := range []uint{1, 2} {
		_, err := carts.AddItem(ctx, id, bag.ID, 1)
		require.NoError(t, err)
		_, err = summaries.Promote(ctx, id)
		require.NoError(t, err)
	}

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return summary.DeleteForCustomer(tx, 1)
	}))

	_, err := summaries.Latest(ctx, 1)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	_, err = summaries.Latest(ctx, 2)
	assert.NoError(t, err)

	var items int64
	require.NoError(t, db.Model(&summary.Item{}).Count(&items).Error)
	assert.Equal(t, int64(1), items)
}

func TestPromoteLocksCart(t *testing.T) {
	db, carts, summaries := setup(t)
	bag := testutil.CreateBag(t, db, 100, 10)
	ctx := context.Background()
	_, err := carts.AddItem(ctx, 1, bag.ID, 1)
	require.NoError(t, err)

	var locked []string
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register("test:record_locks", func(d *gorm.DB) {
		if _, ok := d.Statement.Clauses["FOR"]; ok {
			locked = append(locked, d.Statement.Table)
		}
	}))

	_, err = summaries.Promote(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"carts"}, locked)
}
