package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bagstore/internal/domain/apperr"
	"github.com/your-org/bagstore/internal/domain/catalog"
	"github.com/your-org/bagstore/internal/testutil"
)

func TestListBagsIsCached(t *testing.T) {
	db := testutil.OpenDB(t)
	mr, client := testutil.Redis(t)
	svc := catalog.NewService(db, client, testutil.Config())
	ctx := context.Background()

	first := testutil.CreateBag(t, db, 100, 5)

	bags, err := svc.ListBags(ctx)
	require.NoError(t, err)
	require.Len(t, bags, 1)
	assert.Equal(t, first.ID, bags[0].ID)
	assert.True(t, mr.Exists("catalog:bags"))

	// Served from cache until invalidated.
	testutil.CreateBag(t, db, 200, 5)
	bags, err = svc.ListBags(ctx)
	require.NoError(t, err)
	assert.Len(t, bags, 1)

	require.NoError(t, svc.InvalidateCache(ctx))
	bags, err = svc.ListBags(ctx)
	require.NoError(t, err)
	assert.Len(t, bags, 2)
}

func TestListBagsWithoutRedis(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := catalog.NewService(db, nil, testutil.Config())
	testutil.CreateBag(t, db, 100, 5)

	bags, err := svc.ListBags(context.Background())
	require.NoError(t, err)
	assert.Len(t, bags, 1)
	assert.NoError(t, svc.InvalidateCache(context.Background()))
}

func TestGetBag(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := catalog.NewService(db, nil, testutil.Config())
	bag := testutil.CreateBag(t, db, 100, 0)

	got, err := svc.GetBag(context.Background(), bag.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test Test Bag", got.DisplayName())
	assert.False(t, got.InStock())

	_, err = svc.GetBag(context.Background(), 404)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestEnumNames(t *testing.T) {
	assert.Equal(t, "maxi", catalog.SizeMaxi.String())
	assert.Equal(t, "mixed", catalog.ColorMixed.String())
	assert.Equal(t, "natural_leather", catalog.FabricNaturalLeather.String())
	assert.Equal(t, "unknown(42)", catalog.Size(42).String())
}
