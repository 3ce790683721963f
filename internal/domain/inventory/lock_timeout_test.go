package inventory_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bagstore/internal/domain/apperr"
	"github.com/your-org/bagstore/internal/domain/inventory"
	"github.com/your-org/bagstore/internal/testutil"
	"gorm.io/gorm"
)

// failBagLocks makes every locking read of bags fail with pgErr
func failBagLocks(t *testing.T, db *gorm.DB, pgErr *pgconn.PgError) {
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register("test:fail_bag_locks", func(d *gorm.DB) {
		if _, ok := d.Statement.Clauses["FOR"]; ok && d.Statement.Table == "bags" {
			_ = d.AddError(pgErr)
		}
	}))
}

func TestLockTimeoutIsReported(t *testing.T) {
	db := testutil.OpenDB(t)
	bag := testutil.CreateBag(t, db, 100, 1)
	failBagLocks(t, db, &pgconn.PgError{Code: "55P03", Message: "canceling statement due to lock timeout"})

	_, err := inventory.NewLedger(time.Second).Lock(db, []uint{bag.ID})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrLockTimeout))
	assert.Equal(t, http.StatusServiceUnavailable, apperr.HTTPStatus(err))

	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr))
}

func TestOtherLockErrorsAreNotTimeouts(t *testing.T) {
	db := testutil.OpenDB(t)
	bag := testutil.CreateBag(t, db, 100, 1)
	failBagLocks(t, db, &pgconn.PgError{Code: "40P01", Message: "deadlock detected"})

	_, err := inventory.NewLedger(time.Second).Lock(db, []uint{bag.ID})
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperr.ErrLockTimeout))
	assert.Equal(t, http.StatusInternalServerError, apperr.HTTPStatus(err))
}
