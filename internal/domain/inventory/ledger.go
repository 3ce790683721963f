// internal/domain/inventory/ledger.go
package inventory

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/your-org/bagstore/internal/domain/apperr"
	"github.com/your-org/bagstore/internal/domain/catalog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgreSQL lock_not_available
const pgLockNotAvailable = "55P03"

// Ledger owns the available-stock counter of every bag. Every method that
// takes a *gorm.DB expects to run inside the caller's transaction.
type Ledger struct {
	lockTimeout time.Duration
}

// NewLedger creates a ledger that waits at most lockTimeout for row locks
func NewLedger(lockTimeout time.Duration) *Ledger {
	return &Ledger{lockTimeout: lockTimeout}
}

// Lock takes a row lock on every distinct bag in ids, in ascending id order so
// two checkouts over overlapping bags cannot deadlock. The returned map holds
// the values read under the lock.
func (l *Ledger) Lock(tx *gorm.DB, ids []uint) (map[uint]*catalog.Bag, error) {
	ids = distinctSorted(ids)
	if len(ids) == 0 {
		return map[uint]*catalog.Bag{}, nil
	}

	if err := l.setLockTimeout(tx); err != nil {
		return nil, err
	}

	var bags []catalog.Bag
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&bags).Error
	if err != nil {
		if isLockTimeout(err) {
			return nil, apperr.LockTimeout("inventory.lock", err)
		}
		return nil, fmt.Errorf("failed to lock bags: %w", err)
	}

	locked := make(map[uint]*catalog.Bag, len(bags))
	for i := range bags {
		locked[bags[i].ID] = &bags[i]
	}
	for _, id := range ids {
		if _, ok := locked[id]; !ok {
			return nil, apperr.NotFound("inventory.lock", "bag", id)
		}
	}
	return locked, nil
}

// ReserveCheck reports whether quantity units of bag are available
func (l *Ledger) ReserveCheck(bag *catalog.Bag, quantity int) bool {
	return quantity <= bag.Amount
}

// Decrement removes quantity units from bag. The bag must have been locked by
// Lock in the same transaction. bag.Amount is updated in place.
func (l *Ledger) Decrement(tx *gorm.DB, bag *catalog.Bag, quantity int, ref Reference) error {
	if quantity > bag.Amount {
		return &apperr.StockError{
			Kind:      apperr.ErrInsufficientStock,
			BagID:     bag.ID,
			Requested: quantity,
			Available: bag.Amount,
		}
	}

	previous := bag.Amount
	result := tx.Model(&catalog.Bag{}).
		Where("id = ? AND amount >= ?", bag.ID, quantity).
		Update("amount", gorm.Expr("amount - ?", quantity))
	if result.Error != nil {
		return fmt.Errorf("failed to decrement stock of bag %d: %w", bag.ID, result.Error)
	}
	if result.RowsAffected != 1 {
		// The row changed under us, so the caller did not hold the lock.
		return &apperr.StockError{Kind: apperr.ErrInsufficientStock, BagID: bag.ID, Requested: quantity, Available: previous}
	}
	bag.Amount = previous - quantity

	movement := StockMovement{
		BagID:            bag.ID,
		Reason:           ReasonSale,
		Quantity:         -quantity,
		PreviousQuantity: previous,
		NewQuantity:      bag.Amount,
		ReferenceType:    ref.Type,
		ReferenceID:      ref.ID,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return fmt.Errorf("failed to record stock movement: %w", err)
	}
	return nil
}

// setLockTimeout bounds lock waits for the rest of the transaction. Only
// PostgreSQL supports it; other dialects rely on their own busy handling.
func (l *Ledger) setLockTimeout(tx *gorm.DB) error {
	if l.lockTimeout <= 0 || tx.Dialector.Name() != "postgres" {
		return nil
	}
	stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", l.lockTimeout.Milliseconds())
	if err := tx.Exec(stmt).Error; err != nil {
		return fmt.Errorf("failed to set lock timeout: %w", err)
	}
	return nil
}

func isLockTimeout(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable
}

func distinctSorted(ids []uint) []uint {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
