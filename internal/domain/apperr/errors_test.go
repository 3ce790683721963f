package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid quantity", InvalidQuantity("cart.add_item", 7, 5), http.StatusBadRequest},
		{"out of stock", OutOfStock(1, 2, 1), http.StatusConflict},
		{"insufficient stock", &StockError{Kind: ErrInsufficientStock, BagID: 1}, http.StatusConflict},
		{"empty cart", fmt.Errorf("checkout: %w", ErrEmptyCart), http.StatusUnprocessableEntity},
		{"not found", NotFound("order.get", "order", 9), http.StatusNotFound},
		{"lock timeout", LockTimeout("inventory.lock", errors.New("55P03")), http.StatusServiceUnavailable},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestStockError_MatchesOutOfStock(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &StockError{Kind: ErrInsufficientStock, BagID: 3, Requested: 2, Available: 1})

	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.True(t, errors.Is(err, ErrOutOfStock))
	assert.False(t, errors.Is(err, ErrNotFound))

	var stockErr *StockError
	assert.True(t, errors.As(err, &stockErr))
	assert.Equal(t, uint(3), stockErr.BagID)
}

func TestOutOfStock_ClampsAvailable(t *testing.T) {
	err := OutOfStock(1, 3, -2)
	assert.Equal(t, 0, err.Available)
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Not enough bags in stock. Available: 1.", PublicMessage(OutOfStock(4, 2, 1)))
	assert.Equal(t, "bag 2 not found", PublicMessage(NotFound("catalog.get", "bag", 2)))
	assert.Equal(t, "An internal error occurred. Please try again later.", PublicMessage(errors.New("pq: relation missing")))
	assert.Equal(t, "cart is empty", PublicMessage(ErrEmptyCart))
}

func TestError_Wrapping(t *testing.T) {
	cause := errors.New("deadline")
	err := LockTimeout("inventory.lock", cause)

	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "inventory.lock")
}
