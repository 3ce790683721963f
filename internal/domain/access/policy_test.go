package access

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/your-org/bagstore/internal/domain/apperr"
)

func TestAuthorize(t *testing.T) {
	customer := Principal{CustomerID: 1}
	staff := Principal{CustomerID: 2, IsStaff: true}
	anonymous := Principal{}
	ownOrder := Resource{Kind: "order", ID: 10, OwnerID: 1}
	otherOrder := Resource{Kind: "order", ID: 11, OwnerID: 3}

	tests := []struct {
		name      string
		principal Principal
		action    Action
		resource  Resource
		want      error
	}{
		{"anonymous browses catalog", anonymous, ActionViewCatalog, Anything, nil},
		{"anonymous cart", anonymous, ActionViewCart, Anything, apperr.ErrUnauthorized},
		{"anonymous checkout", anonymous, ActionCheckout, Anything, apperr.ErrUnauthorized},
		{"customer edits cart", customer, ActionEditCart, Anything, nil},
		{"customer checks out", customer, ActionCheckout, Anything, nil},
		{"customer stages summary", customer, ActionStageSummary, Anything, nil},
		{"customer lists orders", customer, ActionListOrders, Anything, nil},
		{"customer views own order", customer, ActionViewOrder, ownOrder, nil},
		{"customer views other order", customer, ActionViewOrder, otherOrder, apperr.ErrNotFound},
		{"staff cannot shop", staff, ActionCheckout, Anything, apperr.ErrForbidden},
		{"staff cannot edit cart", staff, ActionEditCart, Anything, apperr.ErrForbidden},
		{"staff views any order", staff, ActionViewOrder, otherOrder, nil},
		{"unknown action", customer, Action("bags:delete"), Anything, apperr.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.principal, tt.action, tt.resource)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestAuthorizeHidesForeignResourceAsNotFound(t *testing.T) {
	err := Authorize(Principal{CustomerID: 1}, ActionViewOrder, Resource{Kind: "order", ID: 5, OwnerID: 2})
	assert.Equal(t, 404, apperr.HTTPStatus(err))
	assert.Equal(t, "order 5 not found", apperr.PublicMessage(err))
}
