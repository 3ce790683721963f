// internal/domain/access/policy.go
package access

import (
	"github.com/your-org/bagstore/internal/domain/apperr"
)

// Action is something a caller wants to do
type Action string

const (
	ActionViewCatalog  Action = "catalog:view"
	ActionViewCart     Action = "cart:view"
	ActionEditCart     Action = "cart:edit"
	ActionStageSummary Action = "summary:create"
	ActionViewSummary  Action = "summary:view"
	ActionCheckout     Action = "checkout:commit"
	ActionListOrders   Action = "orders:list"
	ActionViewOrder    Action = "orders:view"
)

// Principal is the resolved caller. CustomerID is zero for anonymous callers.
type Principal struct {
	CustomerID uint
	IsStaff    bool
}

// Authenticated reports whether the caller has a customer profile
func (p Principal) Authenticated() bool {
	return p.CustomerID != 0
}

// Resource is what the action targets. OwnerID is the owning customer, or
// zero for unowned resources such as the catalog or the caller's own cart.
type Resource struct {
	Kind    string
	ID      uint
	OwnerID uint
}

// Anything is the resource for actions that are not about a specific record
var Anything = Resource{}

// shopping actions are for customers; staff accounts manage the store elsewhere.
var shopping = map[Action]bool{
	ActionViewCart:     true,
	ActionEditCart:     true,
	ActionStageSummary: true,
	ActionViewSummary:  true,
	ActionCheckout:     true,
}

// Authorize is the single capability check. It returns nil when allowed,
// ErrUnauthorized for anonymous callers, ErrForbidden for staff trying to
// shop, and ErrNotFound when the resource belongs to another customer so its
// existence is not revealed.
func Authorize(p Principal, action Action, res Resource) error {
	const op = "access.authorize"

	if action == ActionViewCatalog {
		return nil
	}
	if !p.Authenticated() {
		return apperr.New(op, apperr.ErrUnauthorized, "authentication required")
	}

	switch {
	case shopping[action]:
		if p.IsStaff {
			return apperr.New(op, apperr.ErrForbidden, "staff accounts cannot shop")
		}
	case action == ActionListOrders:
	case action == ActionViewOrder:
		if p.IsStaff {
			return nil
		}
	default:
		return apperr.New(op, apperr.ErrForbidden, "action %q is not allowed", action)
	}

	if res.OwnerID != 0 && res.OwnerID != p.CustomerID {
		kind := res.Kind
		if kind == "" {
			kind = "resource"
		}
		return apperr.NotFound(op, kind, res.ID)
	}
	return nil
}
