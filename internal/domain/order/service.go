// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/bagstore/internal/domain/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service handles order reads and fulfillment status updates. Orders are
// created only by checkout.
type Service struct {
	db *gorm.DB
}

// NewService creates a new order service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListRequest represents order list query parameters
type ListRequest struct {
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=20"`
	Status Status `form:"status"`
}

// ListResponse represents a page of orders
type ListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// Get returns the customer's order. Orders of other customers are reported as
// not found.
func (s *Service) Get(ctx context.Context, customerID, orderID uint) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Bag").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ? AND customer_id = ?", orderID, customerID).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("order.get", "order", orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

// GetByID returns an order regardless of owner
func (s *Service) GetByID(ctx context.Context, orderID uint) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Bag").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&o, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("order.get_by_id", "order", orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

// List returns the customer's orders, newest first
func (s *Service) List(ctx context.Context, customerID uint, req *ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.WithContext(ctx).Model(&Order{}).Where("customer_id = ?", customerID)
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	offset := (req.Page - 1) * req.Limit
	if err := query.Preload("Items").
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(req.Limit).
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ListResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// UpdateStatus moves an order to status and records the change. Illegal
// transitions fail with ErrInvalidTransition; repeating the current status is
// a no-op so redelivered fulfillment events are harmless.
func (s *Service) UpdateStatus(ctx context.Context, orderID uint, status Status, comment string) (*Order, error) {
	const op = "order.update_status"

	if !status.Valid() {
		return nil, apperr.New(op, apperr.ErrInvalidTransition, "unknown order status %q", status)
	}

	var updated Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&updated, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound(op, "order", orderID)
			}
			return fmt.Errorf("failed to load order: %w", err)
		}

		if updated.Status == status {
			return nil
		}
		if !updated.Status.CanTransitionTo(status) {
			return apperr.New(op, apperr.ErrInvalidTransition,
				"cannot move order %d from %s to %s", orderID, updated.Status, status)
		}

		if err := tx.Model(&updated).Update("status", status).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		history := StatusHistory{OrderID: orderID, Status: status, Comment: comment}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, orderID)
}
