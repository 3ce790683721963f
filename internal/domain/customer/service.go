// internal/domain/customer/service.go
package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/your-org/bagstore/internal/domain/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service handles customer profiles
type Service struct {
	db *gorm.DB
}

// NewService creates a new customer service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// EnsureProfile returns the profile for the identity, creating it on first
// use. Safe to call on every request and from concurrent requests.
func (s *Service) EnsureProfile(ctx context.Context, id Identity) (*Customer, error) {
	if id.UserID == 0 {
		return nil, apperr.New("customer.ensure_profile", apperr.ErrUnauthorized, "authentication required")
	}

	db := s.db.WithContext(ctx)

	profile := defaultProfile(id)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create customer profile: %w", err)
	}

	var existing Customer
	if err := db.Where("user_id = ?", id.UserID).First(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to load customer profile: %w", err)
	}
	return &existing, nil
}

// GetByUserID returns the profile of an auth user without creating it
func (s *Service) GetByUserID(ctx context.Context, userID uint) (*Customer, error) {
	var c Customer
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("customer.get", "customer for user", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load customer profile: %w", err)
	}
	return &c, nil
}

// ShippingDetails are the contact and address fields a customer may supply
// at checkout. Empty fields keep the stored value.
type ShippingDetails struct {
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Email       string `json:"email"`
	StreetName  string `json:"street_name"`
	HomeNr      string `json:"home_nr"`
	City        string `json:"city"`
	ZipCode     string `json:"zip_code"`
	Country     string `json:"country"`
	PhoneNumber string `json:"phone_number"`
}

func (d *ShippingDetails) updates() map[string]interface{} {
	updates := make(map[string]interface{})
	set := func(column, value string) {
		if value = strings.TrimSpace(value); value != "" {
			updates[column] = value
		}
	}
	set("name", d.Name)
	set("surname", d.Surname)
	set("email", strings.ToLower(d.Email))
	set("street_name", d.StreetName)
	set("home_nr", d.HomeNr)
	set("city", d.City)
	set("zip_code", d.ZipCode)
	set("country", strings.ToUpper(d.Country))
	set("phone_number", d.PhoneNumber)
	return updates
}

// ApplyShipping stores the supplied details on the customer's profile. It runs
// inside the caller's transaction so the profile change commits with the order.
func ApplyShipping(tx *gorm.DB, customerID uint, details *ShippingDetails) error {
	if details == nil {
		return nil
	}
	updates := details.updates()
	if len(updates) == 0 {
		return nil
	}
	result := tx.Model(&Customer{}).Where("id = ?", customerID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update shipping details: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("customer.apply_shipping", "customer", customerID)
	}
	return nil
}
