// internal/domain/customer/entity.go
package customer

import (
	"fmt"
	"strings"
	"time"
)

// Customer is the storefront profile attached to an authenticated principal.
// Carts, summaries and orders belong to a Customer, not to the auth user.
type Customer struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Name        string    `gorm:"not null;size:100" json:"name"`
	Surname     string    `gorm:"not null;size:100" json:"surname"`
	Email       string    `gorm:"not null;size:255" json:"email"`
	StreetName  string    `gorm:"not null;size:100" json:"street_name"`
	HomeNr      string    `gorm:"not null;size:10" json:"home_nr"`
	City        string    `gorm:"not null;size:100" json:"city"`
	ZipCode     string    `gorm:"not null;size:6" json:"zip_code"`
	Country     string    `gorm:"not null;size:2" json:"country"`
	PhoneNumber string    `gorm:"not null;size:20" json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Customer) TableName() string {
	return "customers"
}

// Identity is what the auth provider tells us about the caller
type Identity struct {
	UserID   uint
	Username string
	Email    string
	IsStaff  bool
}

// defaultProfile fills the placeholders used until the customer completes
// their address at checkout.
func defaultProfile(id Identity) Customer {
	email := id.Email
	if email == "" {
		email = fmt.Sprintf("%s@example.com", id.Username)
	}
	return Customer{
		UserID:      id.UserID,
		Name:        id.Username,
		Surname:     id.Username,
		Email:       strings.ToLower(email),
		StreetName:  "Not provided",
		HomeNr:      "0",
		City:        "Not provided",
		ZipCode:     "00-000",
		Country:     "US",
		PhoneNumber: "+1234567890",
	}
}
