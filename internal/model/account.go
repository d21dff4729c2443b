package model

import (
	"strings"
	"time"
)

// Role distinguishes the two kinds of accounts the platform serves.
type Role string

const (
	RoleRestaurant Role = "restaurant"
	RoleNGO        Role = "ngo"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleRestaurant || r == RoleNGO
}

// MinPasswordLen is the minimum length of a raw password before hashing.
const MinPasswordLen = 6

// RestaurantProfile carries the fields required only for restaurant accounts.
type RestaurantProfile struct {
	RestaurantType string `json:"restaurantType"`
	OperatingHours string `json:"operatingHours"`
}

// NGOProfile carries the fields required only for NGO accounts.
type NGOProfile struct {
	NGOType             string `json:"ngoType"`
	ServiceArea         string `json:"serviceArea"`
	BeneficiariesServed int    `json:"beneficiariesServed"`
}

// Account is a registered restaurant or NGO. Exactly one of the two
// profile pointers is set, matching Role. The email is stored
// lowercased and is unique across all accounts regardless of role.
type Account struct {
	ID           uint64             // accounts.id
	Name         string             // accounts.name
	Email        string             // accounts.email (lowercased)
	PasswordHash string             // accounts.password_hash (bcrypt)
	Role         Role               // accounts.role
	Phone        string             // accounts.phone
	Address      string             // accounts.address
	City         string             // accounts.city
	ZipCode      string             // accounts.zip_code
	Restaurant   *RestaurantProfile // role = restaurant
	NGO          *NGOProfile        // role = ngo
	CreatedAt    time.Time          // accounts.created_at
	UpdatedAt    time.Time          // accounts.updated_at
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePassword checks the raw (pre-hash) password policy.
func ValidatePassword(raw string) error {
	if len(raw) < MinPasswordLen {
		return &ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}
	return nil
}

// Validate checks the base fields and the role-conditional profile.
// The profile for the other role must be absent; this keeps the record
// a proper tagged union instead of a bag of optional columns.
func (a *Account) Validate() error {
	for _, f := range []struct{ name, val string }{
		{"name", a.Name},
		{"email", a.Email},
		{"phone", a.Phone},
		{"address", a.Address},
		{"city", a.City},
		{"zipCode", a.ZipCode},
	} {
		if strings.TrimSpace(f.val) == "" {
			return &ValidationError{Field: f.name, Message: f.name + " is required"}
		}
	}
	if !a.Role.Valid() {
		return &ValidationError{Field: "role", Message: "role must be restaurant or ngo"}
	}
	switch a.Role {
	case RoleRestaurant:
		if a.NGO != nil {
			return &ValidationError{Field: "role", Message: "ngo fields not allowed for restaurant accounts"}
		}
		if a.Restaurant == nil {
			return &ValidationError{Field: "restaurantType", Message: "restaurant fields are required"}
		}
		if strings.TrimSpace(a.Restaurant.RestaurantType) == "" {
			return &ValidationError{Field: "restaurantType", Message: "restaurantType is required"}
		}
		if strings.TrimSpace(a.Restaurant.OperatingHours) == "" {
			return &ValidationError{Field: "operatingHours", Message: "operatingHours is required"}
		}
	case RoleNGO:
		if a.Restaurant != nil {
			return &ValidationError{Field: "role", Message: "restaurant fields not allowed for ngo accounts"}
		}
		if a.NGO == nil {
			return &ValidationError{Field: "ngoType", Message: "ngo fields are required"}
		}
		if strings.TrimSpace(a.NGO.NGOType) == "" {
			return &ValidationError{Field: "ngoType", Message: "ngoType is required"}
		}
		if strings.TrimSpace(a.NGO.ServiceArea) == "" {
			return &ValidationError{Field: "serviceArea", Message: "serviceArea is required"}
		}
		if a.NGO.BeneficiariesServed < 0 {
			return &ValidationError{Field: "beneficiariesServed", Message: "beneficiariesServed must be non-negative"}
		}
	}
	return nil
}
