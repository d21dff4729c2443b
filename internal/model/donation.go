package model

import (
	"strings"
	"time"
)

// DonationStatus is the lifecycle state of a donation posting.
type DonationStatus string

const (
	StatusAvailable DonationStatus = "available"
	StatusClaimed   DonationStatus = "claimed"
	StatusCompleted DonationStatus = "completed"
)

// Valid reports whether s is a known status.
func (s DonationStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusClaimed, StatusCompleted:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next follows the
// forward-only lifecycle available -> claimed -> completed. No state is
// skipped and no transition reverts.
func (s DonationStatus) CanTransition(next DonationStatus) bool {
	switch s {
	case StatusAvailable:
		return next == StatusClaimed
	case StatusClaimed:
		return next == StatusCompleted
	}
	return false
}

// Donation is a food-surplus posting created by a restaurant. ClaimedBy
// is set when an NGO claims it. Optional fields are nil when the client
// did not supply them, never empty strings.
type Donation struct {
	ID              uint64         // donations.id
	RestaurantID    uint64         // donations.restaurant_id
	FoodType        string         // donations.food_type
	FoodDescription string         // donations.food_description
	Quantity        float64        // donations.quantity (> 0)
	QuantityUnit    string         // donations.quantity_unit
	EstimatedMeals  *int           // donations.estimated_meals (nullable)
	PickupDate      string         // donations.pickup_date
	PickupWindow    string         // donations.pickup_window ("<start> - <end>")
	AllergenInfo    *string        // donations.allergen_info (nullable)
	DietaryInfo     *string        // donations.dietary_info (nullable)
	AdditionalInfo  *string        // donations.additional_info (nullable)
	Status          DonationStatus // donations.status
	ClaimedBy       *uint64        // donations.claimed_by (nullable NGO account id)
	CreatedAt       time.Time      // donations.created_at
	UpdatedAt       time.Time      // donations.updated_at
}

// FormatPickupWindow builds the stored pickup window from the start and
// end time strings supplied by the client.
func FormatPickupWindow(start, end string) string {
	return start + " - " + end
}

// Validate checks the fields a restaurant must supply when posting.
func (d *Donation) Validate() error {
	for _, f := range []struct{ name, val string }{
		{"foodType", d.FoodType},
		{"foodDescription", d.FoodDescription},
		{"quantityUnit", d.QuantityUnit},
		{"pickupDate", d.PickupDate},
		{"pickupWindow", d.PickupWindow},
	} {
		if strings.TrimSpace(f.val) == "" {
			return &ValidationError{Field: f.name, Message: f.name + " is required"}
		}
	}
	if d.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Message: "quantity must be a positive number"}
	}
	if d.EstimatedMeals != nil && *d.EstimatedMeals < 0 {
		return &ValidationError{Field: "estimatedMeals", Message: "estimatedMeals must be non-negative"}
	}
	if d.RestaurantID == 0 {
		return &ValidationError{Field: "restaurantId", Message: "restaurantId is required"}
	}
	return nil
}
