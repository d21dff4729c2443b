// Package queue defines the message payloads exchanged over the broker
// and the publisher/consumer that move them.
package queue

// DonationClaimedEvent is published when an NGO claims a donation. It
// carries enough for downstream consumers to notify or log without
// querying the primary database.
type DonationClaimedEvent struct {
	DonationID   uint64  `json:"donation_id"`
	RestaurantID uint64  `json:"restaurant_id"`
	NGOID        uint64  `json:"ngo_id"`
	FoodType     string  `json:"food_type"`
	Quantity     float64 `json:"quantity"`
	QuantityUnit string  `json:"quantity_unit"`
	PickupDate   string  `json:"pickup_date"`
	PickupWindow string  `json:"pickup_window"`
	ClaimedAt    string  `json:"claimed_at"`
}

// ContactReceivedEvent is published when the contact form is submitted.
type ContactReceivedEvent struct {
	MessageID  uint64 `json:"message_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Subject    string `json:"subject,omitempty"`
	ReceivedAt string `json:"received_at"`
}
