package model

import "time"

// Offer mirrors the 'offer' table. Offers are promotional discounts created
// by staff; FilmID is nil for storewide offers.
type Offer struct {
	ID              uint64    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DiscountPercent uint8     `json:"discount_percent"`
	FilmID          *uint64   `json:"film_id,omitempty"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	CreatedBy       uint64    `json:"created_by"` // staff id
}
