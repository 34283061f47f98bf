package queue

// RentalConfirmedEvent is the message published to the rental.confirmed
// queue after a rent commits. Amounts are integer cents.
type RentalConfirmedEvent struct {
	RentalID    uint64 `json:"rental_id"`
	PaymentID   uint64 `json:"payment_id"`
	CustomerID  uint64 `json:"customer_id"`
	FilmID      uint64 `json:"film_id"`
	FilmTitle   string `json:"film_title"`
	InventoryID uint64 `json:"inventory_id"`
	AmountCents uint32 `json:"amount_cents"`
	RentedAt    string `json:"rented_at"` // RFC3339 UTC
}
