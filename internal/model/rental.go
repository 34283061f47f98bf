package model

import "time"

// Rental mirrors the 'rental' table. ReturnDate is nil while the copy is
// checked out; exactly one open rental may reference an inventory copy.
type Rental struct {
	ID          uint64     `json:"id"`
	InventoryID uint64     `json:"inventory_id"`
	CustomerID  uint64     `json:"customer_id"`
	StaffID     uint64     `json:"staff_id"`
	RentalDate  time.Time  `json:"rental_date"`
	ReturnDate  *time.Time `json:"return_date,omitempty"`
}

// Open reports whether the rental has not been returned yet.
func (r Rental) Open() bool { return r.ReturnDate == nil }

// Payment mirrors the 'payment' table. Payments are append-only: cancelling
// a rental never deletes or mutates its payment.
type Payment struct {
	ID          uint64    `json:"id"`
	CustomerID  uint64    `json:"customer_id"`
	StaffID     uint64    `json:"staff_id"`
	RentalID    uint64    `json:"rental_id"`
	AmountCents uint32    `json:"amount_cents"`
	PaymentDate time.Time `json:"payment_date"`
}

// ActiveRental is the dashboard row for a customer's open rental, joined
// with film information.
type ActiveRental struct {
	RentalID   uint64    `json:"rental_id"`
	FilmID     uint64    `json:"film_id"`
	FilmTitle  string    `json:"film_title"`
	RentalDate time.Time `json:"rental_date"`
}
