package model

// Film mirrors the 'film' table. Prices are stored in cents to avoid
// floating point arithmetic on money.
type Film struct {
	ID              uint64 `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Rating          string `json:"rating"` // G, PG, PG-13, R, NC-17
	RentalRateCents uint32 `json:"rental_rate_cents"`
	ReleaseYear     uint16 `json:"release_year"`
	CategoryID      uint64 `json:"category_id"`
	CategoryName    string `json:"category_name,omitempty"`
}

// RentalRate returns the rate in currency units for display.
func (f Film) RentalRate() float64 { return float64(f.RentalRateCents) / 100 }

// InventoryCopy mirrors the 'inventory' table: one rentable unit of a film.
type InventoryCopy struct {
	ID      uint64 `json:"id"`
	FilmID  uint64 `json:"film_id"`
	StoreID uint64 `json:"store_id"`
}
