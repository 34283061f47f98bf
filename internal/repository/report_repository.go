package repository

import (
	"context"
	"database/sql"
	"time"
)

// ReportRepo runs the read-only spending projections shown to customers.
type ReportRepo struct{ db *sql.DB }

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

// SpendingRow is one payment line in the customer spending report.
type SpendingRow struct {
	FilmTitle   string    `json:"film_title"`
	AmountCents uint32    `json:"amount_cents"`
	PaymentDate time.Time `json:"payment_date"`
}

// SpendingByCustomer returns every payment the customer has made, newest
// first, plus the total. Payments are append-only, so cancelled rentals
// still appear here.
func (r *ReportRepo) SpendingByCustomer(ctx context.Context, customerID uint64) ([]SpendingRow, uint64, error) {
	const q = `SELECT f.title, p.amount_cents, p.payment_date
	           FROM payment p
	           JOIN rental r ON r.id = p.rental_id
	           JOIN inventory i ON i.id = r.inventory_id
	           JOIN film f ON f.id = i.film_id
	           WHERE p.customer_id = ?
	           ORDER BY p.payment_date DESC`
	rows, err := r.db.QueryContext(ctx, q, customerID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]SpendingRow, 0)
	var total uint64
	for rows.Next() {
		var s SpendingRow
		if err := rows.Scan(&s.FilmTitle, &s.AmountCents, &s.PaymentDate); err != nil {
			return nil, 0, err
		}
		total += uint64(s.AmountCents)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
