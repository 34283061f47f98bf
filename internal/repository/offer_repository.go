package repository

import (
	"context"
	"database/sql"

	"github.com/sakilastore/movie-rental/internal/model"
)

// OfferRepo persists promotional offers created by staff.
type OfferRepo struct{ db *sql.DB }

func NewOfferRepo(db *sql.DB) *OfferRepo { return &OfferRepo{db: db} }

// List returns all offers, newest first.
func (r *OfferRepo) List(ctx context.Context) ([]model.Offer, error) {
	const q = `SELECT id, title, description, discount_percent, film_id, starts_at, ends_at, created_by
	           FROM offer ORDER BY starts_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	offers := make([]model.Offer, 0)
	for rows.Next() {
		var o model.Offer
		var filmID sql.NullInt64
		if err := rows.Scan(&o.ID, &o.Title, &o.Description, &o.DiscountPercent,
			&filmID, &o.StartsAt, &o.EndsAt, &o.CreatedBy); err != nil {
			return nil, err
		}
		if filmID.Valid {
			id := uint64(filmID.Int64)
			o.FilmID = &id
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return offers, nil
}

// Create inserts an offer and returns its ID.
func (r *OfferRepo) Create(ctx context.Context, o model.Offer) (uint64, error) {
	var filmID any
	if o.FilmID != nil {
		filmID = *o.FilmID
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO offer (title, description, discount_percent, film_id, starts_at, ends_at, created_by) VALUES (?,?,?,?,?,?,?)",
		o.Title, o.Description, o.DiscountPercent, filmID, o.StartsAt, o.EndsAt, o.CreatedBy)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Delete removes an offer. Returns ErrNotFound when the id does not exist.
func (r *OfferRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM offer WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
