package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/sakilastore/movie-rental/internal/model"
)

// FilmRepo provides read access to the film catalog and the admin CRUD
// operations over it. The rental engine consumes only the read side.
type FilmRepo struct{ db *sql.DB }

func NewFilmRepo(db *sql.DB) *FilmRepo { return &FilmRepo{db: db} }

// FilmQuery defines filters & pagination for browsing the catalog.
type FilmQuery struct {
	Title    string // substring match, case-insensitive
	Category string // exact category name, case-insensitive
	Rating   string // exact rating (G, PG, ...)
	Page     int
	PageSize int
}

// Search returns one page of films matching the query plus the total match
// count for pagination. Page numbers start at 1; PageSize is clamped to
// [1,100] with a default of 20.
func (r *FilmRepo) Search(ctx context.Context, q FilmQuery) ([]model.Film, int64, error) {
	where := []string{}
	args := []any{}

	if q.Title != "" {
		where = append(where, "LOWER(f.title) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Title)+"%")
	}
	if q.Category != "" {
		where = append(where, "LOWER(c.name) = ?")
		args = append(args, strings.ToLower(q.Category))
	}
	if q.Rating != "" {
		where = append(where, "f.rating = ?")
		args = append(args, strings.ToUpper(q.Rating))
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	base := ` FROM film f JOIN category c ON c.id = f.category_id WHERE ` + cond

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*)"+base, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	query := `SELECT f.id, f.title, f.description, f.rating, f.rental_rate_cents, f.release_year, f.category_id, c.name` +
		base + ` ORDER BY f.title LIMIT ? OFFSET ?`
	args = append(args, size, (page-1)*size)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	films := make([]model.Film, 0)
	for rows.Next() {
		var f model.Film
		if err := rows.Scan(&f.ID, &f.Title, &f.Description, &f.Rating,
			&f.RentalRateCents, &f.ReleaseYear, &f.CategoryID, &f.CategoryName); err != nil {
			return nil, 0, err
		}
		films = append(films, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return films, total, nil
}

// GetByID fetches one film with its category name. Returns ErrNotFound
// when the film does not exist.
func (r *FilmRepo) GetByID(ctx context.Context, id uint64) (model.Film, error) {
	const q = `SELECT f.id, f.title, f.description, f.rating, f.rental_rate_cents, f.release_year, f.category_id, c.name
	           FROM film f JOIN category c ON c.id = f.category_id
	           WHERE f.id = ? LIMIT 1`
	var f model.Film
	err := r.db.QueryRowContext(ctx, q, id).Scan(&f.ID, &f.Title, &f.Description,
		&f.Rating, &f.RentalRateCents, &f.ReleaseYear, &f.CategoryID, &f.CategoryName)
	if err == sql.ErrNoRows {
		return model.Film{}, ErrNotFound
	}
	return f, err
}

// AvailableCopies counts inventory copies of a film with no open rental.
// Used by the catalog pages; the rental engine performs its own claim
// inside a transaction and never trusts this count.
func (r *FilmRepo) AvailableCopies(ctx context.Context, filmID uint64) (int64, error) {
	const q = `SELECT COUNT(*)
	           FROM inventory i
	           WHERE i.film_id = ?
	             AND NOT EXISTS (
	               SELECT 1 FROM rental r
	               WHERE r.inventory_id = i.id AND r.return_date IS NULL)`
	var n int64
	err := r.db.QueryRowContext(ctx, q, filmID).Scan(&n)
	return n, err
}

// Create inserts a film (admin).
func (r *FilmRepo) Create(ctx context.Context, f model.Film) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO film (title, description, rating, rental_rate_cents, release_year, category_id) VALUES (?,?,?,?,?,?)",
		f.Title, f.Description, f.Rating, f.RentalRateCents, f.ReleaseYear, f.CategoryID)
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

// Update rewrites a film row (admin). Returns ErrNotFound when no row was
// touched.
func (r *FilmRepo) Update(ctx context.Context, f model.Film) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE film SET title=?, description=?, rating=?, rental_rate_cents=?, release_year=?, category_id=? WHERE id=?",
		f.Title, f.Description, f.Rating, f.RentalRateCents, f.ReleaseYear, f.CategoryID, f.ID)
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

// Delete removes a film (admin). Films with inventory rows fail the
// foreign-key check and the driver error is returned as-is.
func (r *FilmRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM film WHERE id=?", id)
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
