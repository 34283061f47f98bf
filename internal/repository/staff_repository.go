package repository

import (
	"context"
	"database/sql"

	"github.com/sakilastore/movie-rental/internal/model"
)

// StaffRepo persists staff rows for the admin management pages.
type StaffRepo struct{ db *sql.DB }

func NewStaffRepo(db *sql.DB) *StaffRepo { return &StaffRepo{db: db} }

// List returns all staff members ordered by last name.
func (r *StaffRepo) List(ctx context.Context) ([]model.Staff, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, first_name, last_name, email, active FROM staff ORDER BY last_name, first_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	staff := make([]model.Staff, 0)
	for rows.Next() {
		var s model.Staff
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.Active); err != nil {
			return nil, err
		}
		staff = append(staff, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return staff, nil
}

// Create inserts a staff row and returns its ID.
func (r *StaffRepo) Create(ctx context.Context, s model.Staff) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO staff (first_name, last_name, email, active) VALUES (?,?,?,?)",
		s.FirstName, s.LastName, s.Email, s.Active)
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

// Update rewrites a staff row. Returns ErrNotFound when no row matched.
func (r *StaffRepo) Update(ctx context.Context, s model.Staff) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE staff SET first_name=?, last_name=?, email=?, active=? WHERE id=?",
		s.FirstName, s.LastName, s.Email, s.Active, s.ID)
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

// Deactivate flips the active flag off instead of deleting; staff ids are
// referenced by historical rentals and payments.
func (r *StaffRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "UPDATE staff SET active=0 WHERE id=? AND active=1", id)
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
