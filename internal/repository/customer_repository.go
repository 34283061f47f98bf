package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/sakilastore/movie-rental/internal/model"
)

// CustomerRepo persists customer rows. Emails are normalized to lower case
// before storage and lookup.
type CustomerRepo struct{ db *sql.DB }

func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// EmailExists reports whether a customer already registered this email.
func (r *CustomerRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM customer WHERE email=?", email).Scan(&n)
	return n > 0, err
}

// CreateTx inserts a customer row within the provided transaction and
// returns its ID. The matching account row must be inserted in the same
// transaction by the caller.
func (r *CustomerRepo) CreateTx(ctx context.Context, tx Tx, firstName, lastName, email string) (uint64, error) {
	stx, err := sqlTx(tx)
	if err != nil {
		return 0, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := stx.ExecContext(ctx,
		"INSERT INTO customer (first_name, last_name, email) VALUES (?,?,?)",
		firstName, lastName, email)
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

// GetByID fetches a customer row.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (model.Customer, error) {
	var c model.Customer
	err := r.db.QueryRowContext(ctx,
		"SELECT id, first_name, last_name, email, created_at FROM customer WHERE id=? LIMIT 1",
		id).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Customer{}, ErrNotFound
	}
	return c, err
}
