package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sakilastore/movie-rental/internal/model"
)

// AccountRepo persists credential records. One account row exists per
// login; a customer row without an account (or vice versa) is an invariant
// violation, which is why registration inserts both inside one transaction.
type AccountRepo struct{ db *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{db: db} }

// BeginTx starts a transaction for multi-repo operations such as
// registration.
func (r *AccountRepo) BeginTx(ctx context.Context) (Tx, error) { return begin(ctx, r.db) }

// GetByUsername fetches an account by its exact username. Returns
// ErrNotFound when no credential record exists.
func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (model.Account, error) {
	username = strings.TrimSpace(username)
	var (
		a          model.Account
		role       string
		customerID sql.NullInt64
		staffID    sql.NullInt64
		createdAt  time.Time
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, role, customer_id, staff_id, created_at FROM account WHERE username=? LIMIT 1",
		username).Scan(&a.ID, &a.Username, &a.PasswordHash, &role, &customerID, &staffID, &createdAt)
	if err == sql.ErrNoRows {
		return model.Account{}, ErrNotFound
	}
	if err != nil {
		return model.Account{}, err
	}
	a.Role = model.Role(role)
	a.CreatedAt = createdAt
	if customerID.Valid {
		id := uint64(customerID.Int64)
		a.CustomerID = &id
	}
	if staffID.Valid {
		id := uint64(staffID.Int64)
		a.StaffID = &id
	}
	return a, nil
}

// UsernameExists reports whether a credential record already uses the
// given username.
func (r *AccountRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM account WHERE username=?", strings.TrimSpace(username)).Scan(&n)
	return n > 0, err
}

// CreateCustomerTx inserts the credential record for a freshly created
// customer within the provided transaction. Duplicate usernames map to
// ErrDuplicate as a backstop for the pre-insert existence check.
func (r *AccountRepo) CreateCustomerTx(ctx context.Context, tx Tx, username, passwordHash string, customerID uint64) (uint64, error) {
	stx, err := sqlTx(tx)
	if err != nil {
		return 0, err
	}
	res, err := stx.ExecContext(ctx,
		"INSERT INTO account (username, password_hash, role, customer_id) VALUES (?,?,?,?)",
		username, passwordHash, string(model.RoleCustomer), customerID)
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

// CreateStaff inserts a credential record for a staff or admin account.
// Used by the admin staff-management pages, outside any wider transaction.
func (r *AccountRepo) CreateStaff(ctx context.Context, username, passwordHash string, role model.Role, staffID uint64) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO account (username, password_hash, role, staff_id) VALUES (?,?,?,?)",
		username, passwordHash, string(role), staffID)
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
