package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Tx is the narrow transaction handle threaded through multi-statement
// operations. *sql.Tx satisfies it; service-layer tests substitute a fake
// so transactional flows can be exercised without a database.
type Tx interface {
	Commit() error
	Rollback() error
}

// errBadTx is returned when a Tx that did not originate from BeginTx is
// passed back into a repository method.
var errBadTx = errors.New("repository: tx is not a *sql.Tx")

func sqlTx(tx Tx) (*sql.Tx, error) {
	stx, ok := tx.(*sql.Tx)
	if !ok {
		return nil, errBadTx
	}
	return stx, nil
}

func begin(ctx context.Context, db *sql.DB) (Tx, error) {
	return db.BeginTx(ctx, nil)
}
