// Package rental implements the state transitions for inventory copies:
// Available -> Rented on rent, Rented -> Available on cancel. Correctness
// is delegated entirely to the database: the copy claim row-locks one free
// copy inside the rent transaction, and cancel is a single conditional
// UPDATE. The engine holds no in-memory rental state between calls.
package rental

import (
	"context"
	"errors"
	"time"

	"github.com/sakilastore/movie-rental/internal/repository"
)

// ErrCode identifies a business-rule failure for handler translation.
type ErrCode string

const (
	CodeFilmNotFound      ErrCode = "FILM_NOT_FOUND"
	CodeNoAvailableCopies ErrCode = "NO_AVAILABLE_COPIES"
	CodeRentalNotOpen     ErrCode = "RENTAL_NOT_OPEN"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts the business error code from err, or "" for unexpected
// errors that should propagate to the top-level handler.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Created reports the rows written by a successful rent.
type Created struct {
	RentalID    uint64
	PaymentID   uint64
	InventoryID uint64
	AmountCents uint32
	RentedAt    time.Time
}

// Repo is the persistence the engine drives. RentalRepo implements it over
// MySQL; tests substitute a stateful fake.
type Repo interface {
	BeginTx(ctx context.Context) (repository.Tx, error)
	FilmRateTx(ctx context.Context, tx repository.Tx, filmID uint64) (uint32, error)
	ClaimAvailableCopyTx(ctx context.Context, tx repository.Tx, filmID uint64) (uint64, error)
	CreateTx(ctx context.Context, tx repository.Tx, inventoryID, customerID, staffID uint64) (uint64, error)
	CreatePaymentTx(ctx context.Context, tx repository.Tx, customerID, staffID, rentalID uint64, amountCents uint32) (uint64, error)
	CloseOpenRental(ctx context.Context, customerID, rentalID uint64) (bool, error)
}

// Engine executes the rent and cancel transitions.
type Engine struct {
	repo    Repo
	staffID uint64 // system staff stamped on storefront rentals
}

// NewEngine constructs the engine. staffID is the default staff id recorded
// on rentals and payments created through the storefront.
func NewEngine(repo Repo, staffID uint64) *Engine {
	return &Engine{repo: repo, staffID: staffID}
}

// Rent claims a free copy of the film for the customer and records the
// rental together with its payment. The rate read, copy claim and both
// inserts run in one transaction: a failure anywhere rolls everything back,
// so an open rental without a payment can never be observed.
//
// Fails with CodeFilmNotFound when the film does not exist and
// CodeNoAvailableCopies when every copy has an open rental.
func (e *Engine) Rent(ctx context.Context, customerID, filmID uint64) (Created, error) {
	tx, err := e.repo.BeginTx(ctx)
	if err != nil {
		return Created{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rate, err := e.repo.FilmRateTx(ctx, tx, filmID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Created{}, makeErr(CodeFilmNotFound)
		}
		return Created{}, err
	}

	inventoryID, err := e.repo.ClaimAvailableCopyTx(ctx, tx, filmID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Created{}, makeErr(CodeNoAvailableCopies)
		}
		return Created{}, err
	}

	rentalID, err := e.repo.CreateTx(ctx, tx, inventoryID, customerID, e.staffID)
	if err != nil {
		return Created{}, err
	}
	paymentID, err := e.repo.CreatePaymentTx(ctx, tx, customerID, e.staffID, rentalID, rate)
	if err != nil {
		return Created{}, err
	}

	if err := tx.Commit(); err != nil {
		return Created{}, err
	}
	committed = true

	return Created{
		RentalID:    rentalID,
		PaymentID:   paymentID,
		InventoryID: inventoryID,
		AmountCents: rate,
		RentedAt:    time.Now().UTC(),
	}, nil
}

// Cancel returns the customer's rental. The open-check and the write are
// one conditional UPDATE, so cancelling twice (or cancelling someone
// else's rental) affects zero rows and fails with CodeRentalNotOpen. The
// payment is never touched: rentals are not refunded here.
func (e *Engine) Cancel(ctx context.Context, customerID, rentalID uint64) error {
	closed, err := e.repo.CloseOpenRental(ctx, customerID, rentalID)
	if err != nil {
		return err
	}
	if !closed {
		return makeErr(CodeRentalNotOpen)
	}
	return nil
}
