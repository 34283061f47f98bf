package rental

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sakilastore/movie-rental/internal/repository"
)

// fakeTx records commit/rollback so tests can assert transaction outcomes.
type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit() error   { t.committed = true; return nil }
func (t *fakeTx) Rollback() error { t.rolledBack = true; return nil }

// fakeRepo implements Repo with overridable func fields.
type fakeRepo struct {
	tx *fakeTx

	filmRate    func(filmID uint64) (uint32, error)
	claim       func(filmID uint64) (uint64, error)
	create      func(inventoryID, customerID, staffID uint64) (uint64, error)
	payment     func(customerID, staffID, rentalID uint64, amountCents uint32) (uint64, error)
	closeRental func(customerID, rentalID uint64) (bool, error)
}

func (r *fakeRepo) BeginTx(context.Context) (repository.Tx, error) { return r.tx, nil }

func (r *fakeRepo) FilmRateTx(_ context.Context, _ repository.Tx, filmID uint64) (uint32, error) {
	return r.filmRate(filmID)
}

func (r *fakeRepo) ClaimAvailableCopyTx(_ context.Context, _ repository.Tx, filmID uint64) (uint64, error) {
	return r.claim(filmID)
}

func (r *fakeRepo) CreateTx(_ context.Context, _ repository.Tx, inventoryID, customerID, staffID uint64) (uint64, error) {
	return r.create(inventoryID, customerID, staffID)
}

func (r *fakeRepo) CreatePaymentTx(_ context.Context, _ repository.Tx, customerID, staffID, rentalID uint64, amountCents uint32) (uint64, error) {
	return r.payment(customerID, staffID, rentalID, amountCents)
}

func (r *fakeRepo) CloseOpenRental(_ context.Context, customerID, rentalID uint64) (bool, error) {
	return r.closeRental(customerID, rentalID)
}

func happyRepo() *fakeRepo {
	return &fakeRepo{
		tx:       &fakeTx{},
		filmRate: func(uint64) (uint32, error) { return 499, nil },
		claim:    func(uint64) (uint64, error) { return 42, nil },
		create: func(inventoryID, customerID, staffID uint64) (uint64, error) {
			return 7, nil
		},
		payment: func(customerID, staffID, rentalID uint64, amountCents uint32) (uint64, error) {
			return 11, nil
		},
	}
}

func TestRentSuccess(t *testing.T) {
	repo := happyRepo()
	eng := NewEngine(repo, 2)

	created, err := eng.Rent(context.Background(), 5, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(7), created.RentalID)
	require.Equal(t, uint64(11), created.PaymentID)
	require.Equal(t, uint64(42), created.InventoryID)
	require.Equal(t, uint32(499), created.AmountCents)
	require.True(t, repo.tx.committed)
	require.False(t, repo.tx.rolledBack)
}

func TestRentStampsSystemStaff(t *testing.T) {
	repo := happyRepo()
	var gotRentalStaff, gotPaymentStaff uint64
	repo.create = func(_, _, staffID uint64) (uint64, error) {
		gotRentalStaff = staffID
		return 7, nil
	}
	repo.payment = func(_, staffID, _ uint64, _ uint32) (uint64, error) {
		gotPaymentStaff = staffID
		return 11, nil
	}
	eng := NewEngine(repo, 9)

	_, err := eng.Rent(context.Background(), 5, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(9), gotRentalStaff)
	require.Equal(t, uint64(9), gotPaymentStaff)
}

func TestRentFilmNotFound(t *testing.T) {
	repo := happyRepo()
	repo.filmRate = func(uint64) (uint32, error) { return 0, repository.ErrNotFound }
	eng := NewEngine(repo, 2)

	_, err := eng.Rent(context.Background(), 5, 999)
	require.Equal(t, CodeFilmNotFound, Code(err))
	require.True(t, repo.tx.rolledBack)
	require.False(t, repo.tx.committed)
}

func TestRentNoAvailableCopies(t *testing.T) {
	repo := happyRepo()
	repo.claim = func(uint64) (uint64, error) { return 0, repository.ErrNotFound }
	eng := NewEngine(repo, 2)

	_, err := eng.Rent(context.Background(), 5, 1)
	require.Equal(t, CodeNoAvailableCopies, Code(err))
	require.True(t, repo.tx.rolledBack)
}

func TestRentPaymentFailureRollsBackRental(t *testing.T) {
	repo := happyRepo()
	boom := errors.New("payment insert failed")
	repo.payment = func(uint64, uint64, uint64, uint32) (uint64, error) { return 0, boom }
	eng := NewEngine(repo, 2)

	_, err := eng.Rent(context.Background(), 5, 1)
	require.ErrorIs(t, err, boom)
	require.Empty(t, Code(err))
	require.True(t, repo.tx.rolledBack)
	require.False(t, repo.tx.committed)
}

func TestCancelSuccess(t *testing.T) {
	repo := happyRepo()
	repo.closeRental = func(customerID, rentalID uint64) (bool, error) {
		require.Equal(t, uint64(5), customerID)
		require.Equal(t, uint64(7), rentalID)
		return true, nil
	}
	eng := NewEngine(repo, 2)
	require.NoError(t, eng.Cancel(context.Background(), 5, 7))
}

func TestCancelNotOpen(t *testing.T) {
	repo := happyRepo()
	repo.closeRental = func(uint64, uint64) (bool, error) { return false, nil }
	eng := NewEngine(repo, 2)

	err := eng.Cancel(context.Background(), 5, 7)
	require.Equal(t, CodeRentalNotOpen, Code(err))
}

// statefulRepo simulates one film with one copy so rent/cancel round-trips
// can be exercised end to end.
type statefulRepo struct {
	openRentalByCopy map[uint64]uint64 // inventory id -> rental id
	nextRental       uint64
}

func newStatefulRepo() *statefulRepo {
	return &statefulRepo{openRentalByCopy: map[uint64]uint64{}, nextRental: 1}
}

func (r *statefulRepo) BeginTx(context.Context) (repository.Tx, error) { return &fakeTx{}, nil }

func (r *statefulRepo) FilmRateTx(context.Context, repository.Tx, uint64) (uint32, error) {
	return 299, nil
}

func (r *statefulRepo) ClaimAvailableCopyTx(_ context.Context, _ repository.Tx, _ uint64) (uint64, error) {
	const copyID = 1
	if _, rented := r.openRentalByCopy[copyID]; rented {
		return 0, repository.ErrNotFound
	}
	return copyID, nil
}

func (r *statefulRepo) CreateTx(_ context.Context, _ repository.Tx, inventoryID, _, _ uint64) (uint64, error) {
	id := r.nextRental
	r.nextRental++
	r.openRentalByCopy[inventoryID] = id
	return id, nil
}

func (r *statefulRepo) CreatePaymentTx(context.Context, repository.Tx, uint64, uint64, uint64, uint32) (uint64, error) {
	return 1, nil
}

func (r *statefulRepo) CloseOpenRental(_ context.Context, _, rentalID uint64) (bool, error) {
	for copyID, open := range r.openRentalByCopy {
		if open == rentalID {
			delete(r.openRentalByCopy, copyID)
			return true, nil
		}
	}
	return false, nil
}

func TestRentCancelRoundTrip(t *testing.T) {
	repo := newStatefulRepo()
	eng := NewEngine(repo, 2)
	ctx := context.Background()

	first, err := eng.Rent(ctx, 5, 1)
	require.NoError(t, err)

	// The single copy is out: a second rent must fail, not double-book.
	_, err = eng.Rent(ctx, 6, 1)
	require.Equal(t, CodeNoAvailableCopies, Code(err))

	require.NoError(t, eng.Cancel(ctx, 5, first.RentalID))

	// Cancelling again is a no-op failure.
	err = eng.Cancel(ctx, 5, first.RentalID)
	require.Equal(t, CodeRentalNotOpen, Code(err))

	// The copy is selectable again.
	second, err := eng.Rent(ctx, 6, 1)
	require.NoError(t, err)
	require.Equal(t, first.InventoryID, second.InventoryID)
}
