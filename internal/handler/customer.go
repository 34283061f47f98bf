package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sakilastore/movie-rental/internal/middleware"
	"github.com/sakilastore/movie-rental/internal/model"
	"github.com/sakilastore/movie-rental/internal/queue"
	"github.com/sakilastore/movie-rental/internal/rental"
	"github.com/sakilastore/movie-rental/internal/repository"
	"github.com/sakilastore/movie-rental/internal/session"
)

// RentalEngine is the slice of the rental engine the customer pages drive.
type RentalEngine interface {
	Rent(ctx context.Context, customerID, filmID uint64) (rental.Created, error)
	Cancel(ctx context.Context, customerID, rentalID uint64) error
}

// RentalReader lists a customer's open rentals for the dashboard.
type RentalReader interface {
	ActiveByCustomer(ctx context.Context, customerID uint64) ([]model.ActiveRental, error)
}

// SpendingReader produces the spending report rows.
type SpendingReader interface {
	SpendingByCustomer(ctx context.Context, customerID uint64) ([]repository.SpendingRow, uint64, error)
}

// FilmReader looks up film details for flash text and events.
type FilmReader interface {
	GetByID(ctx context.Context, id uint64) (model.Film, error)
}

// CustomerHandler serves the customer dashboard, the rent and cancel
// actions and the spending report. Business failures from the engine become
// flash+302 to the dashboard; the cached catalog pages never carry flash.
type CustomerHandler struct {
	Engine  RentalEngine
	Rentals RentalReader
	Reports SpendingReader
	Films   FilmReader

	Sessions *session.Store
	// Publish fires the rental.confirmed event after a successful rent.
	// Nil when no broker is configured; failures are logged, never
	// surfaced to the customer.
	Publish func(ctx context.Context, ev queue.RentalConfirmedEvent) error
	Logger  zerolog.Logger
}

// Dashboard handles GET /customer/dashboard.
func (h *CustomerHandler) Dashboard(c echo.Context) error {
	p := middleware.PrincipalFrom(c)
	rentals, err := h.Rentals.ActiveByCustomer(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "dashboard.html", echo.Map{
		"Principal": p,
		"Flash":     popFlash(c, h.Sessions),
		"Rentals":   rentals,
	})
}

// Rent handles POST /customer/movies/:id/rent.
func (h *CustomerHandler) Rent(c echo.Context) error {
	p := middleware.PrincipalFrom(c)
	filmID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	created, err := h.Engine.Rent(ctx, p.ID, filmID)
	if err != nil {
		switch rental.Code(err) {
		case rental.CodeFilmNotFound:
			return flashRedirect(c, h.Sessions, "error", "That film does not exist", "/customer/dashboard")
		case rental.CodeNoAvailableCopies:
			return flashRedirect(c, h.Sessions, "error", "No copies of that film are available right now", "/customer/dashboard")
		}
		return err
	}

	film, err := h.Films.GetByID(ctx, filmID)
	if err != nil {
		// The rental is already committed; fall back to a title-less
		// flash rather than failing the request.
		h.Logger.Warn().Err(err).Uint64("film_id", filmID).Msg("film lookup after rent failed")
		film = model.Film{ID: filmID, Title: "Film"}
	}

	h.Logger.Info().Str("event", "rental.confirmed").
		Uint64("rental_id", created.RentalID).
		Uint64("customer_id", p.ID).
		Uint64("film_id", filmID).
		Uint32("amount_cents", created.AmountCents).
		Msg("rental created")

	if h.Publish != nil {
		ev := queue.RentalConfirmedEvent{
			RentalID:    created.RentalID,
			PaymentID:   created.PaymentID,
			CustomerID:  p.ID,
			FilmID:      filmID,
			FilmTitle:   film.Title,
			InventoryID: created.InventoryID,
			AmountCents: created.AmountCents,
			RentedAt:    created.RentedAt.Format(time.RFC3339),
		}
		if err := h.Publish(ctx, ev); err != nil {
			h.Logger.Warn().Err(err).Uint64("rental_id", created.RentalID).Msg("publish rental.confirmed failed")
		}
	}

	return flashRedirect(c, h.Sessions, "success", film.Title+" rented", "/customer/dashboard")
}

// Cancel handles POST /customer/rentals/:id/cancel.
func (h *CustomerHandler) Cancel(c echo.Context) error {
	p := middleware.PrincipalFrom(c)
	rentalID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Engine.Cancel(c.Request().Context(), p.ID, rentalID); err != nil {
		if rental.Code(err) == rental.CodeRentalNotOpen {
			return flashRedirect(c, h.Sessions, "error", "Rental not found or already returned", "/customer/dashboard")
		}
		return err
	}
	return flashRedirect(c, h.Sessions, "success", "Rental cancelled", "/customer/dashboard")
}

// spendingView adapts cents to the dollar amounts the template prints.
type spendingView struct {
	FilmTitle   string
	Amount      float64
	PaymentDate time.Time
}

// Spending handles GET /customer/reports/spending.
func (h *CustomerHandler) Spending(c echo.Context) error {
	p := middleware.PrincipalFrom(c)
	rows, totalCents, err := h.Reports.SpendingByCustomer(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}
	view := make([]spendingView, 0, len(rows))
	for _, r := range rows {
		view = append(view, spendingView{
			FilmTitle:   r.FilmTitle,
			Amount:      float64(r.AmountCents) / 100,
			PaymentDate: r.PaymentDate,
		})
	}
	return c.Render(http.StatusOK, "spending.html", echo.Map{
		"Total": float64(totalCents) / 100,
		"Rows":  view,
	})
}
