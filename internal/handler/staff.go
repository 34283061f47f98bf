package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sakilastore/movie-rental/internal/middleware"
	"github.com/sakilastore/movie-rental/internal/model"
	"github.com/sakilastore/movie-rental/internal/repository"
	"github.com/sakilastore/movie-rental/internal/session"
)

// OfferHandler serves the promotional-offer pages. The same handler backs
// both /staff/offers and /admin/offers; BasePath decides which prefix the
// form posts and redirects use.
type OfferHandler struct {
	Offers   *repository.OfferRepo
	Sessions *session.Store
	BasePath string
}

func NewOfferHandler(offers *repository.OfferRepo, sessions *session.Store, basePath string) *OfferHandler {
	return &OfferHandler{Offers: offers, Sessions: sessions, BasePath: basePath}
}

// List handles GET {BasePath}.
func (h *OfferHandler) List(c echo.Context) error {
	offers, err := h.Offers.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "offers.html", echo.Map{
		"Flash":    popFlash(c, h.Sessions),
		"Offers":   offers,
		"BasePath": h.BasePath,
	})
}

// Create handles POST {BasePath}.
func (h *OfferHandler) Create(c echo.Context) error {
	p := middleware.PrincipalFrom(c)

	o := model.Offer{
		Title:       strings.TrimSpace(c.FormValue("title")),
		Description: strings.TrimSpace(c.FormValue("description")),
		CreatedBy:   p.ID,
	}
	if o.Title == "" {
		return flashRedirect(c, h.Sessions, "error", "Offer title is required", h.BasePath)
	}
	discount, err := strconv.Atoi(c.FormValue("discount_percent"))
	if err != nil || discount < 1 || discount > 90 {
		return flashRedirect(c, h.Sessions, "error", "Discount must be between 1 and 90 percent", h.BasePath)
	}
	o.DiscountPercent = uint8(discount)

	if raw := strings.TrimSpace(c.FormValue("film_id")); raw != "" {
		filmID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || filmID == 0 {
			return flashRedirect(c, h.Sessions, "error", "Film ID must be a number", h.BasePath)
		}
		o.FilmID = &filmID
	}

	o.StartsAt, err = time.Parse("2006-01-02", c.FormValue("starts_at"))
	if err != nil {
		return flashRedirect(c, h.Sessions, "error", "Start date is required", h.BasePath)
	}
	o.EndsAt, err = time.Parse("2006-01-02", c.FormValue("ends_at"))
	if err != nil {
		return flashRedirect(c, h.Sessions, "error", "End date is required", h.BasePath)
	}
	if !o.EndsAt.After(o.StartsAt) {
		return flashRedirect(c, h.Sessions, "error", "End date must be after the start date", h.BasePath)
	}

	if _, err := h.Offers.Create(c.Request().Context(), o); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return flashRedirect(c, h.Sessions, "error", "An offer with that title already exists", h.BasePath)
		}
		return err
	}
	return flashRedirect(c, h.Sessions, "success", "Offer created", h.BasePath)
}

// Delete handles POST {BasePath}/:id/delete.
func (h *OfferHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Offers.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return flashRedirect(c, h.Sessions, "error", "Offer not found", h.BasePath)
		}
		return err
	}
	return flashRedirect(c, h.Sessions, "success", "Offer deleted", h.BasePath)
}
