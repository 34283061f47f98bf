package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sakilastore/movie-rental/internal/middleware"
	"github.com/sakilastore/movie-rental/internal/model"
	"github.com/sakilastore/movie-rental/internal/repository"
	"github.com/sakilastore/movie-rental/internal/session"
	"github.com/sakilastore/movie-rental/internal/utils"
)

// AdminHandler serves the admin management pages for films and staff.
// Offers are handled by OfferHandler mounted under /admin/offers.
type AdminHandler struct {
	Films      *repository.FilmRepo
	Staff      *repository.StaffRepo
	Accounts   *repository.AccountRepo
	Sessions   *session.Store
	BcryptCost int
}

func NewAdminHandler(films *repository.FilmRepo, staff *repository.StaffRepo, accounts *repository.AccountRepo, sessions *session.Store, bcryptCost int) *AdminHandler {
	return &AdminHandler{Films: films, Staff: staff, Accounts: accounts, Sessions: sessions, BcryptCost: bcryptCost}
}

// ListFilms handles GET /admin/films.
func (h *AdminHandler) ListFilms(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	films, total, err := h.Films.Search(c.Request().Context(), repository.FilmQuery{Page: page, PageSize: 50})
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "admin_films.html", echo.Map{
		"Flash": popFlash(c, h.Sessions),
		"Films": films,
		"Total": total,
		"Page":  page,
	})
}

// CreateFilm handles POST /admin/films.
func (h *AdminHandler) CreateFilm(c echo.Context) error {
	f := model.Film{
		Title:       strings.TrimSpace(c.FormValue("title")),
		Description: strings.TrimSpace(c.FormValue("description")),
		Rating:      strings.ToUpper(strings.TrimSpace(c.FormValue("rating"))),
	}
	if f.Title == "" {
		return flashRedirect(c, h.Sessions, "error", "Film title is required", "/admin/films")
	}
	rate, err := strconv.ParseUint(c.FormValue("rental_rate_cents"), 10, 32)
	if err != nil {
		return flashRedirect(c, h.Sessions, "error", "Rental rate must be a whole number of cents", "/admin/films")
	}
	f.RentalRateCents = uint32(rate)
	year, err := strconv.ParseUint(c.FormValue("release_year"), 10, 16)
	if err != nil {
		return flashRedirect(c, h.Sessions, "error", "Release year must be a number", "/admin/films")
	}
	f.ReleaseYear = uint16(year)
	categoryID, err := strconv.ParseUint(c.FormValue("category_id"), 10, 64)
	if err != nil || categoryID == 0 {
		return flashRedirect(c, h.Sessions, "error", "Category ID must be a number", "/admin/films")
	}
	f.CategoryID = categoryID

	if _, err := h.Films.Create(c.Request().Context(), f); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return flashRedirect(c, h.Sessions, "error", "A film with that title already exists", "/admin/films")
		}
		return err
	}
	return flashRedirect(c, h.Sessions, "success", "Film created", "/admin/films")
}

// DeleteFilm handles POST /admin/films/:id/delete. Films referenced by
// inventory rows are protected by foreign keys; that failure surfaces as a
// flash rather than deleting rental history.
func (h *AdminHandler) DeleteFilm(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Films.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return flashRedirect(c, h.Sessions, "error", "Film not found", "/admin/films")
		}
		return flashRedirect(c, h.Sessions, "error", "Film has inventory and cannot be deleted", "/admin/films")
	}
	return flashRedirect(c, h.Sessions, "success", "Film deleted", "/admin/films")
}

// ListStaff handles GET /admin/staff.
func (h *AdminHandler) ListStaff(c echo.Context) error {
	staff, err := h.Staff.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "admin_staff.html", echo.Map{
		"Flash": popFlash(c, h.Sessions),
		"Staff": staff,
	})
}

// CreateStaff handles POST /admin/staff: a staff row plus its credential
// record with role staff.
func (h *AdminHandler) CreateStaff(c echo.Context) error {
	s := model.Staff{
		FirstName: strings.TrimSpace(c.FormValue("first_name")),
		LastName:  strings.TrimSpace(c.FormValue("last_name")),
		Email:     strings.ToLower(strings.TrimSpace(c.FormValue("email"))),
		Active:    true,
	}
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	if s.FirstName == "" || s.LastName == "" || s.Email == "" || username == "" || password == "" {
		return flashRedirect(c, h.Sessions, "error", "All fields are required", "/admin/staff")
	}
	if len(password) < 6 {
		return flashRedirect(c, h.Sessions, "error", "Password must be at least 6 characters", "/admin/staff")
	}
	ctx := c.Request().Context()
	taken, err := h.Accounts.UsernameExists(ctx, username)
	if err != nil {
		return err
	}
	if taken {
		return flashRedirect(c, h.Sessions, "error", "Username is already taken", "/admin/staff")
	}

	hash, err := utils.HashPassword(password, h.BcryptCost)
	if err != nil {
		return err
	}
	staffID, err := h.Staff.Create(ctx, s)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return flashRedirect(c, h.Sessions, "error", "Email is already registered", "/admin/staff")
		}
		return err
	}
	if _, err := h.Accounts.CreateStaff(ctx, username, hash, model.RoleStaff, staffID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return flashRedirect(c, h.Sessions, "error", "Username is already taken", "/admin/staff")
		}
		return err
	}
	return flashRedirect(c, h.Sessions, "success", "Staff member created", "/admin/staff")
}

// DeactivateStaff handles POST /admin/staff/:id/deactivate. The acting
// admin cannot deactivate itself.
func (h *AdminHandler) DeactivateStaff(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if p := middleware.PrincipalFrom(c); p != nil && p.ID == id {
		return flashRedirect(c, h.Sessions, "error", "You cannot deactivate your own account", "/admin/staff")
	}
	if err := h.Staff.Deactivate(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return flashRedirect(c, h.Sessions, "error", "Staff member not found or already inactive", "/admin/staff")
		}
		return err
	}
	return flashRedirect(c, h.Sessions, "success", "Staff member deactivated", "/admin/staff")
}
