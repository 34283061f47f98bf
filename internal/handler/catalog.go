package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sakilastore/movie-rental/internal/repository"
)

// CatalogHandler serves the public, unauthenticated catalog pages. These
// routes sit behind the response cache, so they render no per-user state
// (no flash, no principal).
type CatalogHandler struct {
	Films *repository.FilmRepo
}

func NewCatalogHandler(films *repository.FilmRepo) *CatalogHandler {
	return &CatalogHandler{Films: films}
}

// Home handles GET /: a short list of films as the storefront landing page.
func (h *CatalogHandler) Home(c echo.Context) error {
	films, _, err := h.Films.Search(c.Request().Context(), repository.FilmQuery{PageSize: 8})
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "home.html", echo.Map{"Films": films})
}

// ListFilms handles GET /films with title/category/rating filters and
// pagination.
func (h *CatalogHandler) ListFilms(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("page_size"))
	q := repository.FilmQuery{
		Title:    c.QueryParam("title"),
		Category: c.QueryParam("category"),
		Rating:   c.QueryParam("rating"),
		Page:     page,
		PageSize: size,
	}
	films, total, err := h.Films.Search(c.Request().Context(), q)
	if err != nil {
		return err
	}
	if q.Page < 1 {
		q.Page = 1
	}
	return c.Render(http.StatusOK, "films.html", echo.Map{
		"Query": q,
		"Films": films,
		"Total": total,
		"Page":  q.Page,
	})
}

// FilmDetail handles GET /films/:id.
func (h *CatalogHandler) FilmDetail(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	film, err := h.Films.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Page not found")
		}
		return err
	}
	available, err := h.Films.AvailableCopies(ctx, id)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "film.html", echo.Map{
		"Film":      film,
		"Available": available,
	})
}
