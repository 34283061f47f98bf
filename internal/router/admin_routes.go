package router

import (
	"github.com/labstack/echo/v4"

	"github.com/sakilastore/movie-rental/internal/handler"
	"github.com/sakilastore/movie-rental/internal/middleware"
	"github.com/sakilastore/movie-rental/internal/model"
)

// RegisterAdmin registers the admin-only management pages under /admin.
// offers is a second OfferHandler instance whose BasePath points at
// /admin/offers.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, offers *handler.OfferHandler) {
	g := e.Group("/admin", middleware.RequireRole(model.RoleAdmin))

	g.GET("/films", h.ListFilms)
	g.POST("/films", h.CreateFilm)
	g.POST("/films/:id/delete", h.DeleteFilm)

	g.GET("/staff", h.ListStaff)
	g.POST("/staff", h.CreateStaff)
	g.POST("/staff/:id/deactivate", h.DeactivateStaff)

	g.GET("/offers", offers.List)
	g.POST("/offers", offers.Create)
	g.POST("/offers/:id/delete", offers.Delete)
}
