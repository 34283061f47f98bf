package router

import (
	"github.com/labstack/echo/v4"

	"github.com/sakilastore/movie-rental/internal/handler"
	"github.com/sakilastore/movie-rental/internal/middleware"
	"github.com/sakilastore/movie-rental/internal/model"
)

// RegisterCustomer registers the customer-scoped pages under /customer.
// Anonymous visitors are redirected to the login form with the original
// URL preserved; staff and admin sessions are redirected to their own home.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler) {
	g := e.Group("/customer", middleware.RequireRole(model.RoleCustomer))
	g.GET("/dashboard", h.Dashboard)
	g.POST("/movies/:id/rent", h.Rent)
	g.POST("/rentals/:id/cancel", h.Cancel)
	g.GET("/reports/spending", h.Spending)
}
