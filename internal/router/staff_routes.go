package router

import (
	"github.com/labstack/echo/v4"

	"github.com/sakilastore/movie-rental/internal/handler"
	"github.com/sakilastore/movie-rental/internal/middleware"
	"github.com/sakilastore/movie-rental/internal/model"
)

// RegisterStaff registers the offer-management pages under /staff. Admins
// may use the staff pages too.
func RegisterStaff(e *echo.Echo, offers *handler.OfferHandler) {
	g := e.Group("/staff", middleware.RequireRole(model.RoleStaff, model.RoleAdmin))
	g.GET("/offers", offers.List)
	g.POST("/offers", offers.Create)
	g.POST("/offers/:id/delete", offers.Delete)
}
