package router // router defines how HTTP routes are registered for the storefront

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/sakilastore/movie-rental/internal/config"
	"github.com/sakilastore/movie-rental/internal/handler"
	"github.com/sakilastore/movie-rental/internal/middleware"
)

// RegisterPublic registers the unauthenticated routes: health, the catalog
// pages and the auth forms. The catalog GETs sit behind the Redis response
// cache and the auth POSTs behind the token-bucket rate limiter; both
// middlewares degrade to passthrough when rdb is nil.
func RegisterPublic(e *echo.Echo, health *handler.HealthHandler, catalog *handler.CatalogHandler, authH *handler.AuthHandler, rdb *redis.Client) {
	e.GET("/health", health.Health)

	cache := middleware.NewCatalogCache(config.LoadCacheConfig(), rdb)
	e.GET("/", catalog.Home, cache)
	e.GET("/films", catalog.ListFilms, cache)
	e.GET("/films/:id", catalog.FilmDetail, cache)

	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	g := e.Group("/auth")
	g.GET("/login", authH.ShowLogin)
	g.POST("/login", authH.Login, limit)
	g.GET("/register", authH.ShowRegister)
	g.POST("/register", authH.Register, limit)
	g.POST("/logout", authH.Logout)
}
