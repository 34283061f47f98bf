// Package httpx holds the top-level HTTP error handler. Business-rule
// failures never reach it — handlers turn those into redirect+flash — so
// anything arriving here is classified by shape and mapped to a status
// with a generic client message. Detail stays in the server log.
package httpx

import (
	"database/sql/driver"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sakilastore/movie-rental/internal/repository"
)

// NewErrorHandler builds the echo.HTTPErrorHandler:
//
//	unknown route            -> 404, requested path logged server-side only
//	unique-constraint clash  -> 409
//	store unreachable        -> 503
//	anything else            -> 500 "Something went wrong"
func NewErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "Something went wrong"

		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			code = he.Code
			if code == http.StatusNotFound {
				msg = "Page not found"
				logger.Warn().Str("path", c.Request().URL.Path).Msg("no matching route")
			} else if s, ok := he.Message.(string); ok {
				msg = s
			}
		case errors.Is(err, repository.ErrDuplicate):
			code = http.StatusConflict
			msg = "A record with those details already exists"
		case isConnectionFailure(err):
			code = http.StatusServiceUnavailable
			msg = "Service unavailable, please try again later"
			logger.Error().Err(err).Msg("datastore unreachable")
		default:
			logger.Error().Err(err).Str("path", c.Request().URL.Path).Msg("unhandled error")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, echo.Map{"error": msg})
		}
		if werr != nil {
			logger.Error().Err(werr).Msg("error response write failed")
		}
	}
}

// isConnectionFailure reports whether err means the relational store (or
// another backing service) could not be reached at all, as opposed to
// rejecting the query.
func isConnectionFailure(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var ne *net.OpError
	if errors.As(err, &ne) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "connection refused") || strings.Contains(s, "invalid connection")
}
