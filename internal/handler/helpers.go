// Package handler contains the Echo handlers for every route group: auth
// forms, the public catalog, the customer dashboard and rental actions, the
// staff offer pages and the admin CRUD pages. Handlers translate business
// failures into flash+redirect; only unexpected errors propagate to the
// central error handler.
package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sakilastore/movie-rental/internal/middleware"
	"github.com/sakilastore/movie-rental/internal/session"
)

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Page not found")
	}
	return id, nil
}

// safeNext returns the post-login redirect target if it is a local path,
// empty otherwise. Absolute URLs and scheme-relative (//host) values are
// rejected so the login form cannot be used as an open redirect.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") ||
		strings.ContainsAny(next, "\\\r\n") {
		return ""
	}
	return next
}

// flashRedirect stores a one-shot message on the current session and issues
// the 302. A failed flash write is not worth failing the request over: the
// redirect still happens, the user just misses the message.
func flashRedirect(c echo.Context, store *session.Store, kind, msg, target string) error {
	if sess, ok := middleware.SessionFrom(c); ok {
		_ = store.Flash(c.Request().Context(), sess.ID, kind, msg)
	}
	return c.Redirect(http.StatusFound, target)
}

// popFlash drains the pending flash for rendering. Missing sessions and
// store errors render as no flash.
func popFlash(c echo.Context, store *session.Store) session.Flash {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return session.Flash{}
	}
	f, err := store.PopFlash(c.Request().Context(), sess.ID)
	if err != nil {
		return session.Flash{}
	}
	return f
}
