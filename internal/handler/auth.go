package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sakilastore/movie-rental/internal/auth"
	"github.com/sakilastore/movie-rental/internal/middleware"
	"github.com/sakilastore/movie-rental/internal/session"
)

// AuthHandler serves the login and registration forms and their POST
// actions. Validation outcomes are always flash+302 back to the form; a
// successful login or registration attaches the principal to the existing
// session and redirects onward.
type AuthHandler struct {
	Auth     *auth.Service
	Sessions *session.Store
}

func NewAuthHandler(svc *auth.Service, sessions *session.Store) *AuthHandler {
	return &AuthHandler{Auth: svc, Sessions: sessions}
}

// ShowLogin handles GET /auth/login. Already-authenticated visitors are
// sent to their role home instead of seeing the form again.
func (h *AuthHandler) ShowLogin(c echo.Context) error {
	if p := middleware.PrincipalFrom(c); p != nil {
		return c.Redirect(http.StatusFound, p.Role.HomePath())
	}
	return c.Render(http.StatusOK, "login.html", echo.Map{
		"Flash": popFlash(c, h.Sessions),
		"Next":  safeNext(c.QueryParam("next")),
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	next := safeNext(c.FormValue("next"))

	meta := auth.ClientMeta{IP: c.RealIP(), UserAgent: c.Request().UserAgent()}
	p, err := h.Auth.VerifyLogin(c.Request().Context(), username, password, meta)
	if err != nil {
		var ve *auth.ValidationError
		if errors.As(err, &ve) || errors.Is(err, auth.ErrInvalidCredentials) {
			target := "/auth/login"
			if next != "" {
				target += "?next=" + next
			}
			return flashRedirect(c, h.Sessions, "error", err.Error(), target)
		}
		return err
	}

	sess, _ := middleware.SessionFrom(c)
	if err := h.Sessions.SetPrincipal(c.Request().Context(), sess.ID, p); err != nil {
		return err
	}
	if next != "" {
		return c.Redirect(http.StatusFound, next)
	}
	return c.Redirect(http.StatusFound, "/")
}

// ShowRegister handles GET /auth/register.
func (h *AuthHandler) ShowRegister(c echo.Context) error {
	if p := middleware.PrincipalFrom(c); p != nil {
		return c.Redirect(http.StatusFound, p.Role.HomePath())
	}
	return c.Render(http.StatusOK, "register.html", echo.Map{
		"Flash": popFlash(c, h.Sessions),
	})
}

// Register handles POST /auth/register. A passing request creates the
// customer and logs it in; any failed rule flashes its message and returns
// to the form.
func (h *AuthHandler) Register(c echo.Context) error {
	req := auth.RegisterRequest{
		FirstName:       c.FormValue("first_name"),
		LastName:        c.FormValue("last_name"),
		Email:           c.FormValue("email"),
		Username:        c.FormValue("username"),
		Password:        c.FormValue("password"),
		ConfirmPassword: c.FormValue("confirm_password"),
	}
	p, err := h.Auth.RegisterCustomer(c.Request().Context(), req)
	if err != nil {
		var ve *auth.ValidationError
		if errors.As(err, &ve) {
			return flashRedirect(c, h.Sessions, "error", ve.Error(), "/auth/register")
		}
		return err
	}

	sess, _ := middleware.SessionFrom(c)
	if err := h.Sessions.SetPrincipal(c.Request().Context(), sess.ID, p); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/")
}

// Logout handles POST /auth/logout. The server-side session is destroyed
// and the cookie expired; the visitor lands on the login form.
func (h *AuthHandler) Logout(c echo.Context) error {
	if sess, ok := middleware.SessionFrom(c); ok {
		_ = h.Sessions.Destroy(c.Request().Context(), sess.ID)
	}
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	return c.Redirect(http.StatusFound, "/auth/login")
}
