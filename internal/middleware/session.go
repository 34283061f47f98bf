package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sakilastore/movie-rental/internal/model"
	"github.com/sakilastore/movie-rental/internal/session"
)

// sessionKey is the echo context key the resolved session lives under.
const sessionKey = "session"

// ResolveSession loads the session referenced by the request cookie and
// attaches it to the context. Requests without a valid cookie (missing,
// tampered, expired, or pointing at a destroyed session) get a fresh
// anonymous session and a new cookie. Runs before every route; the role
// gate and all handlers rely on it.
func ResolveSession(store *session.Store, secret string, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			var sess session.Session
			if ck, err := c.Cookie(session.CookieName); err == nil {
				if sid, err := session.DecodeCookie(secret, ck.Value); err == nil {
					if s, err := store.Get(ctx, sid); err == nil {
						sess = s
					}
				}
			}
			if sess.ID == "" {
				s, err := store.Create(ctx)
				if err != nil {
					return err
				}
				val, err := session.EncodeCookie(secret, s.ID, ttl)
				if err != nil {
					return err
				}
				c.SetCookie(&http.Cookie{
					Name:     session.CookieName,
					Value:    val,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   int(ttl / time.Second),
				})
				sess = s
			}

			c.Set(sessionKey, sess)
			return next(c)
		}
	}
}

// SessionFrom returns the session attached by ResolveSession.
func SessionFrom(c echo.Context) (session.Session, bool) {
	s, ok := c.Get(sessionKey).(session.Session)
	return s, ok
}

// PrincipalFrom returns the authenticated principal, or nil for anonymous
// requests.
func PrincipalFrom(c echo.Context) *model.Principal {
	s, ok := SessionFrom(c)
	if !ok {
		return nil
	}
	return s.Principal
}
