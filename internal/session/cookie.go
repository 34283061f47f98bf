package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the session cookie the browser carries.
const CookieName = "sakila.session.id"

// ErrBadCookie is returned when the cookie value fails signature or expiry
// checks. Callers should treat the request as anonymous and issue a fresh
// session.
var ErrBadCookie = errors.New("invalid session cookie")

// EncodeCookie wraps the opaque session id in a signed HS256 JWT. The token
// carries no identity claims, only the id; a tampered cookie fails the
// signature check before any store lookup happens.
func EncodeCookie(secret, sessionID string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sid": sessionID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// DecodeCookie verifies the cookie value and extracts the session id.
func DecodeCookie(secret, value string) (string, error) {
	tok, err := jwt.Parse(value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadCookie
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", ErrBadCookie
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrBadCookie
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", ErrBadCookie
	}
	return sid, nil
}
