// Package session implements the Redis-backed session store and the signed
// cookie that carries the session id. A session holds the authenticated
// principal and a one-shot flash message; its lifetime is a fixed absolute
// TTL from creation (no sliding refresh).
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sakilastore/movie-rental/internal/model"
)

// ErrNotFound is returned when a session id does not resolve to a live
// session (never created, expired, or destroyed by logout).
var ErrNotFound = errors.New("session not found")

// Flash is the one-shot message pair rendered on the next page and then
// cleared.
type Flash struct {
	Success string `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Session is the server-side state keyed by the cookie's opaque id. The
// principal is nil until login and immutable afterwards; role changes
// require a fresh login.
type Session struct {
	ID        string           `json:"id"`
	Principal *model.Principal `json:"principal,omitempty"`
	Flash     Flash            `json:"flash"`
	CreatedAt time.Time        `json:"created_at"`
}

// Store persists sessions in Redis under sess:{id} with an absolute TTL.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore builds a Store. ttl is the absolute session lifetime.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func key(id string) string { return "sess:" + id }

// Create allocates a fresh anonymous session with a random opaque id.
func (s *Store) Create(ctx context.Context) (Session, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return Session{}, err
	}
	sess := Session{
		ID:        hex.EncodeToString(buf),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.write(ctx, sess, s.ttl); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Get loads a session by id. Expired or destroyed sessions return
// ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	raw, err := s.rdb.Get(ctx, key(id)).Bytes()
	if err == redis.Nil {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// SetPrincipal attaches the authenticated principal to the session. The
// remaining TTL is preserved: expiry stays absolute from creation.
func (s *Store) SetPrincipal(ctx context.Context, id string, p model.Principal) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	sess.Principal = &p
	return s.write(ctx, sess, redis.KeepTTL)
}

// Flash stores a one-shot message on the session. kind is "success" or
// anything else for error.
func (s *Store) Flash(ctx context.Context, id, kind, msg string) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if kind == "success" {
		sess.Flash.Success = msg
	} else {
		sess.Flash.Error = msg
	}
	return s.write(ctx, sess, redis.KeepTTL)
}

// PopFlash returns the pending flash message and clears it in one step, so
// a message renders on exactly one page.
func (s *Store) PopFlash(ctx context.Context, id string) (Flash, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return Flash{}, err
	}
	f := sess.Flash
	if f == (Flash{}) {
		return f, nil
	}
	sess.Flash = Flash{}
	if err := s.write(ctx, sess, redis.KeepTTL); err != nil {
		return Flash{}, err
	}
	return f, nil
}

// Destroy removes the session (logout).
func (s *Store) Destroy(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, key(id)).Err()
}

func (s *Store) write(ctx context.Context, sess Session, ttl time.Duration) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key(sess.ID), raw, ttl).Err()
}
