package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/sakilastore/movie-rental/internal/model"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(rdb, 24*time.Hour), mr
}

func TestCreateAndGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	require.Len(t, sess.ID, 64)
	require.Nil(t, sess.Principal)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, sess.ID, got.ID)
}

func TestGetUnknownID(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSetPrincipal(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)

	p := model.Principal{ID: 3, Username: "mike", Role: model.RoleCustomer}
	require.NoError(t, store.SetPrincipal(ctx, sess.ID, p))

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Principal)
	require.Equal(t, p, *got.Principal)
}

func TestPopFlashClearsMessage(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Flash(ctx, sess.ID, "error", "Passwords do not match"))

	f, err := store.PopFlash(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, "Passwords do not match", f.Error)
	require.Empty(t, f.Success)

	// One-shot: the second pop is empty.
	f, err = store.PopFlash(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, Flash{}, f)
}

func TestDestroy(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Destroy(ctx, sess.ID))

	_, err = store.Get(ctx, sess.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAbsoluteExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)

	// Updates keep the remaining TTL instead of resetting it.
	mr.FastForward(23 * time.Hour)
	require.NoError(t, store.SetPrincipal(ctx, sess.ID, model.Principal{ID: 1, Role: model.RoleCustomer}))
	mr.FastForward(2 * time.Hour)

	_, err = store.Get(ctx, sess.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCookieRoundTrip(t *testing.T) {
	const secret = "test-secret"
	val, err := EncodeCookie(secret, "abc123", time.Hour)
	require.NoError(t, err)

	sid, err := DecodeCookie(secret, val)
	require.NoError(t, err)
	require.Equal(t, "abc123", sid)
}

func TestCookieTamperDetected(t *testing.T) {
	val, err := EncodeCookie("secret-a", "abc123", time.Hour)
	require.NoError(t, err)

	_, err = DecodeCookie("secret-b", val)
	require.ErrorIs(t, err, ErrBadCookie)

	_, err = DecodeCookie("secret-a", val+"x")
	require.ErrorIs(t, err, ErrBadCookie)
}

func TestCookieExpired(t *testing.T) {
	val, err := EncodeCookie("secret", "abc123", -time.Minute)
	require.NoError(t, err)

	_, err = DecodeCookie("secret", val)
	require.ErrorIs(t, err, ErrBadCookie)
}
