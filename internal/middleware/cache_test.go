package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/sakilastore/movie-rental/internal/config"
	"github.com/sakilastore/movie-rental/internal/session"
)

func cacheTestConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          30 * time.Second,
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
}

func newCacheApp(t *testing.T, hits *int) *echo.Echo {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	e := echo.New()
	e.GET("/films", func(c echo.Context) error {
		*hits++
		return c.String(http.StatusOK, "catalog page")
	}, NewCatalogCache(cacheTestConfig(), rdb))
	return e
}

func TestCatalogCacheHit(t *testing.T) {
	hits := 0
	e := newCacheApp(t, &hits)

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/films", nil))
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, "MISS", first.Header().Get("X-Cache"))
	require.Equal(t, "catalog page", first.Body.String())
	require.Equal(t, 1, hits)

	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/films", nil))
	require.Equal(t, http.StatusOK, second.Code)
	require.Equal(t, "HIT", second.Header().Get("X-Cache"))
	require.Equal(t, "catalog page", second.Body.String())
	require.Equal(t, 1, hits, "cached response must not re-run the handler")
}

func TestCatalogCacheKeyIncludesQuery(t *testing.T) {
	hits := 0
	e := newCacheApp(t, &hits)

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/films?title=dino", nil))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/films?title=gold", nil))
	require.Equal(t, 2, hits)
}

// Each visitor must keep their own session even when the page body comes
// from the cache: a hit that replayed the first visitor's Set-Cookie would
// let a later login leak across browsers.
func TestCatalogCacheNeverReplaysSessionCookies(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := session.NewStore(rdb, 24*time.Hour)

	e := echo.New()
	e.Use(ResolveSession(store, "test-secret", 24*time.Hour))
	e.GET("/films", func(c echo.Context) error {
		return c.String(http.StatusOK, "catalog page")
	}, NewCatalogCache(cacheTestConfig(), rdb))

	sessionCookie := func(rec *httptest.ResponseRecorder) string {
		t.Helper()
		var vals []string
		for _, ck := range rec.Result().Cookies() {
			if ck.Name == session.CookieName {
				vals = append(vals, ck.Value)
			}
		}
		require.Len(t, vals, 1, "exactly one session cookie per anonymous visitor")
		return vals[0]
	}

	visitorA := httptest.NewRecorder()
	e.ServeHTTP(visitorA, httptest.NewRequest(http.MethodGet, "/films", nil))
	require.Equal(t, "MISS", visitorA.Header().Get("X-Cache"))
	cookieA := sessionCookie(visitorA)

	visitorB := httptest.NewRecorder()
	e.ServeHTTP(visitorB, httptest.NewRequest(http.MethodGet, "/films", nil))
	require.Equal(t, "HIT", visitorB.Header().Get("X-Cache"))
	require.Equal(t, "catalog page", visitorB.Body.String())

	cookieB := sessionCookie(visitorB)
	require.NotEqual(t, cookieA, cookieB, "cached response must not hand visitor B visitor A's session")

	sidA, err := session.DecodeCookie("test-secret", cookieA)
	require.NoError(t, err)
	sidB, err := session.DecodeCookie("test-secret", cookieB)
	require.NoError(t, err)
	require.NotEqual(t, sidA, sidB)
}

func TestCatalogCacheNilClientPassthrough(t *testing.T) {
	hits := 0
	e := echo.New()
	e.GET("/films", func(c echo.Context) error {
		hits++
		return c.String(http.StatusOK, "catalog page")
	}, NewCatalogCache(cacheTestConfig(), nil))

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/films", nil))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/films", nil))
	require.Equal(t, 2, hits)
}
