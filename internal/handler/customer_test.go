package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sakilastore/movie-rental/internal/middleware"
	"github.com/sakilastore/movie-rental/internal/model"
	"github.com/sakilastore/movie-rental/internal/queue"
	"github.com/sakilastore/movie-rental/internal/rental"
	"github.com/sakilastore/movie-rental/internal/repository"
	"github.com/sakilastore/movie-rental/internal/session"
	"github.com/sakilastore/movie-rental/internal/view"
)

// testCoded mirrors the engine's coded errors for handler tests.
type testCoded struct{ code rental.ErrCode }

func (e testCoded) Error() string        { return string(e.code) }
func (e testCoded) Code() rental.ErrCode { return e.code }

func errNoCopies() error      { return testCoded{rental.CodeNoAvailableCopies} }
func errRentalNotOpen() error { return testCoded{rental.CodeRentalNotOpen} }

// mockEngine implements RentalEngine.
type mockEngine struct {
	rent   func(customerID, filmID uint64) (rental.Created, error)
	cancel func(customerID, rentalID uint64) error
}

func (m *mockEngine) Rent(_ context.Context, customerID, filmID uint64) (rental.Created, error) {
	return m.rent(customerID, filmID)
}

func (m *mockEngine) Cancel(_ context.Context, customerID, rentalID uint64) error {
	return m.cancel(customerID, rentalID)
}

type mockRentals struct {
	active func(customerID uint64) ([]model.ActiveRental, error)
}

func (m *mockRentals) ActiveByCustomer(_ context.Context, customerID uint64) ([]model.ActiveRental, error) {
	return m.active(customerID)
}

type mockReports struct {
	spending func(customerID uint64) ([]repository.SpendingRow, uint64, error)
}

func (m *mockReports) SpendingByCustomer(_ context.Context, customerID uint64) ([]repository.SpendingRow, uint64, error) {
	return m.spending(customerID)
}

type mockFilms struct {
	get func(id uint64) (model.Film, error)
}

func (m *mockFilms) GetByID(_ context.Context, id uint64) (model.Film, error) { return m.get(id) }

type customerApp struct {
	e     *echo.Echo
	store *session.Store
	h     *CustomerHandler
}

func newCustomerApp(t *testing.T) *customerApp {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := session.NewStore(rdb, 24*time.Hour)

	h := &CustomerHandler{
		Engine: &mockEngine{
			rent: func(uint64, uint64) (rental.Created, error) {
				return rental.Created{RentalID: 7, PaymentID: 11, InventoryID: 42, AmountCents: 499, RentedAt: time.Now().UTC()}, nil
			},
			cancel: func(uint64, uint64) error { return nil },
		},
		Rentals: &mockRentals{
			active: func(uint64) ([]model.ActiveRental, error) { return nil, nil },
		},
		Reports: &mockReports{
			spending: func(uint64) ([]repository.SpendingRow, uint64, error) { return nil, 0, nil },
		},
		Films: &mockFilms{
			get: func(id uint64) (model.Film, error) {
				return model.Film{ID: id, Title: "ACADEMY DINOSAUR"}, nil
			},
		},
		Sessions: store,
		Logger:   zerolog.Nop(),
	}

	e := echo.New()
	renderer, err := view.New("../../web/templates")
	require.NoError(t, err)
	e.Renderer = renderer
	e.Use(middleware.ResolveSession(store, testSecret, 24*time.Hour))
	g := e.Group("/customer", middleware.RequireRole(model.RoleCustomer))
	g.GET("/dashboard", h.Dashboard)
	g.POST("/movies/:id/rent", h.Rent)
	g.POST("/rentals/:id/cancel", h.Cancel)
	g.GET("/reports/spending", h.Spending)
	return &customerApp{e: e, store: store, h: h}
}

// loginAs creates a live session for the principal and returns its cookie.
func (a *customerApp) loginAs(t *testing.T, p model.Principal) *http.Cookie {
	t.Helper()
	ctx := context.Background()
	sess, err := a.store.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, a.store.SetPrincipal(ctx, sess.ID, p))
	val, err := session.EncodeCookie(testSecret, sess.ID, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: session.CookieName, Value: val}
}

func (a *customerApp) do(method, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func TestRentRedirectsToDashboard(t *testing.T) {
	app := newCustomerApp(t)
	cookie := app.loginAs(t, model.Principal{ID: 3, Username: "mike", Role: model.RoleCustomer})

	rec := app.do(http.MethodPost, "/customer/movies/1/rent", cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/customer/dashboard", rec.Header().Get("Location"))
}

func TestRentPublishesEventAndFlashesTitle(t *testing.T) {
	app := newCustomerApp(t)
	var published *queue.RentalConfirmedEvent
	app.h.Publish = func(_ context.Context, ev queue.RentalConfirmedEvent) error {
		published = &ev
		return nil
	}
	cookie := app.loginAs(t, model.Principal{ID: 3, Username: "mike", Role: model.RoleCustomer})

	rec := app.do(http.MethodPost, "/customer/movies/1/rent", cookie)
	require.Equal(t, http.StatusFound, rec.Code)

	require.NotNil(t, published)
	require.Equal(t, uint64(7), published.RentalID)
	require.Equal(t, uint64(3), published.CustomerID)
	require.Equal(t, "ACADEMY DINOSAUR", published.FilmTitle)

	// The dashboard renders the flash and then clears it.
	app.h.Rentals = &mockRentals{
		active: func(uint64) ([]model.ActiveRental, error) {
			return []model.ActiveRental{{RentalID: 7, FilmID: 1, FilmTitle: "ACADEMY DINOSAUR", RentalDate: time.Now().UTC()}}, nil
		},
	}
	page := app.do(http.MethodGet, "/customer/dashboard", cookie)
	require.Equal(t, http.StatusOK, page.Code)
	require.Contains(t, page.Body.String(), "ACADEMY DINOSAUR rented")
	require.Contains(t, page.Body.String(), `class="active-rentals"`)
	require.Contains(t, page.Body.String(), "ACADEMY DINOSAUR")
}

func TestRentNoCopiesFlashesError(t *testing.T) {
	app := newCustomerApp(t)
	app.h.Engine = &mockEngine{
		rent: func(uint64, uint64) (rental.Created, error) {
			return rental.Created{}, errNoCopies()
		},
	}
	cookie := app.loginAs(t, model.Principal{ID: 3, Role: model.RoleCustomer})

	rec := app.do(http.MethodPost, "/customer/movies/1/rent", cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/customer/dashboard", rec.Header().Get("Location"))

	page := app.do(http.MethodGet, "/customer/dashboard", cookie)
	require.Contains(t, page.Body.String(), "No copies of that film are available right now")
}

func TestCancelAlreadyReturnedFlashesError(t *testing.T) {
	app := newCustomerApp(t)
	app.h.Engine = &mockEngine{
		cancel: func(uint64, uint64) error { return errRentalNotOpen() },
	}
	cookie := app.loginAs(t, model.Principal{ID: 3, Role: model.RoleCustomer})

	rec := app.do(http.MethodPost, "/customer/rentals/7/cancel", cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/customer/dashboard", rec.Header().Get("Location"))

	page := app.do(http.MethodGet, "/customer/dashboard", cookie)
	require.Contains(t, page.Body.String(), "Rental not found or already returned")
}

func TestDashboardRequiresLogin(t *testing.T) {
	app := newCustomerApp(t)
	rec := app.do(http.MethodGet, "/customer/dashboard", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Contains(t, rec.Header().Get("Location"), "/auth/login?next=")
}

func TestSpendingConvertsCents(t *testing.T) {
	app := newCustomerApp(t)
	app.h.Reports = &mockReports{
		spending: func(uint64) ([]repository.SpendingRow, uint64, error) {
			return []repository.SpendingRow{
				{FilmTitle: "ACADEMY DINOSAUR", AmountCents: 499, PaymentDate: time.Now().UTC()},
				{FilmTitle: "ACE GOLDFINGER", AmountCents: 1050, PaymentDate: time.Now().UTC()},
			}, 1549, nil
		},
	}
	cookie := app.loginAs(t, model.Principal{ID: 3, Role: model.RoleCustomer})

	page := app.do(http.MethodGet, "/customer/reports/spending", cookie)
	require.Equal(t, http.StatusOK, page.Code)
	require.Contains(t, page.Body.String(), "$15.49")
	require.Contains(t, page.Body.String(), "$4.99")
	require.Contains(t, page.Body.String(), "$10.50")
}
