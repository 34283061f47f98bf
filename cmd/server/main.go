package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/sakilastore/movie-rental/internal/auth"
	"github.com/sakilastore/movie-rental/internal/config"
	"github.com/sakilastore/movie-rental/internal/database"
	"github.com/sakilastore/movie-rental/internal/handler"
	"github.com/sakilastore/movie-rental/internal/httpx"
	appmw "github.com/sakilastore/movie-rental/internal/middleware"
	"github.com/sakilastore/movie-rental/internal/queue"
	"github.com/sakilastore/movie-rental/internal/rental"
	"github.com/sakilastore/movie-rental/internal/repository"
	"github.com/sakilastore/movie-rental/internal/router"
	queuepub "github.com/sakilastore/movie-rental/internal/service"
	"github.com/sakilastore/movie-rental/internal/session"
	"github.com/sakilastore/movie-rental/internal/view"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	// Redis carries session state: unlike rate limiting and caching, the
	// storefront cannot run without it.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Fatal().Msg("redis is required for the session store")
	}
	sessions := session.NewStore(rdb, cfg.SessionTTL)

	accounts := repository.NewAccountRepo(db)
	customers := repository.NewCustomerRepo(db)
	films := repository.NewFilmRepo(db)
	rentals := repository.NewRentalRepo(db)
	offers := repository.NewOfferRepo(db)
	staff := repository.NewStaffRepo(db)
	reports := repository.NewReportRepo(db)

	authSvc := auth.New(accounts, customers, cfg.BcryptCost, logger)
	engine := rental.NewEngine(rentals, cfg.DefaultStaffID)

	renderer, err := view.New(cfg.TemplateDir)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.TemplateDir).Msg("template parse failed")
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.HTTPErrorHandler = httpx.NewErrorHandler(logger)
	e.Use(echomw.Recover())
	e.Use(appmw.ResolveSession(sessions, cfg.SessionSecret, cfg.SessionTTL))

	customerH := &handler.CustomerHandler{
		Engine:   engine,
		Rentals:  rentals,
		Reports:  reports,
		Films:    films,
		Sessions: sessions,
		Logger:   logger,
	}
	if cfg.RabbitURL != "" {
		rabbitURL := cfg.RabbitURL
		customerH.Publish = func(ctx context.Context, ev queue.RentalConfirmedEvent) error {
			return queuepub.PublishRentalConfirmed(ctx, rabbitURL, ev)
		}
		go queue.StartRentalConsumer(rabbitURL, logger)
	}

	router.RegisterPublic(e,
		handler.NewHealthHandler(cfg.Env),
		handler.NewCatalogHandler(films),
		handler.NewAuthHandler(authSvc, sessions),
		rdb)
	router.RegisterCustomer(e, customerH)
	router.RegisterStaff(e, handler.NewOfferHandler(offers, sessions, "/staff/offers"))
	router.RegisterAdmin(e,
		handler.NewAdminHandler(films, staff, accounts, sessions, cfg.BcryptCost),
		handler.NewOfferHandler(offers, sessions, "/admin/offers"))

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
