package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"booknstay/internal/adapters/httpserver"
	"booknstay/internal/adapters/identity"
	"booknstay/internal/adapters/observability"
	redisad "booknstay/internal/adapters/redis"
	"booknstay/internal/app"
	"booknstay/internal/shared"
	mysqlrepo "booknstay/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass, DB: cfg.RedisDB})
	cache := redisad.NewWithClient(rdb)
	feed := redisad.NewFeed(rdb)

	catalog := app.NewCatalogService(repo, cache, feed, cfg.CacheTTL)
	bookings := app.NewBookingService(repo, feed)
	auth := identity.NewService(repo, identity.NewTokenService(cfg.JWTSecret, cfg.AccessTTL))

	// http
	srv := httpserver.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&httpserver.Handlers{
		Catalog:      catalog,
		Bookings:     bookings,
		Identity:     auth,
		Feed:         feed,
		CatalogLimit: cfg.CatalogLimit,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
