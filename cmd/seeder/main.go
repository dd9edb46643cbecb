package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"booknstay/internal/adapters/observability"
	redisad "booknstay/internal/adapters/redis"
	"booknstay/internal/app"
	"booknstay/internal/domain"
	"booknstay/internal/shared"
	mysqlrepo "booknstay/internal/storage/mysql"
)

// seedHotel is one entry of the seed file: the hotel document plus the
// rating that orders the catalog.
type seedHotel struct {
	domain.Hotel
	Rating float64 `json:"rating"`
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("file", cfg.SeedFile).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	raw, err := os.ReadFile(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("read seed file failed")
	}
	var hotels []seedHotel
	if err := json.Unmarshal(raw, &hotels); err != nil {
		log.Fatal().Err(err).Msg("parse seed file failed")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass, DB: cfg.RedisDB})
	catalog := app.NewCatalogService(repo, redisad.NewWithClient(rdb), redisad.NewFeed(rdb), cfg.CacheTTL)

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup

	for _, h := range hotels {
		h := h

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(sh seedHotel) {
			defer wg.Done()
			defer sem.Release(int64(1))

			if err := catalog.UpsertHotel(ctx, sh.Hotel, sh.Rating); err != nil {
				log.Warn().Str("name", sh.Name).Err(err).Msg("seed failed")
				return
			}
			log.Info().Str("name", sh.Name).Float64("rating", sh.Rating).Msg("seed ok")
		}(h)
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}
