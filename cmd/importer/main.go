package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"rateadmin/internal/adapters/observability"
	"rateadmin/internal/app"
	"rateadmin/internal/shared"
	mysqlrepo "rateadmin/internal/storage/mysql"
)

func main() {
	path := flag.String("csv", "", "path to the hotel catalog CSV")
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger("importer", cfg.AppEnv)

	if *path == "" {
		log.Fatal().Msg("-csv is required")
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal().Err(err).Str("path", *path).Msg("open csv failed")
	}
	defer f.Close()

	hotels, parseErrs := app.ParseCatalogCSV(f)
	for _, e := range parseErrs {
		log.Warn().Err(e).Msg("csv record skipped")
	}
	log.Info().
		Int("records", len(hotels)).
		Int("skipped", len(parseErrs)).
		Int("workers", cfg.Workers).
		Msg("importer starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, h := range hotels {
		h := h

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			if err := repo.UpsertHotel(ctx, h); err != nil {
				log.Warn().Str("sabre_id", h.SabreID).Err(err).Msg("upsert failed")
				return
			}
			log.Info().Str("sabre_id", h.SabreID).Msg("upsert ok")
		}()
	}

	wg.Wait()
	log.Info().Msg("import completed")
}
