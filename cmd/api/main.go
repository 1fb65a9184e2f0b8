package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"rateadmin/internal/adapters/analytics"
	server "rateadmin/internal/adapters/http_server"
	"rateadmin/internal/adapters/observability"
	redisad "rateadmin/internal/adapters/redis"
	"rateadmin/internal/adapters/sabre"
	"rateadmin/internal/adapters/seogen"
	"rateadmin/internal/app"
	"rateadmin/internal/shared"
	mysqlrepo "rateadmin/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger("api", cfg.AppEnv)

	observability.Serve()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	rateClient, err := sabre.New(cfg.SabreBase, cfg.SabreKey, cfg.SabreRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize rate client")
	}
	seoClient := seogen.New(cfg.SeoBase, cfg.SeoKey)
	metricsClient := analytics.New(cfg.AnalyticsBase, cfg.AnalyticsKey)

	catalog := app.NewCatalogService(repo, seoClient, metricsClient, cache, cfg.CacheTTL)
	rates := app.NewRatesService(rateClient, cache, cfg.CacheTTL)

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Catalog:        catalog,
		Rates:          rates,
		Store:          repo,
		BookingBaseURL: cfg.BookingBaseURL,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
