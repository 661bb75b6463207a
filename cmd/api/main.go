package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"placefinder/internal/adapters/googleplaces"
	server "placefinder/internal/adapters/http_server"
	"placefinder/internal/adapters/observability"
	redisad "placefinder/internal/adapters/redis"
	"placefinder/internal/app"
	"placefinder/internal/domain"
	"placefinder/internal/shared"
	mysqlrepo "placefinder/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// credential: missing key is fatal before any search can run
	key, err := cfg.LoadAPIKey()
	if err != nil {
		log.Fatal().Err(err).Msg("places API key unavailable")
	}

	client, err := googleplaces.New(cfg.PlacesBase, key, cfg.PlacesRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize places client")
	}

	// history storage is optional; empty DSN disables it
	var history domain.HistoryRepository
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("search history storage ok")
		history = mysqlrepo.New(db)
	}

	session := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.SessionTTL)
	svc := app.NewSearchService(client, session, history)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{S: svc, Links: googleplaces.NewLinks(key)})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
