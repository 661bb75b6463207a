// Batch searcher: runs the queries listed in a file (one per line)
// through the search pipeline with bounded concurrency and records
// them to history when MySQL is configured.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"os"
	"strings"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"placefinder/internal/adapters/googleplaces"
	"placefinder/internal/adapters/observability"
	"placefinder/internal/app"
	"placefinder/internal/domain"
	"placefinder/internal/shared"
	mysqlrepo "placefinder/internal/storage/mysql"
)

func main() {
	var (
		file      = flag.String("file", "queries.txt", "file with one search query per line")
		workers   = flag.Int("workers", 4, "max concurrent searches")
		maxPrice  = flag.Int("max-price", 4, "price ceiling 0..4")
		minRating = flag.Float64("min-rating", 0, "rating floor 0..5")
		lat       = flag.Float64("lat", 0, "bias center latitude")
		lon       = flag.Float64("lon", 0, "bias center longitude")
		radius    = flag.Float64("radius", 5000, "bias radius in meters")
	)
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	key, err := cfg.LoadAPIKey()
	if err != nil {
		log.Fatal().Err(err).Msg("places API key unavailable")
	}

	queries, err := readQueries(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("read queries failed")
	}
	if len(queries) == 0 {
		log.Fatal().Str("file", *file).Msg("no queries to run")
	}

	client, err := googleplaces.New(cfg.PlacesBase, key, cfg.PlacesRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize places client")
	}

	var history domain.HistoryRepository
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		history = mysqlrepo.New(db)
	}

	// no per-session state for batch runs
	svc := app.NewSearchService(client, nil, history)

	var bias *domain.Bias
	if *lat != 0 || *lon != 0 {
		bias = &domain.Bias{Lat: *lat, Lon: *lon, RadiusM: *radius}
	}
	filters := domain.Filters{MaxPrice: *maxPrice, MinRating: *minRating}

	log.Info().
		Int("queries", len(queries)).
		Int("workers", *workers).
		Msg("searcher starting")

	sem := semaphore.NewWeighted(int64(*workers))
	var wg sync.WaitGroup

	for _, q := range queries {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(text string) {
			defer wg.Done()
			defer sem.Release(1)

			places, err := svc.Search(ctx, domain.SearchQuery{Text: text, Bias: bias, Filters: filters}, "")
			if err != nil {
				log.Warn().Str("query", text).Err(err).Msg("search failed")
				return
			}
			log.Info().Str("query", text).Int("results", len(places)).Msg("search ok")
		}(q)
	}

	wg.Wait()
	log.Info().Msg("searcher completed")
}

func readQueries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if q := strings.TrimSpace(sc.Text()); q != "" {
			out = append(out, q)
		}
	}
	return out, sc.Err()
}
