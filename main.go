package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/spencer-p/beachdash/pkg/config"
	"github.com/spencer-p/beachdash/pkg/data"
	"github.com/spencer-p/beachdash/pkg/handlers"
	"github.com/spencer-p/beachdash/pkg/metrics"
	"github.com/spencer-p/beachdash/pkg/retry"
	"github.com/spencer-p/beachdash/pkg/sheets"
)

func main() {
	config.SetupEnvironment()
	env, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Bad configuration")
	}
	loc, _ := env.Location()

	src, err := env.Source(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up sheets")
	}
	loader := sheets.NewLoader(src, retry.Sheets, env.Join(), loc, env.CacheTTL)

	db, err := data.Open(env.DBDriver, env.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("driver", env.DBDriver).Msg("Failed to open database")
	}

	hashKey, blockKey := env.CookieKeys()
	server := handlers.NewServer(loader, data.NewGormStore(db), env.Place(),
		hashKey, blockKey, env.Env == "production")

	r := mux.NewRouter().StrictSlash(true)
	s := r.PathPrefix(env.Prefix).Subrouter()
	server.Register(s)

	srv := &http.Server{
		Handler:      metrics.LatencyHandler(r),
		Addr:         "0.0.0.0:" + env.Port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	log.Info().Msgf("Listening and serving on %s/%s", srv.Addr, env.Prefix[1:])
	log.Fatal().Err(srv.ListenAndServe()).Send()
}
