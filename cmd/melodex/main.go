package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"melodex/internal/logging"
	"melodex/internal/store"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	logging.Setup(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()
	dataStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}

	if cfg.Seed {
		if err := store.Seed(ctx, dataStore); err != nil {
			log.Fatal().Err(err).Msg("seed catalog")
		}
	}

	handler := newHTTPHandler(cfg, dataStore)

	log.Info().Str("addr", cfg.Addr).Msg("API listening")
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

// openStore picks the backend: Postgres when DATABASE_URL is configured,
// otherwise the in-memory store.
func openStore(ctx context.Context, cfg Config) (store.Store, error) {
	if cfg.DatabaseURL == "" {
		log.Info().Msg("no DATABASE_URL set, using in-memory store")
		return store.NewMemStore(), nil
	}

	db, err := openDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	pg := store.NewPGStore(db)
	if err := pg.Init(ctx); err != nil {
		return nil, err
	}
	log.Info().Msg("using Postgres store")
	return pg, nil
}
