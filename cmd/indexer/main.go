package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtside/sportmap/backend/internal/adapters/database"
	"github.com/courtside/sportmap/backend/internal/adapters/search"
	"github.com/courtside/sportmap/backend/internal/domain/repositories"
	"github.com/courtside/sportmap/backend/internal/infrastructure/clients/postgres"
	"github.com/courtside/sportmap/backend/internal/infrastructure/clients/typesense"
	"github.com/courtside/sportmap/backend/internal/infrastructure/observability"
	"github.com/courtside/sportmap/backend/pkg/config"
)

const reindexBatchSize = 500

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete the existing Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	var err error
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatal().Str("interval", intervalValue).Err(err).Msg("invalid interval")
		}
		if interval <= 0 {
			log.Fatal().Msg("interval must be greater than zero")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, cfg, reset); err != nil {
			log.Error().Err(err).Msg("reindex failed")
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Info().Dur("next_run_in", interval).Msg("reindex complete")

		select {
		case <-ctx.Done():
			log.Info().Msg("reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, cfg *config.Config, reset bool) error {
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	facilityRepo := database.NewFacilityAdapter(pgClient)

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Info().Msg("deleting facilities collection before reindex")
		if _, err := tsClient.Client().Collection(typesense.FacilitiesCollection).Delete(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to delete collection")
		}
	}

	if err := tsClient.InitSchema(ctx); err != nil {
		return err
	}

	adapter := search.NewTypesenseAdapter(tsClient)

	indexed := 0
	failed := 0
	offset := 0
	for {
		facilities, err := facilityRepo.List(ctx, repositories.FacilityFilter{
			Limit:  reindexBatchSize,
			Offset: offset,
		})
		if err != nil {
			return err
		}
		if len(facilities) == 0 {
			break
		}

		for _, facility := range facilities {
			if err := adapter.Index(ctx, facility); err != nil {
				log.Warn().Err(err).Str("facility_id", facility.ID).Msg("failed to index facility")
				failed++
				continue
			}
			indexed++
		}

		offset += len(facilities)
	}

	log.Info().Int("indexed", indexed).Int("failed", failed).Msg("facility reindex finished")
	return nil
}
