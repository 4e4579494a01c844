package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtside/sportmap/backend/internal/adapters/database"
	"github.com/courtside/sportmap/backend/internal/application/services"
	"github.com/courtside/sportmap/backend/internal/infrastructure/clients/postgres"
	"github.com/courtside/sportmap/backend/internal/infrastructure/observability"
	"github.com/courtside/sportmap/backend/pkg/config"
)

func main() {
	var facilityID string

	flag.StringVar(&facilityID, "facility", "", "Single facility ID to recompute")
	flag.Parse()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	// Setup DB
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pgClient.Close()

	// Setup repos
	facilityRepo := database.NewFacilityAdapter(pgClient)
	reviewRepo := database.NewReviewAdapter(pgClient)

	// Setup service (no event bus; this is a one-shot maintenance run)
	svc := services.NewRatingService(facilityRepo, reviewRepo, nil)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	start := time.Now()

	if facilityID != "" {
		log.Info().Str("facility_id", facilityID).Msg("recomputing single facility rating")
		if err := svc.RefreshCache(ctx, facilityID); err != nil {
			log.Fatal().Err(err).Str("facility_id", facilityID).Msg("failed to recompute rating")
		}
		log.Info().Str("facility_id", facilityID).Msg("rating recomputed")
	} else {
		log.Info().Msg("recomputing all facility ratings")
		if err := svc.RefreshAllCaches(ctx); err != nil {
			log.Fatal().Err(err).Msg("recompute failed")
		}
		log.Info().Dur("elapsed", time.Since(start)).Msg("recompute complete")
	}
}
