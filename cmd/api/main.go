package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/courtside/sportmap/backend/internal/adapters/cache"
	"github.com/courtside/sportmap/backend/internal/adapters/database"
	"github.com/courtside/sportmap/backend/internal/adapters/events"
	"github.com/courtside/sportmap/backend/internal/adapters/search"
	"github.com/courtside/sportmap/backend/internal/api/handlers"
	"github.com/courtside/sportmap/backend/internal/api/routes"
	"github.com/courtside/sportmap/backend/internal/application/services"
	"github.com/courtside/sportmap/backend/internal/domain/providers"
	"github.com/courtside/sportmap/backend/internal/domain/repositories"
	"github.com/courtside/sportmap/backend/internal/infrastructure/clients/postgres"
	"github.com/courtside/sportmap/backend/internal/infrastructure/clients/redis"
	"github.com/courtside/sportmap/backend/internal/infrastructure/clients/typesense"
	"github.com/courtside/sportmap/backend/internal/infrastructure/observability"
	"github.com/courtside/sportmap/backend/pkg/config"
)

func main() {

	// Load configuration

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized successfully")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		// Continue without Redis; caching and idempotency degrade gracefully
		log.Warn().Err(err).Msg("failed to initialize Redis client")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized successfully")
	}

	// Initialize Typesense client
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Typesense client")
		typesenseClient = nil
	} else {
		log.Info().Msg("Typesense client initialized successfully")
	}

	// Initialize adapters

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Create base facility adapter
	baseFacilityAdapter := database.NewFacilityAdapter(pgClient)

	// Wrap with caching if Redis is available
	var facilityAdapter repositories.FacilityRepository
	if cacheProvider != nil {
		facilityAdapter = database.NewCachedFacilityAdapter(baseFacilityAdapter, cacheProvider)
		log.Info().Msg("facility adapter wrapped with caching layer")
	} else {
		facilityAdapter = baseFacilityAdapter
		log.Warn().Msg("facility adapter running without cache (Redis unavailable)")
	}

	reviewAdapter := database.NewReviewAdapter(pgClient)

	var searchRepo repositories.FacilitySearchRepository
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)

		// Ensure schema exists
		if err := adapter.InitSchema(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to init Typesense schema")
		}

		searchRepo = adapter
	}

	// Initialize event bus for real-time updates
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("event bus initialized successfully")
	} else {
		log.Info().Msg("event bus disabled (Redis not available)")
	}

	// Initialize services

	facilityService := services.NewFacilityService(facilityAdapter, searchRepo, eventBus)
	importService := services.NewImportService(facilityAdapter, facilityService)
	ratingService := services.NewRatingService(facilityAdapter, reviewAdapter, eventBus)

	// Initialize handlers

	facilityHandler := handlers.NewFacilityHandler(facilityService)
	ratingHandler := handlers.NewRatingHandler(ratingService)

	var streamHandler *handlers.StreamHandler
	if eventBus != nil {
		streamHandler = handlers.NewStreamHandler(eventBus)
	}

	var rawRedis *redislib.Client
	if redisClient != nil {
		rawRedis = redisClient.Client()
	}

	importHandler := handlers.NewImportHandler(
		importService,
		rawRedis,
		metrics,
		cfg.Import.MaxPayloadBytes,
		time.Duration(cfg.Import.IdempotencyTTLHours)*time.Hour,
	)

	// Set up router

	router := routes.NewRouter(
		facilityHandler,
		ratingHandler,
		importHandler,
		streamHandler,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("error closing event bus")
		}
	}

	log.Info().Msg("server stopped")
}
