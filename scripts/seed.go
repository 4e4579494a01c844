package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/courtside/sportmap/backend/internal/adapters/database"
	"github.com/courtside/sportmap/backend/internal/adapters/search"
	"github.com/courtside/sportmap/backend/internal/application/services"
	"github.com/courtside/sportmap/backend/internal/domain/entities"
	"github.com/courtside/sportmap/backend/internal/domain/repositories"
	"github.com/courtside/sportmap/backend/internal/infrastructure/clients/postgres"
	"github.com/courtside/sportmap/backend/internal/infrastructure/clients/typesense"
	"github.com/courtside/sportmap/backend/pkg/config"
)

func intPtr(v int) *int { return &v }

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	var searchRepo repositories.FacilitySearchRepository
	if tsClient, err := typesense.NewClient(&cfg.Typesense); err != nil {
		log.Printf("Typesense unavailable, seeding without search indexing: %v", err)
	} else {
		adapter := search.NewTypesenseAdapter(tsClient)
		adapter.InitSchema(context.Background())
		searchRepo = adapter
	}

	facilityRepo := database.NewFacilityAdapter(pgClient)
	reviewRepo := database.NewReviewAdapter(pgClient)
	facilityService := services.NewFacilityService(facilityRepo, searchRepo, nil)
	ratingService := services.NewRatingService(facilityRepo, reviewRepo, nil)

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				reviews,
				facilities
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	// 1. Seed facilities
	facilities := []*entities.Facility{
		{
			Name:      "Victoria Park Basketball Courts",
			SportType: "basketball",
			District:  "wan_chai",
			Address:   "1 Hing Fat Street, Causeway Bay",
			Location:  entities.Location{Latitude: 22.2823, Longitude: 114.1895},
			OpenTime:  "06:00",
			CloseTime: "23:00",
			Courts:    intPtr(6),
			Amenities: []string{"lights", "water_fountain", "toilets"},
			IsActive:  true,
		},
		{
			Name:      "Kowloon Tsai Park Pitch",
			SportType: "soccer",
			District:  "kowloon_city",
			Address:   "13 Inverness Road, Kowloon City",
			Location:  entities.Location{Latitude: 22.3335, Longitude: 114.1825},
			OpenTime:  "07:00",
			CloseTime: "22:00",
			Amenities: []string{"changing_rooms", "parking"},
			IsActive:  true,
		},
		{
			Name:      "Hong Kong Park Sports Centre",
			SportType: "badminton",
			District:  "central",
			Address:   "29 Cotton Tree Drive, Central",
			Location:  entities.Location{Latitude: 22.2771, Longitude: 114.1613},
			OpenTime:  "07:00",
			CloseTime: "23:00",
			Courts:    intPtr(8),
			Amenities: []string{"air_conditioning", "showers", "parking"},
			IsActive:  true,
		},
		{
			Name:      "Kennedy Town Swimming Pool",
			SportType: "swimming",
			District:  "western",
			Address:   "12N Smithfield Road, Kennedy Town",
			Location:  entities.Location{Latitude: 22.2818, Longitude: 114.1282},
			OpenTime:  "06:30",
			CloseTime: "22:00",
			Amenities: []string{"lockers", "showers"},
			IsActive:  true,
		},
	}

	for _, facility := range facilities {
		if err := facilityService.Create(ctx, facility); err != nil {
			log.Printf("Failed to create facility %s: %v", facility.Name, err)
		}
	}

	// 2. Seed reviews directly; review writes belong to the community feature
	// set, so there is no repository method for them here.
	ratings := map[string][]int{
		facilities[0].ID: {5, 4, 4},
		facilities[1].ID: {3, 4},
		facilities[2].ID: {5},
	}

	for facilityID, values := range ratings {
		for _, value := range values {
			_, err := pgClient.DB().ExecContext(ctx, `
				INSERT INTO reviews (id, facility_id, user_id, rating, comment, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, uuid.New().String(), facilityID, uuid.New().String(), value, "seeded review", time.Now())
			if err != nil {
				log.Printf("Failed to create review for %s: %v", facilityID, err)
			}
		}
	}

	// 3. Prime the cached rating aggregates
	if err := ratingService.RefreshAllCaches(ctx); err != nil {
		log.Printf("Failed to refresh rating aggregates: %v", err)
	}

	log.Printf("Seeded %d facilities", len(facilities))
}
