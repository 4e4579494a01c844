package search

import (
	"context"
	"fmt"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/courtside/sportmap/backend/internal/domain/entities"
	"github.com/courtside/sportmap/backend/internal/domain/repositories"
	tsclient "github.com/courtside/sportmap/backend/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter implements facility search indexing using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ repositories.FacilitySearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the facilities collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	return a.client.InitSchema(ctx)
}

// Index upserts a facility document
func (a *TypesenseAdapter) Index(ctx context.Context, facility *entities.Facility) error {
	document := map[string]interface{}{
		"id":           facility.ID,
		"name":         facility.Name,
		"sport_type":   facility.SportType,
		"district":     facility.District,
		"address":      facility.Address,
		"location":     []float64{facility.Location.Latitude, facility.Location.Longitude},
		"review_count": facility.ReviewCount,
		"is_active":    facility.IsActive,
		"created_at":   facility.CreatedAt.Unix(),
	}
	if facility.Rating != nil {
		document["rating"] = *facility.Rating
	}
	if len(facility.Amenities) > 0 {
		document["amenities"] = facility.Amenities
	}

	_, err := a.client.Client().Collection(tsclient.FacilitiesCollection).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index facility: %w", err)
	}

	return nil
}

// Delete removes a facility from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.FacilitiesCollection).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete facility from index: %w", err)
	}
	return nil
}

// Search searches facilities by text query, sport type, district and location
func (a *TypesenseAdapter) Search(ctx context.Context, params repositories.SearchParams) ([]*entities.Facility, error) {
	query := params.Query
	if query == "" {
		query = "*"
	}

	filter := "is_active:=true"
	if params.SportType != "" {
		filter += fmt.Sprintf(" && sport_type:=%s", params.SportType)
	}
	if params.District != "" {
		filter += fmt.Sprintf(" && district:=%s", params.District)
	}
	if params.RadiusKm > 0 {
		filter += fmt.Sprintf(" && location:(%f, %f, %f km)", params.Latitude, params.Longitude, params.RadiusKm)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String(query),
		QueryBy:  pointer.String("name,address"),
		FilterBy: pointer.String(filter),
		Page:     pointer.Int(params.Offset/limit + 1),
		PerPage:  pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.FacilitiesCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search facilities: %w", err)
	}

	facilities := []*entities.Facility{}
	if result.Hits == nil {
		return facilities, nil
	}

	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		facilities = append(facilities, documentToFacility(*hit.Document))
	}

	return facilities, nil
}

// documentToFacility rebuilds a partial facility from a search document.
// Callers needing full detail should fetch by ID from the repository.
func documentToFacility(doc map[string]interface{}) *entities.Facility {
	facility := &entities.Facility{}

	if v, ok := doc["id"].(string); ok {
		facility.ID = v
	}
	if v, ok := doc["name"].(string); ok {
		facility.Name = v
	}
	if v, ok := doc["sport_type"].(string); ok {
		facility.SportType = v
	}
	if v, ok := doc["district"].(string); ok {
		facility.District = v
	}
	if v, ok := doc["address"].(string); ok {
		facility.Address = v
	}
	if v, ok := doc["is_active"].(bool); ok {
		facility.IsActive = v
	}
	if loc, ok := doc["location"].([]interface{}); ok && len(loc) == 2 {
		if lat, ok := loc[0].(float64); ok {
			facility.Location.Latitude = lat
		}
		if lng, ok := loc[1].(float64); ok {
			facility.Location.Longitude = lng
		}
	}
	if v, ok := doc["rating"].(float64); ok {
		facility.Rating = &v
	}
	if v, ok := doc["review_count"].(float64); ok {
		facility.ReviewCount = int(v)
	}

	return facility
}
