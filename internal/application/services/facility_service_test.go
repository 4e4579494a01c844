package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/sportmap/backend/internal/domain/entities"
	"github.com/courtside/sportmap/backend/internal/domain/repositories"
)

type fakeSearchRepo struct {
	indexed  []*entities.Facility
	indexErr error
	results  []*entities.Facility
}

func (r *fakeSearchRepo) Search(ctx context.Context, params repositories.SearchParams) ([]*entities.Facility, error) {
	return r.results, nil
}

func (r *fakeSearchRepo) Index(ctx context.Context, facility *entities.Facility) error {
	if r.indexErr != nil {
		return r.indexErr
	}
	r.indexed = append(r.indexed, facility)
	return nil
}

func (r *fakeSearchRepo) Delete(ctx context.Context, id string) error {
	return nil
}

type fakeEventBus struct {
	published []*entities.FacilityEvent
}

func (b *fakeEventBus) Publish(ctx context.Context, channel string, event *entities.FacilityEvent) error {
	b.published = append(b.published, event)
	return nil
}

func (b *fakeEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.FacilityEvent, error) {
	return nil, nil
}

func (b *fakeEventBus) Unsubscribe(ctx context.Context, channel string) error { return nil }

func (b *fakeEventBus) Close() error { return nil }

func seedFacility(name string) *entities.Facility {
	return &entities.Facility{
		Name:      name,
		SportType: "basketball",
		District:  "wan_chai",
		Address:   "1 Hing Fat Street",
		Location:  entities.Location{Latitude: 22.2823, Longitude: 114.1895},
		IsActive:  true,
	}
}

func TestFacilityServiceCreate(t *testing.T) {
	t.Run("assigns ID and timestamps, indexes and publishes", func(t *testing.T) {
		repo := newFakeFacilityRepo()
		searchRepo := &fakeSearchRepo{}
		bus := &fakeEventBus{}
		service := NewFacilityService(repo, searchRepo, bus)

		facility := seedFacility("Victoria Park Basketball Courts")
		require.NoError(t, service.Create(context.Background(), facility))

		assert.NotEmpty(t, facility.ID)
		assert.False(t, facility.CreatedAt.IsZero())
		assert.Equal(t, 1, repo.count())
		require.Len(t, searchRepo.indexed, 1)
		require.Len(t, bus.published, 1)
		assert.Equal(t, entities.FacilityEventTypeImported, bus.published[0].EventType)
	})

	t.Run("succeeds without search repo or event bus", func(t *testing.T) {
		repo := newFakeFacilityRepo()
		service := NewFacilityService(repo, nil, nil)

		require.NoError(t, service.Create(context.Background(), seedFacility("Kowloon Tsai Park Pitch")))
		assert.Equal(t, 1, repo.count())
	})

	t.Run("index failure does not fail the create", func(t *testing.T) {
		repo := newFakeFacilityRepo()
		searchRepo := &fakeSearchRepo{indexErr: errors.New("typesense down")}
		service := NewFacilityService(repo, searchRepo, nil)

		require.NoError(t, service.Create(context.Background(), seedFacility("Hong Kong Park Sports Centre")))
		assert.Equal(t, 1, repo.count())
	})
}

func TestFacilityServiceSearch(t *testing.T) {
	t.Run("uses search engine when available", func(t *testing.T) {
		repo := newFakeFacilityRepo()
		searchRepo := &fakeSearchRepo{results: []*entities.Facility{seedFacility("Victoria Park Basketball Courts")}}
		service := NewFacilityService(repo, searchRepo, nil)

		results, err := service.Search(context.Background(), repositories.SearchParams{Query: "basketball"})
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("falls back to active database listing", func(t *testing.T) {
		repo := newFakeFacilityRepo()
		service := NewFacilityService(repo, nil, nil)
		require.NoError(t, service.Create(context.Background(), seedFacility("Kennedy Town Swimming Pool")))

		results, err := service.Search(context.Background(), repositories.SearchParams{})
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})
}
