package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/sportmap/backend/internal/api/handlers"
	"github.com/courtside/sportmap/backend/internal/api/middleware"
	"github.com/courtside/sportmap/backend/internal/domain/entities"
	"github.com/courtside/sportmap/backend/internal/domain/providers"
	"github.com/courtside/sportmap/backend/internal/infrastructure/observability"
)

// memoryEventBus fans events out to in-process subscribers
type memoryEventBus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan *entities.FacilityEvent
}

func newMemoryEventBus() *memoryEventBus {
	return &memoryEventBus{subscribers: make(map[string][]chan *entities.FacilityEvent)}
}

func (b *memoryEventBus) Publish(ctx context.Context, channel string, event *entities.FacilityEvent) error {
	b.mu.RLock()
	channels := append([]chan *entities.FacilityEvent(nil), b.subscribers[channel]...)
	b.mu.RUnlock()

	for _, ch := range channels {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (b *memoryEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.FacilityEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan *entities.FacilityEvent, 10)
	b.subscribers[channel] = append(b.subscribers[channel], ch)
	return ch, nil
}

func (b *memoryEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscribers, channel)
	return nil
}

func (b *memoryEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, channels := range b.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}
	b.subscribers = make(map[string][]chan *entities.FacilityEvent)
	return nil
}

func runStream(t *testing.T, serve func(http.ResponseWriter, *http.Request), req *http.Request, during func()) *httptest.ResponseRecorder {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		serve(w, req)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	if during != nil {
		during()
		time.Sleep(200 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not exit after cancel")
	}

	return w
}

func TestStreamFacilityUpdates(t *testing.T) {
	eventBus := newMemoryEventBus()
	handler := handlers.NewStreamHandler(eventBus)

	t.Run("establishes stream and flushes connected event", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/stream/facilities/fac-1", nil)
		req.SetPathValue("id", "fac-1")

		w := runStream(t, handler.StreamFacilityUpdates, req, nil)

		assert.Equal(t, "text/event-stream", w.Result().Header.Get("Content-Type"))
		assert.Equal(t, "no-cache", w.Result().Header.Get("Cache-Control"))
		assert.True(t, w.Flushed)
		assert.Contains(t, w.Body.String(), "event: connected")
	})

	t.Run("forwards facility events to the client", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/stream/facilities/fac-2", nil)
		req.SetPathValue("id", "fac-2")

		w := runStream(t, handler.StreamFacilityUpdates, req, func() {
			event := entities.NewFacilityEvent("fac-2", entities.FacilityEventTypeRatingRefreshed,
				entities.Location{Latitude: 22.28, Longitude: 114.19},
				map[string]interface{}{"rating": 4.5})
			eventBus.Publish(context.Background(), providers.GetFacilityChannel("fac-2"), event)
		})

		body := w.Body.String()
		assert.Contains(t, body, "event: rating_refreshed")
		assert.Contains(t, body, `"facility_id":"fac-2"`)
	})

	t.Run("rejects missing facility ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/stream/facilities/", nil)
		w := httptest.NewRecorder()

		handler.StreamFacilityUpdates(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStreamNearbyUpdates(t *testing.T) {
	eventBus := newMemoryEventBus()
	handler := handlers.NewStreamHandler(eventBus)

	t.Run("filters events outside the radius", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/stream/facilities/nearby?lat=22.2819&lng=114.1882&radius=5", nil)

		w := runStream(t, handler.StreamNearbyUpdates, req, func() {
			near := entities.NewFacilityEvent("fac-near", entities.FacilityEventTypeRatingRefreshed,
				entities.Location{Latitude: 22.2820, Longitude: 114.1890},
				map[string]interface{}{"rating": 4.0})
			far := entities.NewFacilityEvent("fac-far", entities.FacilityEventTypeRatingRefreshed,
				entities.Location{Latitude: 25.03, Longitude: 121.56},
				map[string]interface{}{"rating": 2.0})
			eventBus.Publish(context.Background(), providers.EventChannelFacilityUpdates, near)
			eventBus.Publish(context.Background(), providers.EventChannelFacilityUpdates, far)
		})

		body := w.Body.String()
		assert.Contains(t, body, "fac-near")
		assert.NotContains(t, body, "fac-far")
	})

	t.Run("requires lat and lng", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/stream/facilities/nearby?lat=abc&lng=114.19", nil)
		w := httptest.NewRecorder()

		handler.StreamNearbyUpdates(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// TestStreamThroughMiddlewareChain runs a stream request through the same
// wrapper order the router installs. Every wrapper must pass Flush through,
// otherwise events sit in the response buffer and clients never see them.
func TestStreamThroughMiddlewareChain(t *testing.T) {
	eventBus := newMemoryEventBus()
	streamHandler := handlers.NewStreamHandler(eventBus)

	metrics, err := observability.InitMetrics()
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/stream/facilities/{id}", streamHandler.StreamFacilityUpdates)

	var chain http.Handler = mux
	chain = middleware.LoggingMiddleware(chain)
	chain = middleware.ObservabilityMiddleware(metrics)(chain)
	chain = middleware.CORSMiddleware(chain)

	req := httptest.NewRequest("GET", "/api/v1/stream/facilities/fac-3", nil)
	w := runStream(t, chain.ServeHTTP, req, func() {
		event := entities.NewFacilityEvent("fac-3", entities.FacilityEventTypeRatingRefreshed,
			entities.Location{Latitude: 22.28, Longitude: 114.19},
			map[string]interface{}{"rating": 3.7})
		eventBus.Publish(context.Background(), providers.GetFacilityChannel("fac-3"), event)
	})

	assert.True(t, w.Flushed, "flush must reach the underlying writer")
	assert.Equal(t, "text/event-stream", w.Result().Header.Get("Content-Type"))

	body := w.Body.String()
	assert.True(t, strings.Contains(body, "event: connected"), "connected event missing: %q", body)
	assert.Contains(t, body, `"facility_id":"fac-3"`)
}
