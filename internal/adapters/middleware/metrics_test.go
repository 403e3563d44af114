package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	route, method string
	code          int
}

type recordingObserver struct {
	mu  sync.Mutex
	obs []observation
}

func (o *recordingObserver) ObserveRequest(route, method string, code int, elapsed time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.obs = append(o.obs, observation{route, method, code})
}

func TestRequestMetrics(t *testing.T) {
	observer := &recordingObserver{}
	r := chi.NewRouter()
	r.Use(RequestMetrics(observer))
	r.Get("/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, path := range []string{"/events/a", "/events/b", "/health", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Len(t, observer.obs, 4)
	assert.Equal(t, observation{"/events/{id}", http.MethodGet, http.StatusNotFound}, observer.obs[0])
	assert.Equal(t, observation{"/events/{id}", http.MethodGet, http.StatusNotFound}, observer.obs[1])
	assert.Equal(t, observation{"/health", http.MethodGet, http.StatusOK}, observer.obs[2])
	assert.Equal(t, http.StatusNotFound, observer.obs[3].code)
}
