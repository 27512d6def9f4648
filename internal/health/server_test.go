package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	exists bool
	err    error
}

func (s stubStore) TableExists(ctx context.Context, table string) (bool, error) {
	return s.exists, s.err
}

func serve(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	srv.Register(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthAndLive(t *testing.T) {
	srv := NewServer(Config{ServiceName: "trackodds", Version: "1.0.0", StoreDriver: "memory"})

	for _, path := range []string{"/health", "/live"} {
		t.Run(path, func(t *testing.T) {
			rec := serve(t, srv, path)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, "ok", body.Status)
			assert.Equal(t, "trackodds", body.Service)
		})
	}
}

func TestReady(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		store      StoreChecker
		wantStatus int
		wantStore  string
	}{
		{name: "ready without store", ready: true, wantStatus: http.StatusOK},
		{name: "ready with store", ready: true, store: stubStore{exists: true}, wantStatus: http.StatusOK, wantStore: "ok"},
		{name: "not marked ready", ready: false, store: stubStore{exists: true}, wantStatus: http.StatusServiceUnavailable, wantStore: "ok"},
		{name: "store error", ready: true, store: stubStore{err: errors.New("dial tcp: refused")}, wantStatus: http.StatusServiceUnavailable, wantStore: "error: dial tcp: refused"},
		{name: "table missing", ready: true, store: stubStore{}, wantStatus: http.StatusServiceUnavailable, wantStore: "missing table drivers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := NewServer(Config{ServiceName: "trackodds", Store: tt.store})
			srv.SetReady(tt.ready)

			rec := serve(t, srv, "/ready")
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body ReadyResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantStore, body.Checks["store"])
		})
	}
}
