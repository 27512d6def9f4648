package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/trackodds/internal/models"
	"github.com/yourusername/trackodds/internal/repository"
)

const testAPIKey = "anon-key"

// storeTables maps a table name to the JSON body served for it
type storeTables map[string]string

// requestLog records the requests a test store received
type requestLog struct {
	mu   sync.Mutex
	reqs []*http.Request
}

func (l *requestLog) add(r *http.Request) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reqs = append(l.reqs, r.Clone(context.Background()))
}

func (l *requestLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.reqs)
}

func (l *requestLog) query(i int) url.Values {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reqs[i].URL.Query()
}

func newTestStore(t *testing.T, tables storeTables) (*httptest.Server, *requestLog) {
	t.Helper()
	seen := &requestLog{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.add(r)

		if r.Header.Get("apikey") != testAPIKey || r.Header.Get("Authorization") != "Bearer "+testAPIKey {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid API key"}`))
			return
		}

		table := strings.TrimPrefix(r.URL.Path, "/rest/v1/")
		body, ok := tables[table]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":"PGRST205","message":"Could not find the table 'public.` + table + `' in the schema cache"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func newTestClient(t *testing.T, baseURL string) *RESTClient {
	t.Helper()
	cfg := DefaultHTTPClientConfig()
	cfg.Timeout = 2 * time.Second
	cfg.RateLimit = 0

	client, err := NewRESTClient(NewRateLimitedHTTPClient(cfg, nil), baseURL, testAPIKey, nil)
	require.NoError(t, err)
	return client
}

func TestNewRESTClientValidation(t *testing.T) {
	httpClient := NewRateLimitedHTTPClient(DefaultHTTPClientConfig(), nil)

	tests := []struct {
		name    string
		http    *RateLimitedHTTPClient
		url     string
		key     string
		wantErr bool
	}{
		{name: "valid", http: httpClient, url: "https://project.supabase.co", key: testAPIKey},
		{name: "missing http client", url: "https://project.supabase.co", key: testAPIKey, wantErr: true},
		{name: "bad url", http: httpClient, url: "not a url", key: testAPIKey, wantErr: true},
		{name: "missing key", http: httpClient, url: "https://project.supabase.co", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRESTClient(tt.http, tt.url, tt.key, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRESTDrivers(t *testing.T) {
	srv, seen := newTestStore(t, storeTables{
		"drivers": `[
			{"id": "d1", "name": "Kyle Larson", "number": 5, "team": "Hendrick Motorsports", "manufacturer": "Chevrolet", "is_active": true},
			{"id": "d2", "name": "Denny Hamlin", "number": "11", "team": null, "manufacturer": "Toyota", "is_active": null}
		]`,
	})
	repos := NewRESTRepositories(newTestClient(t, srv.URL), "")

	drivers, err := repos.Driver.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, drivers, 2)

	assert.Equal(t, "5", drivers[0].Number, "numeric driver number read as text")
	assert.Empty(t, drivers[1].Team)
	assert.True(t, drivers[1].IsActive, "missing is_active reads as active")

	require.Equal(t, 1, seen.count())
	q := seen.query(0)
	assert.Equal(t, "*", q.Get("select"))
	assert.Equal(t, "eq.true", q.Get("is_active"))
	assert.Equal(t, "name.asc", q.Get("order"))
}

func TestRESTDriverByNameExactMatch(t *testing.T) {
	srv, _ := newTestStore(t, storeTables{
		"drivers": `[
			{"id": "d1", "name": "Kyle Larson", "is_active": false},
			{"id": "d3", "name": "Kyle Larsonn", "is_active": true},
			{"id": "d2", "name": "kyle larson", "is_active": true}
		]`,
	})
	repos := NewRESTRepositories(newTestClient(t, srv.URL), "")

	d, err := repos.Driver.FindByName(context.Background(), "Kyle Larson")
	require.NoError(t, err)
	assert.Equal(t, "d2", d.ID)
}

func TestRESTGetByIDNotFound(t *testing.T) {
	srv, seen := newTestStore(t, storeTables{"drivers": `[]`})
	repos := NewRESTRepositories(newTestClient(t, srv.URL), "")

	_, err := repos.Driver.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	q := seen.query(0)
	assert.Equal(t, "eq.missing", q.Get("id"))
	assert.Equal(t, "1", q.Get("limit"))
}

func TestRESTOddsAndRaces(t *testing.T) {
	srv, seen := newTestStore(t, storeTables{
		"odds": `[
			{"driver_id": "d1", "race_id": "r1", "sportsbook": "DraftKings", "market": "race_winner", "odds": "450", "created_at": "2026-02-14T12:00:00+00:00"},
			{"driver_id": "d1", "race_id": "r1", "sportsbook": "fanduel", "market": null, "odds": 500, "created_at": "2026-02-13 12:00:00"}
		]`,
		"races": `[{"id": 7, "name": "Daytona 500", "scheduled_date": "2026-02-15", "track_id": 1}]`,
	})
	repos := NewRESTRepositories(newTestClient(t, srv.URL), "")
	ctx := context.Background()

	quotes, err := repos.Odds.ListByRace(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, models.SportsbookDraftKings, quotes[0].Sportsbook, "book names are lowercased")
	assert.Equal(t, 450, quotes[0].Odds)
	assert.Equal(t, time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC), quotes[1].CreatedAt)
	assert.Equal(t, "created_at.desc", seen.query(0).Get("order"))

	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	race, err := repos.Race.NextUpcoming(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, "7", race.ID)
	assert.Equal(t, "1", race.TrackID)
	assert.Equal(t, "gte.2026-02-01T00:00:00Z", seen.query(1).Get("scheduled_date"))
}

func TestRESTResultsColumnAliases(t *testing.T) {
	srv, seen := newTestStore(t, storeTables{
		"race_results": `[
			{"driver_id": "d1", "race_id": "r1", "start_pos": 3, "finish_pos": 1, "laps_led": 20, "laps_completed": 200, "driver_rating": "120.5", "status": "running"},
			{"driver_id": "d2", "race_id": "r1", "start_position": 8, "finish_position": 40, "laps_led": null, "driver_rating": 40, "status": "accident"}
		]`,
	})
	repos := NewRESTRepositories(newTestClient(t, srv.URL), "race_results")

	results, err := repos.Result.ListByDrivers(context.Background(), []string{"d1", "d2"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 3, results[0].StartPos)
	assert.Equal(t, 120.5, results[0].DriverRating)
	assert.Equal(t, 8, results[1].StartPos)
	assert.Equal(t, 40, results[1].FinishPos)
	assert.Equal(t, 0, results[1].LapsLed)

	assert.Equal(t, `in.("d1","d2")`, seen.query(0).Get("driver_id"))

	empty, err := repos.Result.ListByDrivers(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Equal(t, 1, seen.count(), "no request for an empty id list")
}

func TestRESTStoreErrors(t *testing.T) {
	srv, _ := newTestStore(t, storeTables{})
	ctx := context.Background()

	t.Run("missing table", func(t *testing.T) {
		repos := NewRESTRepositories(newTestClient(t, srv.URL), "")
		_, err := repos.Track.List(ctx)

		var storeErr *StoreError
		require.True(t, errors.As(err, &storeErr))
		assert.Equal(t, http.StatusNotFound, storeErr.Status)
		assert.Equal(t, "PGRST205", storeErr.Code)
		assert.True(t, storeErr.IsMissingRelation())
		assert.Contains(t, err.Error(), "tracks")
	})

	t.Run("bad key", func(t *testing.T) {
		cfg := DefaultHTTPClientConfig()
		cfg.RateLimit = 0
		client, err := NewRESTClient(NewRateLimitedHTTPClient(cfg, nil), srv.URL, "wrong", nil)
		require.NoError(t, err)

		_, err = NewRESTRepositories(client, "").Driver.List(ctx)
		var storeErr *StoreError
		require.True(t, errors.As(err, &storeErr))
		assert.Equal(t, http.StatusUnauthorized, storeErr.Status)
		assert.Equal(t, "Invalid API key", storeErr.Message)
		assert.False(t, storeErr.IsMissingRelation())
	})
}

func TestRESTServerErrorRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("upstream unavailable"))
			return
		}
		_, _ = w.Write([]byte(`[{"id": "t1", "name": "Daytona International Speedway", "type": "superspeedway", "length": 2.5}]`))
	}))
	t.Cleanup(srv.Close)

	tests := []struct {
		name       string
		maxRetries int
		wantErr    bool
	}{
		{name: "no retries surfaces the status", maxRetries: 0, wantErr: true},
		{name: "retries recover", maxRetries: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atomic.StoreInt32(&calls, 0)
			cfg := DefaultHTTPClientConfig()
			cfg.MaxRetries = tt.maxRetries
			cfg.RetryWaitMin = time.Millisecond
			cfg.RetryWaitMax = 5 * time.Millisecond
			cfg.RateLimit = 0
			client, err := NewRESTClient(NewRateLimitedHTTPClient(cfg, nil), srv.URL, testAPIKey, nil)
			require.NoError(t, err)

			tracks, err := NewRESTRepositories(client, "").Track.List(context.Background())
			if tt.wantErr {
				var storeErr *StoreError
				require.True(t, errors.As(err, &storeErr))
				assert.Equal(t, http.StatusServiceUnavailable, storeErr.Status)
				assert.Equal(t, "upstream unavailable", storeErr.Message)
				return
			}
			require.NoError(t, err)
			require.Len(t, tracks, 1)
			assert.Equal(t, "superspeedway", tracks[0].RawType)
		})
	}
}

func TestRESTSchema(t *testing.T) {
	srv, _ := newTestStore(t, storeTables{
		"drivers": `[{"name": "Kyle Larson", "id": "d1", "is_active": true}]`,
		"results": `[]`,
	})
	repos := NewRESTRepositories(newTestClient(t, srv.URL), "")
	ctx := context.Background()

	cols, err := repos.Schema.Columns(ctx, repository.TableDrivers)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "is_active", "name"}, cols)

	cols, err = repos.Schema.Columns(ctx, repository.TableResults)
	require.NoError(t, err)
	assert.Empty(t, cols)

	for _, tt := range []struct {
		table string
		want  bool
	}{
		{table: "results", want: true},
		{table: "race_results", want: false},
	} {
		ok, err := repos.Schema.TableExists(ctx, tt.table)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, tt.table)
	}
}

func TestRESTCanceledContext(t *testing.T) {
	srv, _ := newTestStore(t, storeTables{"drivers": `[]`})
	repos := NewRESTRepositories(newTestClient(t, srv.URL), "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repos.Driver.List(ctx)
	assert.Error(t, err)
}
