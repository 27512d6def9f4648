package web

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jszwec/csvutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/trackodds/internal/config"
	"github.com/yourusername/trackodds/internal/odds"
	"github.com/yourusername/trackodds/internal/repository"
	"github.com/yourusername/trackodds/internal/service"
)

const fixturePath = "../repository/testdata/fixture.json"

// fixtureNow is a day before the 2026 Daytona 500 in the fixture
var fixtureNow = time.Date(2026, 2, 14, 18, 0, 0, 0, time.UTC)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Name: "trackodds", Environment: "development", LogLevel: "info"},
		Server:  config.ServerConfig{Port: 8080, LiveRefreshSeconds: 1},
		Stats:   config.StatsConfig{DefaultRaceRange: 10},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func newTestRouter(t *testing.T, mutate func(*config.Config)) (http.Handler, *repository.MemoryStore) {
	t.Helper()

	f, err := repository.LoadFixtureFile(fixturePath)
	require.NoError(t, err)
	store := repository.NewMemoryStore(f)

	svc := service.NewDataService(repository.NewMemoryRepositories(store), service.DefaultOptions(), quietLogger())
	svc.SetClock(func() time.Time { return fixtureNow })

	cfg := testConfig()
	if mutate != nil {
		mutate(cfg)
	}

	srv, err := NewServer(svc, cfg, nil, quietLogger())
	require.NoError(t, err)
	return srv.Router(), store
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, *goquery.Document) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	return rec, doc
}

func rowIDs(doc *goquery.Document, selector, attr string) []string {
	ids := []string{}
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		ids = append(ids, s.AttrOr(attr, ""))
	})
	return ids
}

func TestNewServerRequiresDependencies(t *testing.T) {
	_, err := NewServer(nil, testConfig(), nil, quietLogger())
	assert.Error(t, err)

	f, err := repository.LoadFixtureFile(fixturePath)
	require.NoError(t, err)
	svc := service.NewDataService(repository.NewMemoryRepositories(repository.NewMemoryStore(f)), service.DefaultOptions(), quietLogger())
	_, err = NewServer(svc, nil, nil, quietLogger())
	assert.Error(t, err)
}

func TestBoardPage(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	tests := []struct {
		name     string
		path     string
		expected []string
	}{
		{name: "full board best odds first", path: "/", expected: []string{"d-hamlin", "d-larson", "d-blaney"}},
		{name: "search by name", path: "/?q=larson", expected: []string{"d-larson"}},
		{name: "search by number", path: "/?q=12", expected: []string{"d-blaney"}},
		{name: "search by team", path: "/?q=gibbs", expected: []string{"d-hamlin"}},
		{name: "no match", path: "/?q=petty", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, doc := get(t, h, tt.path)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.expected, rowIDs(doc, "tr.driver-row", "data-driver"))
			if len(tt.expected) == 0 {
				assert.Equal(t, "No results found", strings.TrimSpace(doc.Find("p.empty-state").Text()))
			}
		})
	}
}

func TestBoardPageCells(t *testing.T) {
	h, _ := newTestRouter(t, nil)
	_, doc := get(t, h, "/")

	assert.Equal(t, "Daytona 500", doc.Find("section.race-header h1").Text())
	assert.Equal(t, "1d 1h 30m to green", strings.TrimSpace(doc.Find("p.countdown").Text()))
	assert.Equal(t, 5, doc.Find("thead th.book").Length())

	larson := doc.Find(`tr.driver-row[data-driver="d-larson"]`)
	assert.Equal(t, 5, larson.Find("td.book-odds").Length())
	assert.Equal(t, "+1100", strings.TrimSpace(larson.Find("td.book-odds.best").Text()))
	assert.Contains(t, larson.Find("td.best-odds").Text(), "+1100")

	blaney := doc.Find(`tr.driver-row[data-driver="d-blaney"]`)
	assert.Equal(t, odds.NotAvailable, strings.TrimSpace(blaney.Find("td.best-odds").Text()))
	assert.Equal(t, 0, blaney.Find("td.book-odds.best").Length())

	assert.Equal(t, "/drivers/kyle-larson", larson.Find("td.driver a").AttrOr("href", ""))
}

func TestBoardPageDegradesWhenStoreFails(t *testing.T) {
	h, store := newTestRouter(t, nil)
	store.Fail(repository.TableDrivers, errors.New("connection refused"))

	rec, doc := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, doc.Find("tr.driver-row").Length())
	assert.Equal(t, "No results found", strings.TrimSpace(doc.Find("p.empty-state").Text()))
}

func TestStatsPage(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	tests := []struct {
		name     string
		path     string
		expected []string
		summary  string
	}{
		{
			name:     "defaults to newest seasons at the upcoming track type",
			path:     "/stats",
			expected: []string{"d-larson", "d-hamlin", "d-blaney"},
			summary:  "3 drivers · 2 results",
		},
		{
			name:     "every season and track type sorted by average finish",
			path:     "/stats?year=all&track_type=all",
			expected: []string{"d-hamlin", "d-larson", "d-blaney"},
			summary:  "3 drivers · 5 results",
		},
		{
			name:     "most races first",
			path:     "/stats?year=all&track_type=all&sort=races&dir=desc",
			expected: []string{"d-larson", "d-hamlin", "d-blaney"},
			summary:  "3 drivers · 5 results",
		},
		{
			name:     "road courses only",
			path:     "/stats?track_type=road",
			expected: []string{"d-larson", "d-hamlin", "d-blaney"},
			summary:  "3 drivers · 1 results",
		},
		{
			name:     "single track",
			path:     "/stats?track_type=all&track=martinsville",
			expected: []string{"d-hamlin", "d-larson", "d-blaney"},
			summary:  "3 drivers · 2 results",
		},
		{
			name:     "search",
			path:     "/stats?q=blaney",
			expected: []string{"d-blaney"},
			summary:  "1 drivers · 0 results",
		},
		{
			name:     "search without match",
			path:     "/stats?q=petty",
			expected: []string{},
			summary:  "0 drivers · 0 results",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, doc := get(t, h, tt.path)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.expected, rowIDs(doc, "tr.grid-row", "data-driver"))
			assert.True(t, strings.HasPrefix(strings.TrimSpace(doc.Find("p.summary").Text()), tt.summary),
				"summary %q", doc.Find("p.summary").Text())
		})
	}
}

func TestStatsPageFilterControls(t *testing.T) {
	h, _ := newTestRouter(t, nil)
	_, doc := get(t, h, "/stats?year=2025&track=daytona&sort=avgFinish&dir=asc")

	assert.Equal(t, []string{"2025"}, rowIDs(doc, "fieldset.years input[checked]", "value"))
	assert.Equal(t, []string{"daytona"}, rowIDs(doc, `select[name="track"] option[selected]`, "value"))
	assert.Equal(t, "10", doc.Find(`select[name="range"] option[selected]`).AttrOr("value", ""))

	active := doc.Find("th.sorted-asc a")
	require.Equal(t, 1, active.Length())
	assert.Equal(t, "Avg Finish", active.Text())
	assert.Contains(t, active.AttrOr("href", ""), "dir=desc")

	assert.Contains(t, doc.Find("a.export").AttrOr("href", ""), "/stats.csv?")
}

func TestStatsPageDefaultView(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	tests := []struct {
		name       string
		path       string
		years      []string
		trackType  string
		exportArgs []string
	}{
		{
			name:       "bare page",
			path:       "/stats",
			years:      []string{"2025"},
			trackType:  "superspeedway",
			exportArgs: []string{"year=2025", "track_type=superspeedway"},
		},
		{
			name:       "explicit all",
			path:       "/stats?year=all&track_type=all",
			years:      []string{},
			trackType:  "",
			exportArgs: []string{"year=all", "track_type=all"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, doc := get(t, h, tt.path)
			require.Equal(t, http.StatusOK, rec.Code)

			assert.Equal(t, tt.years, rowIDs(doc, "fieldset.years input[checked]", "value"))
			assert.Equal(t, tt.trackType, doc.Find(`select[name="track_type"] option[selected]`).AttrOr("value", ""))

			export := doc.Find("a.export").AttrOr("href", "")
			for _, arg := range tt.exportArgs {
				assert.Contains(t, export, arg)
			}
			doc.Find("th.sortable a").Each(func(_ int, a *goquery.Selection) {
				for _, arg := range tt.exportArgs {
					assert.Contains(t, a.AttrOr("href", ""), arg)
				}
			})
		})
	}
}

func TestStatsCSV(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats.csv?year=all&track_type=all&sort=races&dir=desc", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "trackodds-stats.csv")

	var rows []GridCSVRow
	require.NoError(t, csvutil.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 3)

	assert.Equal(t, "d-larson", rows[0].DriverID)
	assert.Equal(t, "Kyle Larson", rows[0].Driver)
	assert.Equal(t, 3, rows[0].Races)
	assert.Equal(t, 1, rows[0].Wins)
	assert.Equal(t, "d-blaney", rows[2].DriverID)
	assert.Equal(t, 0, rows[2].Races)
}

func TestStatsCSVDefaults(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats.csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []GridCSVRow
	require.NoError(t, csvutil.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 3)

	// 2025 superspeedway results only
	assert.Equal(t, "d-larson", rows[0].DriverID)
	assert.Equal(t, 1, rows[0].Races)
	assert.Equal(t, "d-hamlin", rows[1].DriverID)
	assert.Equal(t, 1, rows[1].Races)
}

func TestDriverDashboard(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantRows   int
	}{
		{name: "all results", path: "/driver/d-larson", wantStatus: http.StatusOK, wantRows: 3},
		{name: "track type filter", path: "/driver/d-larson?track_type=road", wantStatus: http.StatusOK, wantRows: 1},
		{name: "year without results", path: "/driver/d-larson?year=2024", wantStatus: http.StatusOK, wantRows: 0},
		{name: "unknown driver", path: "/driver/nobody", wantStatus: http.StatusNotFound, wantRows: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, doc := get(t, h, tt.path)
			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantRows, doc.Find("tr.result-row").Length())
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, doc.Find("section.driver-header h1").Text(), "Kyle Larson")
			} else {
				assert.Equal(t, "Page not found", doc.Find("section.not-found h1").Text())
			}
		})
	}
}

func TestDriverProfilePage(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec, doc := get(t, h, "/drivers/kyle-larson")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "+1000", doc.Find("p.odds").Text())
	assert.Equal(t, "2nd on the board", doc.Find("p.rank").Text())
	assert.Equal(t, "1", doc.Find("dd.dnfs").Text())
	assert.Contains(t, doc.Find("p.last-race").Text(), "38th at Martinsville Speedway")

	rec, doc = get(t, h, "/drivers/richard-petty")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, doc.Find("section.not-found code").Text(), "/drivers/richard-petty")
}

func TestSchedulePage(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec, doc := get(t, h, "/schedule")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, doc.Find("tr.race-row").Length())
	assert.Equal(t, []string{"daytona-500-2026"}, rowIDs(doc, "tr.race-row.next", "data-race"))
}

func TestUnknownRoute(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec, doc := get(t, h, "/nowhere")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Page not found", doc.Find("section.not-found h1").Text())
}

func TestRateLimit(t *testing.T) {
	h, _ := newTestRouter(t, func(cfg *config.Config) {
		cfg.Server.RateLimit = 0.001
		cfg.Server.RateBurst = 1
	})

	rec, _ := get(t, h, "/schedule")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = get(t, h, "/schedule")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// health checks are outside the limited group
	rec, _ = get(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec, _ := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec, _ = get(t, h, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "trackodds_http_requests_total")

	disabled, _ := newTestRouter(t, func(cfg *config.Config) { cfg.Metrics.Enabled = false })
	rec, _ = get(t, disabled, "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
