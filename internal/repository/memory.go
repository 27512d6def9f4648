package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/yourusername/trackodds/internal/models"
)

// Fixture is the on-disk shape of a memory store snapshot
type Fixture struct {
	Drivers []models.Driver       `json:"drivers"`
	Tracks  []FixtureTrack        `json:"tracks"`
	Races   []models.Race         `json:"races"`
	Odds    []models.OddsQuote    `json:"odds"`
	Results []models.ResultRecord `json:"results"`
}

// FixtureTrack is a tracks row as stored, with the raw type column
type FixtureTrack struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Length   float64 `json:"length"`
	Location string  `json:"location,omitempty"`
}

// MemoryStore holds the schema tables in memory. Reads of a table can be made
// to fail with Fail for exercising degraded paths.
type MemoryStore struct {
	mu       sync.RWMutex
	drivers  []models.Driver
	tracks   []models.Track
	races    []models.Race
	odds     []models.OddsQuote
	results  []models.ResultRecord
	failures map[string]error
}

// NewMemoryStore creates a store populated from a fixture
func NewMemoryStore(f Fixture) *MemoryStore {
	s := &MemoryStore{failures: make(map[string]error)}
	s.Load(f)
	return s
}

// LoadFixtureFile reads a JSON fixture from disk
func LoadFixtureFile(path string) (Fixture, error) {
	var f Fixture
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("failed to read fixture: %w", err)
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}
	return f, nil
}

// Load replaces the store contents
func (s *MemoryStore) Load(f Fixture) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drivers = append([]models.Driver(nil), f.Drivers...)
	s.tracks = lo.Map(f.Tracks, func(t FixtureTrack, _ int) models.Track {
		return models.Track{ID: t.ID, Name: t.Name, RawType: t.Type, Length: t.Length, Location: t.Location}
	})
	s.races = append([]models.Race(nil), f.Races...)
	s.odds = append([]models.OddsQuote(nil), f.Odds...)
	s.results = append([]models.ResultRecord(nil), f.Results...)
}

// Fail makes reads of table return err; a nil err clears the failure
func (s *MemoryStore) Fail(table string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, table)
		return
	}
	s.failures[table] = err
}

func (s *MemoryStore) check(ctx context.Context, table string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.failures[table]; err != nil {
		return fmt.Errorf("failed to query %s: %w", table, err)
	}
	return nil
}

type memoryDrivers struct{ s *MemoryStore }

func sortedByName(drivers []models.Driver) []models.Driver {
	sort.SliceStable(drivers, func(i, j int) bool { return drivers[i].Name < drivers[j].Name })
	return drivers
}

func (m *memoryDrivers) ListActive(ctx context.Context) ([]models.Driver, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if err := m.s.check(ctx, TableDrivers); err != nil {
		return nil, err
	}
	return sortedByName(lo.Filter(m.s.drivers, func(d models.Driver, _ int) bool { return d.IsActive })), nil
}

func (m *memoryDrivers) List(ctx context.Context) ([]models.Driver, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if err := m.s.check(ctx, TableDrivers); err != nil {
		return nil, err
	}
	return sortedByName(append([]models.Driver(nil), m.s.drivers...)), nil
}

func (m *memoryDrivers) GetByID(ctx context.Context, id string) (*models.Driver, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if err := m.s.check(ctx, TableDrivers); err != nil {
		return nil, err
	}
	d, ok := lo.Find(m.s.drivers, func(d models.Driver) bool { return d.ID == id })
	if !ok {
		return nil, models.ErrNotFound
	}
	return &d, nil
}

func (m *memoryDrivers) FindByName(ctx context.Context, name string) (*models.Driver, error) {
	matches, err := m.ListByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, models.ErrNotFound
	}
	// prefer the active row when a name appears more than once
	d, ok := lo.Find(matches, func(d models.Driver) bool { return d.IsActive })
	if !ok {
		d = matches[0]
	}
	return &d, nil
}

func (m *memoryDrivers) ListByName(ctx context.Context, name string) ([]models.Driver, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if err := m.s.check(ctx, TableDrivers); err != nil {
		return nil, err
	}
	return lo.Filter(m.s.drivers, func(d models.Driver, _ int) bool {
		return strings.EqualFold(d.Name, name)
	}), nil
}

type memoryTracks struct{ s *MemoryStore }

func (m *memoryTracks) List(ctx context.Context) ([]models.Track, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if err := m.s.check(ctx, TableTracks); err != nil {
		return nil, err
	}
	tracks := append([]models.Track(nil), m.s.tracks...)
	sort.SliceStable(tracks, func(i, j int) bool { return tracks[i].Name < tracks[j].Name })
	return tracks, nil
}

func (m *memoryTracks) GetByID(ctx context.Context, id string) (*models.Track, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if err := m.s.check(ctx, TableTracks); err != nil {
		return nil, err
	}
	t, ok := lo.Find(m.s.tracks, func(t models.Track) bool { return t.ID == id })
	if !ok {
		return nil, models.ErrNotFound
	}
	return &t, nil
}

type memoryRaces struct{ s *MemoryStore }

func (m *memoryRaces) sorted() []models.Race {
	races := append([]models.Race(nil), m.s.races...)
	sort.SliceStable(races, func(i, j int) bool { return races[i].ScheduledDate.Before(races[j].ScheduledDate) })
	return races
}

func (m *memoryRaces) List(ctx context.Context) ([]models.Race, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if err := m.s.check(ctx, TableRaces); err != nil {
		return nil, err
	}
	return m.sorted(), nil
}

func (m *memoryRaces) GetByID(ctx context.Context, id string) (*models.Race, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if err := m.s.check(ctx, TableRaces); err != nil {
		return nil, err
	}
	r, ok := lo.Find(m.s.races, func(r models.Race) bool { return r.ID == id })
	if !ok {
		return nil, models.ErrNotFound
	}
	return &r, nil
}

func (m *memoryRaces) NextUpcoming(ctx context.Context, now time.Time) (*models.Race, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if err := m.s.check(ctx, TableRaces); err != nil {
		return nil, err
	}
	r, ok := lo.Find(m.sorted(), func(r models.Race) bool { return !r.ScheduledDate.Before(now) })
	if !ok {
		return nil, models.ErrNotFound
	}
	return &r, nil
}

type memoryOdds struct{ s *MemoryStore }

func (m *memoryOdds) ListByRace(ctx context.Context, raceID string) ([]models.OddsQuote, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if err := m.s.check(ctx, TableOdds); err != nil {
		return nil, err
	}
	quotes := lo.Filter(m.s.odds, func(q models.OddsQuote, _ int) bool { return q.RaceID == raceID })
	sort.SliceStable(quotes, func(i, j int) bool { return quotes[i].CreatedAt.After(quotes[j].CreatedAt) })
	return quotes, nil
}

func (m *memoryOdds) LatestForDriver(ctx context.Context, driverID, raceID string) (*models.OddsQuote, error) {
	quotes, err := m.ListByRace(ctx, raceID)
	if err != nil {
		return nil, err
	}
	q, ok := lo.Find(quotes, func(q models.OddsQuote) bool { return q.DriverID == driverID })
	if !ok {
		return nil, models.ErrNotFound
	}
	return &q, nil
}

type memoryResults struct{ s *MemoryStore }

func (m *memoryResults) List(ctx context.Context) ([]models.ResultRecord, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if err := m.s.check(ctx, TableResults); err != nil {
		return nil, err
	}
	return append([]models.ResultRecord(nil), m.s.results...), nil
}

func (m *memoryResults) ListByDrivers(ctx context.Context, driverIDs []string) ([]models.ResultRecord, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if err := m.s.check(ctx, TableResults); err != nil {
		return nil, err
	}
	return lo.Filter(m.s.results, func(r models.ResultRecord, _ int) bool {
		return lo.Contains(driverIDs, r.DriverID)
	}), nil
}

// memoryColumns mirrors the external schema
var memoryColumns = map[string][]string{
	TableDrivers: {"id", "name", "number", "team", "manufacturer", "is_active"},
	TableTracks:  {"id", "name", "type", "length"},
	TableRaces:   {"id", "name", "scheduled_date", "track_id"},
	TableOdds:    {"driver_id", "race_id", "sportsbook", "market", "odds", "created_at"},
	TableResults: {"driver_id", "race_id", "start_pos", "finish_pos", "laps_led", "laps_completed", "driver_rating", "status"},
}

type memorySchema struct{ s *MemoryStore }

func (m *memorySchema) Columns(ctx context.Context, table string) ([]string, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	if err := m.s.check(ctx, table); err != nil {
		return nil, err
	}
	cols, ok := memoryColumns[table]
	if !ok {
		return nil, fmt.Errorf("relation %q does not exist", table)
	}
	return append([]string(nil), cols...), nil
}

func (m *memorySchema) TableExists(ctx context.Context, table string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, ok := memoryColumns[table]
	return ok, nil
}
