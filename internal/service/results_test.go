package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/trackodds/internal/models"
	"github.com/yourusername/trackodds/internal/repository"
)

func resultKeys(results []models.RaceResult) []string {
	keys := make([]string, len(results))
	for i, r := range results {
		keys[i] = r.DriverID + "@" + r.RaceID
	}
	return keys
}

func TestDriversAndTracks(t *testing.T) {
	svc, _ := newFixtureService(t, DefaultOptions())
	ctx := context.Background()

	drivers := svc.Drivers(ctx)
	require.Len(t, drivers, 3)
	assert.Equal(t, "Denny Hamlin", drivers[0].Name)

	tracks := svc.Tracks(ctx)
	require.Len(t, tracks, 3)
	types := map[string]models.TrackType{}
	for _, tr := range tracks {
		types[tr.ID] = tr.Type
	}
	assert.Equal(t, map[string]models.TrackType{
		"cota":         models.TrackTypeRoad,
		"daytona":      models.TrackTypeSuperspeedway,
		"martinsville": models.TrackTypeShort,
	}, types)
}

func TestRacesJoinTracks(t *testing.T) {
	svc, _ := newFixtureService(t, DefaultOptions())

	races := svc.Races(context.Background())
	require.Len(t, races, 4)
	assert.Equal(t, "r-daytona-2025", races[0].ID, "ordered by date")
	require.NotNil(t, races[0].Track)
	assert.Equal(t, "Daytona International Speedway", races[0].TrackName())
	assert.Equal(t, models.TrackTypeRoad, races[1].Track.Type)
}

func TestUpcomingRace(t *testing.T) {
	defaultTrack := models.UpcomingTrack{TrackID: "bristol", TrackName: "Bristol Motor Speedway", TrackType: models.TrackTypeShort}

	tests := []struct {
		name      string
		now       time.Time
		wantRace  string
		wantTrack models.UpcomingTrack
	}{
		{
			name:     "next race on the schedule",
			now:      fixtureNow,
			wantRace: "daytona-500-2026",
			wantTrack: models.UpcomingTrack{
				TrackID:   "daytona",
				TrackName: "Daytona International Speedway",
				TrackType: models.TrackTypeSuperspeedway,
			},
		},
		{
			name:      "schedule exhausted",
			now:       time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
			wantTrack: defaultTrack,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.DefaultTrack = defaultTrack
			svc, _ := newFixtureService(t, opts)
			svc.SetClock(func() time.Time { return tt.now })
			ctx := context.Background()

			race, err := svc.UpcomingRace(ctx)
			if tt.wantRace == "" {
				assert.ErrorIs(t, err, models.ErrNotFound)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantRace, race.ID)
				require.NotNil(t, race.Track)
			}
			assert.Equal(t, tt.wantTrack, svc.UpcomingRaceTrack(ctx))
		})
	}
}

func TestUpcomingRaceTrackStoreFailure(t *testing.T) {
	svc, store := newFixtureService(t, DefaultOptions())
	store.Fail(repository.TableRaces, errors.New("timeout"))

	assert.Equal(t, DefaultOptions().DefaultTrack, svc.UpcomingRaceTrack(context.Background()))
}

func TestAllResults(t *testing.T) {
	svc, _ := newFixtureService(t, DefaultOptions())

	results := svc.AllResults(context.Background())
	require.Len(t, results, 6)
	assert.Equal(t, "r-martinsville-2025", results[0].RaceID, "newest first")
	assert.Equal(t, "r-daytona-2025", results[len(results)-1].RaceID)

	first := results[0]
	assert.Equal(t, "Cook Out 400", first.RaceName)
	assert.Equal(t, 2025, first.Year)
	assert.Equal(t, "martinsville", first.TrackID)
	assert.Equal(t, "Martinsville Speedway", first.TrackName)
	assert.Equal(t, models.TrackTypeShort, first.TrackType)

	assert.Equal(t, []int{2025}, svc.ResultYears(context.Background()))
}

func TestAllResultsHistoryStart(t *testing.T) {
	opts := DefaultOptions()
	opts.HistoryStart = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	svc, _ := newFixtureService(t, opts)

	results := svc.AllResults(context.Background())
	assert.Len(t, results, 4, "the 2025 Daytona 500 predates the history window")
}

func TestAllResultsStoreFailure(t *testing.T) {
	svc, store := newFixtureService(t, DefaultOptions())
	store.Fail(repository.TableResults, errors.New("permission denied"))

	results := svc.AllResults(context.Background())
	assert.NotNil(t, results)
	assert.Empty(t, results)
	assert.Empty(t, svc.ResultYears(context.Background()))
}

func TestDriverResults(t *testing.T) {
	tests := []struct {
		name       string
		driverID   string
		driverName string
		expected   []string
	}{
		{
			name:       "own results newest first",
			driverID:   "d-larson",
			driverName: "Kyle Larson",
			expected:   []string{"d-larson@r-martinsville-2025", "d-larson@r-cota-2025", "d-larson@r-daytona-2025"},
		},
		{
			name:       "falls back to same-name drivers",
			driverID:   "d-ghost",
			driverName: "kyle larson",
			expected: []string{
				"d-larson@r-martinsville-2025",
				"d-larson@r-cota-2025",
				"d-larson-old@r-cota-2025",
				"d-larson@r-daytona-2025",
			},
		},
		{name: "no results", driverID: "d-blaney", driverName: "Ryan Blaney", expected: []string{}},
		{name: "no results and no name", driverID: "d-ghost", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newFixtureService(t, DefaultOptions())
			got := svc.DriverResults(context.Background(), tt.driverID, tt.driverName)
			assert.Equal(t, tt.expected, resultKeys(got))
		})
	}
}

func TestDriverLookups(t *testing.T) {
	svc, store := newFixtureService(t, DefaultOptions())
	ctx := context.Background()

	d, err := svc.DriverByID(ctx, "d-hamlin")
	require.NoError(t, err)
	assert.Equal(t, "Denny Hamlin", d.Name)

	_, err = svc.DriverByID(ctx, "nobody")
	assert.ErrorIs(t, err, models.ErrNotFound)

	d, err = svc.DriverBySlug(ctx, "kyle-larson")
	require.NoError(t, err)
	assert.Equal(t, "d-larson", d.ID, "active driver wins")

	_, err = svc.DriverBySlug(ctx, "richard-petty")
	assert.ErrorIs(t, err, models.ErrNotFound)

	store.Fail(repository.TableDrivers, errors.New("down"))
	_, err = svc.DriverByID(ctx, "d-hamlin")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestJoinResults(t *testing.T) {
	day := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC) }
	races := []models.Race{
		{ID: "r1", Name: "Early", ScheduledDate: time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), TrackID: "t1"},
		{ID: "r2", Name: "Spring", ScheduledDate: day(4, 7), TrackID: "t1"},
		{ID: "r3", Name: "Summer", ScheduledDate: day(7, 14), TrackID: "gone"},
	}
	tracks := []models.Track{{ID: "t1", Name: "Bristol Motor Speedway", Type: models.TrackTypeShort}}
	records := []models.ResultRecord{
		{DriverID: "d", RaceID: "r1"},
		{DriverID: "d", RaceID: "r2", FinishPos: 4},
		{DriverID: "d", RaceID: "r3", FinishPos: 9},
		{DriverID: "d", RaceID: "missing"},
	}

	got := JoinResults(records, races, tracks, DefaultOptions())

	require.Len(t, got, 2)
	assert.Equal(t, "r3", got[0].RaceID)
	assert.Equal(t, DefaultTrackType, got[0].TrackType, "unknown track uses the default type")
	assert.Empty(t, got[0].TrackName)
	assert.Equal(t, "Bristol Motor Speedway", got[1].TrackName)
	assert.Equal(t, models.TrackTypeShort, got[1].TrackType)
	assert.Equal(t, 4, got[1].FinishPos)
}

func TestResultYearsOf(t *testing.T) {
	results := []models.RaceResult{{Year: 2023}, {Year: 2025}, {Year: 2023}, {Year: 2024}}
	assert.Equal(t, []int{2025, 2024, 2023}, ResultYearsOf(results))
	assert.Empty(t, ResultYearsOf(nil))
}
