package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/trackodds/internal/models"
	"github.com/yourusername/trackodds/internal/repository"
)

func TestLoadBoardPage(t *testing.T) {
	svc, _ := newFixtureService(t, DefaultOptions())

	page := svc.LoadBoardPage(context.Background())

	require.NotNil(t, page.Race)
	assert.Equal(t, "daytona-500-2026", page.RaceID)
	require.NotNil(t, page.Countdown)
	assert.Equal(t, models.Countdown{Days: 1, Hours: 1, Minutes: 30}, *page.Countdown)
	assert.Equal(t, DefaultOptions().Sportsbooks, page.Books)

	require.Len(t, page.Board, 3)
	assert.Equal(t, "Denny Hamlin", page.Board[0].DriverName, "favourite first")
	assert.Equal(t, "Kyle Larson", page.Board[1].DriverName)
	assert.False(t, page.Board[2].HasOdds())
	assert.Empty(t, page.Alerts)
}

func TestLoadBoardPageFallsBackToDefaultRace(t *testing.T) {
	opts := DefaultOptions()
	opts.DefaultRaceID = boardRace
	svc, store := newFixtureService(t, opts)
	store.Fail(repository.TableRaces, errors.New("relation does not exist"))

	page := svc.LoadBoardPage(context.Background())

	assert.Nil(t, page.Race)
	assert.Nil(t, page.Countdown)
	assert.Equal(t, boardRace, page.RaceID)
	require.Len(t, page.Board, 3)
	assert.True(t, page.Board[0].HasOdds(), "odds still load for the default race")
}

func TestLoadBoardPageAlerts(t *testing.T) {
	opts := DefaultOptions()
	opts.DefaultRaceID = "r"
	svc, _ := newServiceFor(movementFixture(), opts)

	page := svc.LoadBoardPage(context.Background())

	assert.Nil(t, page.Race, "fixture has no schedule")
	require.Len(t, page.Alerts, 1, "only moves beyond 10%")
	assert.Equal(t, "a", page.Alerts[0].DriverID)
	assert.Equal(t, models.SportsbookDraftKings, page.Alerts[0].Book)
}

func TestLoadStatsPage(t *testing.T) {
	svc, _ := newFixtureService(t, DefaultOptions())

	page := svc.LoadStatsPage(context.Background())

	assert.Len(t, page.Drivers, 3)
	assert.Len(t, page.Results, 6)
	assert.Len(t, page.Tracks, 3)
	assert.Equal(t, []int{2025}, page.Years)
	assert.Equal(t, "daytona", page.UpcomingTrack.TrackID)
}

func TestLoadStatsPageIndependentReads(t *testing.T) {
	tests := []struct {
		name        string
		table       string
		wantDrivers int
		wantResults int
		wantTracks  int
	}{
		{name: "results fail", table: repository.TableResults, wantDrivers: 3, wantResults: 0, wantTracks: 3},
		{name: "drivers fail", table: repository.TableDrivers, wantDrivers: 0, wantResults: 6, wantTracks: 3},
		{name: "tracks fail", table: repository.TableTracks, wantDrivers: 3, wantResults: 6, wantTracks: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newFixtureService(t, DefaultOptions())
			store.Fail(tt.table, errors.New("boom"))

			page := svc.LoadStatsPage(context.Background())

			assert.NotNil(t, page.Drivers)
			assert.NotNil(t, page.Results)
			assert.NotNil(t, page.Tracks)
			assert.Len(t, page.Drivers, tt.wantDrivers)
			assert.Len(t, page.Results, tt.wantResults)
			assert.Len(t, page.Tracks, tt.wantTracks)
		})
	}
}

func TestLoadDriverPage(t *testing.T) {
	svc, _ := newFixtureService(t, DefaultOptions())

	page, err := svc.LoadDriverPage(context.Background(), "d-hamlin")
	require.NoError(t, err)

	assert.Equal(t, "Denny Hamlin", page.Driver.Name)
	assert.Len(t, page.Results, 2)
	assert.Equal(t, []int{2025}, page.Years)
	assert.Len(t, page.Tracks, 3)
}

func TestLoadDriverPageNotFound(t *testing.T) {
	svc, _ := newFixtureService(t, DefaultOptions())

	_, err := svc.LoadDriverPage(context.Background(), "nobody")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestLoadSchedulePage(t *testing.T) {
	svc, _ := newFixtureService(t, DefaultOptions())

	page := svc.LoadSchedulePage(context.Background())

	require.Len(t, page.Races, 4)
	require.NotNil(t, page.Upcoming)
	assert.Equal(t, "daytona-500-2026", page.Upcoming.ID)
	assert.Equal(t, fixtureNow, page.Now)
	for _, r := range page.Races {
		assert.NotNil(t, r.Track, r.ID)
	}
}
