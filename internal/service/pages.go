package service

import (
	"context"
	"time"

	"github.com/yourusername/trackodds/internal/models"
	"golang.org/x/sync/errgroup"
)

// BoardPage is the data behind the odds board
type BoardPage struct {
	Race      *models.Race
	RaceID    string
	Countdown *models.Countdown
	Board     []models.OddsSnapshot
	Alerts    []MovementAlert
	Books     []models.Sportsbook
	LoadedAt  time.Time
}

// StatsPage is the data behind the stats grid
type StatsPage struct {
	Drivers       []models.Driver
	Results       []models.RaceResult
	Tracks        []models.Track
	Years         []int
	UpcomingTrack models.UpcomingTrack
}

// DriverPage is the data behind a driver dashboard
type DriverPage struct {
	Driver  models.Driver
	Results []models.RaceResult
	Tracks  []models.Track
	Years   []int
}

// SchedulePage is the data behind the schedule
type SchedulePage struct {
	Races    []models.Race
	Upcoming *models.Race
	Now      time.Time
}

// LoadBoardPage builds the sorted board for the upcoming race, or for the
// configured default race when the schedule has none
func (s *DataService) LoadBoardPage(ctx context.Context) BoardPage {
	page := BoardPage{
		RaceID:   s.opts.DefaultRaceID,
		Books:    s.opts.Sportsbooks,
		LoadedAt: s.now(),
	}

	if race, err := s.UpcomingRace(ctx); err == nil {
		page.Race = race
		page.RaceID = race.ID
		cd := race.Countdown(page.LoadedAt)
		page.Countdown = &cd
	}

	page.Board = SortBoard(s.CurrentOddsWithDrivers(ctx, page.RaceID))
	page.Alerts = MovementAlerts(page.Board, s.opts.MovementAlertPercent, s.opts.AlertLimit)
	return page
}

// LoadStatsPage runs the stats grid reads in parallel. A failed read leaves
// its part of the page empty without affecting the others.
func (s *DataService) LoadStatsPage(ctx context.Context) StatsPage {
	var (
		page StatsPage
		g    errgroup.Group
	)

	g.Go(func() error {
		page.Drivers = s.Drivers(ctx)
		return nil
	})
	g.Go(func() error {
		page.Results = s.AllResults(ctx)
		page.Years = ResultYearsOf(page.Results)
		return nil
	})
	g.Go(func() error {
		page.Tracks = s.Tracks(ctx)
		return nil
	})
	g.Go(func() error {
		page.UpcomingTrack = s.UpcomingRaceTrack(ctx)
		return nil
	})

	_ = g.Wait()
	return page
}

// LoadDriverPage loads a driver dashboard. It returns models.ErrNotFound
// when the driver does not exist.
func (s *DataService) LoadDriverPage(ctx context.Context, driverID string) (*DriverPage, error) {
	driver, err := s.DriverByID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	page := &DriverPage{Driver: *driver}
	var g errgroup.Group

	g.Go(func() error {
		page.Results = s.DriverResults(ctx, driver.ID, driver.Name)
		page.Years = ResultYearsOf(page.Results)
		return nil
	})
	g.Go(func() error {
		page.Tracks = s.Tracks(ctx)
		return nil
	})

	_ = g.Wait()
	return page, nil
}

// LoadSchedulePage loads the schedule and the next race in parallel
func (s *DataService) LoadSchedulePage(ctx context.Context) SchedulePage {
	page := SchedulePage{Now: s.now()}
	var g errgroup.Group

	g.Go(func() error {
		page.Races = s.Races(ctx)
		return nil
	})
	g.Go(func() error {
		if race, err := s.UpcomingRace(ctx); err == nil {
			page.Upcoming = race
		}
		return nil
	})

	_ = g.Wait()
	return page
}
