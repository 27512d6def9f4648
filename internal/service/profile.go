package service

import (
	"context"
	"errors"

	"github.com/samber/lo"
	"github.com/yourusername/trackodds/internal/models"
	"github.com/yourusername/trackodds/internal/stats"
)

const recentFormWindow = 5

// DriverProfile builds the profile for a slug such as "kyle-larson". An empty
// raceID uses the upcoming race, then the configured default race. It returns
// models.ErrNotFound when no driver has the name.
func (s *DataService) DriverProfile(ctx context.Context, slug, raceID string) (*models.DriverProfile, error) {
	driver, err := s.DriverBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	upcoming, _ := s.UpcomingRace(ctx)
	track := s.trackOf(upcoming)

	currentRace := ""
	if raceID == "" {
		raceID = s.opts.DefaultRaceID
		if upcoming != nil {
			raceID = upcoming.ID
		}
	}
	if upcoming != nil && upcoming.ID == raceID {
		currentRace = upcoming.Name
	}

	results := s.DriverResults(ctx, driver.ID, driver.Name)

	profile := &models.DriverProfile{
		Driver:      *driver,
		CurrentRace: currentRace,
		TrackName:   track.TrackName,
		Stats: models.ProfileStats{
			Overall:        s.calculator.OverallStats(results, driver.ID),
			ByTrackType:    s.calculator.ByTrackType(results),
			AtCurrentTrack: s.calculator.AtTrackStats(results, track.TrackID, driver.ID),
		},
		RecentForm: RecentFormOf(results),
	}

	board := SortBoard(s.CurrentOddsWithDrivers(ctx, raceID))
	profile.CurrentRank = RankOnBoard(board, driver.ID)

	quote, err := readOne(ctx, s, "driver_latest_odds", func(ctx context.Context) (*models.OddsQuote, error) {
		return s.repos.Odds.LatestForDriver(ctx, driver.ID, raceID)
	})
	switch {
	case err == nil && len(s.boardQuotes([]models.OddsQuote{*quote})) == 1:
		profile.CurrentOdds = quote.Odds
	case err != nil && !errors.Is(err, models.ErrNotFound):
		s.fail("driver_latest_odds", err, "best board price")
		fallthrough
	default:
		// no quote for the board market: use the best board price
		if row, ok := lo.Find(board, func(o models.OddsSnapshot) bool { return o.DriverID == driver.ID }); ok {
			profile.CurrentOdds = row.BestOdds
		}
	}
	return profile, nil
}

// RecentFormOf summarises the last race and the average finish of the last
// five. results must be newest first.
func RecentFormOf(results []models.RaceResult) models.RecentForm {
	if len(results) == 0 {
		return models.RecentForm{}
	}
	last := results[0]
	return models.RecentForm{
		LastRace: models.LastRace{
			Finish: last.FinishPos,
			Laps:   last.LapsCompleted,
			Track:  last.TrackName,
		},
		Last5Avg: stats.LastNAverage(results, recentFormWindow),
	}
}
