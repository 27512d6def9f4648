package service

import (
	"context"
	"errors"
	"sort"

	"github.com/samber/lo"
	"github.com/yourusername/trackodds/internal/models"
)

// Drivers returns the active drivers by name, or an empty list when the read fails
func (s *DataService) Drivers(ctx context.Context) []models.Driver {
	drivers, _ := readList(ctx, s, "active_drivers", s.repos.Driver.ListActive)
	return drivers
}

// Tracks returns every track with its repaired classification
func (s *DataService) Tracks(ctx context.Context) []models.Track {
	tracks, _ := readList(ctx, s, "tracks", s.repos.Track.List)
	return NormalizeTracks(tracks)
}

// Races returns the schedule joined with tracks
func (s *DataService) Races(ctx context.Context) []models.Race {
	races, _ := readList(ctx, s, "races", s.repos.Race.List)
	tracks := trackIndex(s.Tracks(ctx))
	return joinTracks(races, tracks)
}

// UpcomingRace returns the next race on the schedule with its track
func (s *DataService) UpcomingRace(ctx context.Context) (*models.Race, error) {
	race, err := readOne(ctx, s, "upcoming_race", func(ctx context.Context) (*models.Race, error) {
		return s.repos.Race.NextUpcoming(ctx, s.now())
	})
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.fail("upcoming_race", err, "no upcoming race")
		}
		return nil, models.ErrNotFound
	}

	if race.TrackID != "" {
		track, err := readOne(ctx, s, "race_track", func(ctx context.Context) (*models.Track, error) {
			return s.repos.Track.GetByID(ctx, race.TrackID)
		})
		switch {
		case err == nil:
			t := NormalizeTrack(*track)
			race.Track = &t
		case !errors.Is(err, models.ErrNotFound):
			s.fail("race_track", err, "race without track")
		}
	}
	return race, nil
}

// UpcomingRaceTrack returns the track of the next race, or the configured
// default track when there is none
func (s *DataService) UpcomingRaceTrack(ctx context.Context) models.UpcomingTrack {
	race, _ := s.UpcomingRace(ctx)
	return s.trackOf(race)
}

// trackOf returns the joined track of race, or the default track when race is
// nil or has no track
func (s *DataService) trackOf(race *models.Race) models.UpcomingTrack {
	if race == nil || race.Track == nil {
		s.queryLog.LogFallback("upcoming_race_track", s.opts.DefaultTrack.TrackName)
		return s.opts.DefaultTrack
	}
	return models.UpcomingTrack{
		TrackID:   race.Track.ID,
		TrackName: race.Track.Name,
		TrackType: race.Track.Type,
	}
}

// AllResults returns every result since the history start joined with its race and track
func (s *DataService) AllResults(ctx context.Context) []models.RaceResult {
	records, ok := readList(ctx, s, "results", s.repos.Result.List)
	if !ok || len(records) == 0 {
		return []models.RaceResult{}
	}
	return s.joinResults(ctx, records)
}

// ResultYears returns the distinct seasons with results, newest first
func (s *DataService) ResultYears(ctx context.Context) []int {
	return ResultYearsOf(s.AllResults(ctx))
}

// ResultYearsOf returns the distinct years of results, newest first
func ResultYearsOf(results []models.RaceResult) []int {
	years := lo.Uniq(lo.Map(results, func(r models.RaceResult, _ int) int { return r.Year }))
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// DriverByID returns a driver or models.ErrNotFound. Store failures are
// also reported as not found.
func (s *DataService) DriverByID(ctx context.Context, id string) (*models.Driver, error) {
	d, err := readOne(ctx, s, "driver_by_id", func(ctx context.Context) (*models.Driver, error) {
		return s.repos.Driver.GetByID(ctx, id)
	})
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.fail("driver_by_id", err, "not found")
		}
		return nil, models.ErrNotFound
	}
	return d, nil
}

// DriverBySlug resolves a profile slug such as "kyle-larson" to a driver
func (s *DataService) DriverBySlug(ctx context.Context, slug string) (*models.Driver, error) {
	name := models.NameFromSlug(slug)
	d, err := readOne(ctx, s, "driver_by_name", func(ctx context.Context) (*models.Driver, error) {
		return s.repos.Driver.FindByName(ctx, name)
	})
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.fail("driver_by_name", err, "not found")
		}
		return nil, models.ErrNotFound
	}
	return d, nil
}

// DriverResults returns a driver's results since the history start, newest
// first. When the id has none, rows of other drivers with the same name are used.
func (s *DataService) DriverResults(ctx context.Context, driverID, name string) []models.RaceResult {
	records, ok := readList(ctx, s, "driver_results", func(ctx context.Context) ([]models.ResultRecord, error) {
		return s.repos.Result.ListByDrivers(ctx, []string{driverID})
	})
	if !ok {
		return []models.RaceResult{}
	}

	if len(records) == 0 && name != "" {
		records = s.resultsBySameName(ctx, driverID, name)
	}
	if len(records) == 0 {
		return []models.RaceResult{}
	}
	return s.joinResults(ctx, records)
}

func (s *DataService) resultsBySameName(ctx context.Context, driverID, name string) []models.ResultRecord {
	namesakes, _ := readList(ctx, s, "drivers_by_name", func(ctx context.Context) ([]models.Driver, error) {
		return s.repos.Driver.ListByName(ctx, name)
	})
	ids := lo.FilterMap(namesakes, func(d models.Driver, _ int) (string, bool) {
		return d.ID, d.ID != driverID
	})
	if len(ids) == 0 {
		return nil
	}

	records, _ := readList(ctx, s, "driver_results", func(ctx context.Context) ([]models.ResultRecord, error) {
		return s.repos.Result.ListByDrivers(ctx, ids)
	})
	return records
}

// joinResults attaches race and track details to result rows, drops rows
// whose race is unknown or before the history start, and sorts newest first
func (s *DataService) joinResults(ctx context.Context, records []models.ResultRecord) []models.RaceResult {
	races, _ := readList(ctx, s, "races", s.repos.Race.List)
	tracks, _ := readList(ctx, s, "tracks", s.repos.Track.List)
	return JoinResults(records, races, NormalizeTracks(tracks), s.opts)
}

// JoinResults joins records with their races and tracks. It keeps the
// results dated on or after opts.HistoryStart, newest first.
func JoinResults(records []models.ResultRecord, races []models.Race, tracks []models.Track, opts Options) []models.RaceResult {
	raceByID := lo.KeyBy(races, func(r models.Race) string { return r.ID })
	trackByID := trackIndex(tracks)

	out := make([]models.RaceResult, 0, len(records))
	for _, rec := range records {
		race, ok := raceByID[rec.RaceID]
		if !ok || race.ScheduledDate.Before(opts.HistoryStart) {
			continue
		}

		rr := models.RaceResult{
			ResultRecord: rec,
			RaceName:     race.Name,
			Date:         race.ScheduledDate,
			Year:         race.ScheduledDate.Year(),
			TrackID:      race.TrackID,
			TrackType:    DefaultTrackType,
		}
		if t, ok := trackByID[race.TrackID]; ok {
			rr.TrackName = t.Name
			rr.TrackType = t.Type
		}
		out = append(out, rr)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func trackIndex(tracks []models.Track) map[string]models.Track {
	return lo.KeyBy(tracks, func(t models.Track) string { return t.ID })
}

func joinTracks(races []models.Race, tracks map[string]models.Track) []models.Race {
	out := make([]models.Race, len(races))
	for i, r := range races {
		if t, ok := tracks[r.TrackID]; ok {
			t := t
			r.Track = &t
		}
		out[i] = r
	}
	return out
}
