package stats

import (
	"github.com/samber/lo"
	"github.com/yourusername/trackodds/internal/models"
)

// TrackTypeSummary is one spoke of the dashboard's track-type chart
type TrackTypeSummary struct {
	Type      models.TrackType
	Label     string
	Rating    float64
	Races     int
	AvgFinish float64
}

// Dashboard is the per-driver view with year and track-type filters applied
type Dashboard struct {
	Year        int
	TrackType   models.TrackType
	Results     []models.RaceResult
	Overall     models.AggregatedStats
	ByTrackType []TrackTypeSummary
	Last10      []models.RaceResult
	Form        *Form
	Momentum    Momentum
}

// BuildDashboard computes the dashboard view. year 0 and an empty or "all"
// track type disable those filters. Form, momentum and the track-type chart
// always use the unfiltered history.
func BuildDashboard(results []models.RaceResult, year int, trackType models.TrackType) Dashboard {
	sorted := SortNewestFirst(results)

	filter := GridFilter{TrackType: trackType}
	if year > 0 {
		filter.Years = []int{year}
	}
	filtered := lo.Filter(sorted, func(r models.RaceResult, _ int) bool {
		return filter.Matches(&r)
	})

	byType := make([]TrackTypeSummary, 0, len(models.ProfileTrackTypes))
	for _, tt := range models.ProfileTrackTypes {
		s := CalculateAggregatedStats(lo.Filter(sorted, func(r models.RaceResult, _ int) bool {
			return r.TrackType == tt
		}))
		byType = append(byType, TrackTypeSummary{
			Type:      tt,
			Label:     tt.Label(),
			Rating:    s.AvgRating,
			Races:     s.Races,
			AvgFinish: s.AvgFinish,
		})
	}

	return Dashboard{
		Year:        year,
		TrackType:   trackType,
		Results:     filtered,
		Overall:     CalculateAggregatedStats(filtered),
		ByTrackType: byType,
		Last10:      LastN(sorted, momentumWindow),
		Form:        ComputeForm(sorted),
		Momentum:    ComputeMomentum(sorted),
	}
}
