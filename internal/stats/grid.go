package stats

import (
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/yourusername/trackodds/internal/models"
)

// SortField is a sortable stats grid column
type SortField string

const (
	SortByName       SortField = "name"
	SortByAvgFinish  SortField = "avgFinish"
	SortByAvgStart   SortField = "avgStart"
	SortByAvgRating  SortField = "avgRating"
	SortByAvgLapsLed SortField = "avgLapsLed"
	SortByRaces      SortField = "races"
)

// SortFields lists every sortable column
var SortFields = []SortField{
	SortByName,
	SortByAvgFinish,
	SortByAvgStart,
	SortByAvgRating,
	SortByAvgLapsLed,
	SortByRaces,
}

// SortDir is ascending or descending
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// Race range options offered by the grid; 0 means all races
var RangeOptions = []int{5, 10, 20, 0}

const (
	// DefaultRange is the default race range limit
	DefaultRange = 10

	recentRaceCount  = 10
	trackHistorySize = 5
	missingPosition  = 99
)

// ParseSortField returns the field and whether it is known
func ParseSortField(s string) (SortField, bool) {
	f := SortField(s)
	return f, lo.Contains(SortFields, f)
}

// DefaultSortDir is descending for columns where higher is better
func DefaultSortDir(f SortField) SortDir {
	switch f {
	case SortByAvgRating, SortByAvgLapsLed, SortByRaces:
		return SortDesc
	default:
		return SortAsc
	}
}

// GridFilter is the filter and sort state of the stats grid
type GridFilter struct {
	Years     []int
	TrackType models.TrackType
	TrackIDs  []string
	Range     int
	Search    string
	SortField SortField
	SortDir   SortDir
}

// GridRow is one driver's line in the stats grid
type GridRow struct {
	Driver       models.Driver
	Stats        models.AggregatedStats
	RecentRaces  []models.RaceResult
	TrackHistory []models.RaceResult
	TotalRaces   int
}

// Matches reports whether a result passes the year, track type and track filters
func (f *GridFilter) Matches(r *models.RaceResult) bool {
	if len(f.Years) > 0 && !lo.Contains(f.Years, r.Year) {
		return false
	}
	if f.TrackType != "" && f.TrackType != models.TrackTypeAll && r.TrackType != f.TrackType {
		return false
	}
	if len(f.TrackIDs) > 0 && !lo.Contains(f.TrackIDs, r.TrackID) {
		return false
	}
	return true
}

// BuildGrid assembles, searches and sorts the stats grid.
// defaultTrackID selects the track whose history is attached to each row.
func BuildGrid(drivers []models.Driver, results []models.RaceResult, filter GridFilter, defaultTrackID string) []GridRow {
	byDriver := lo.GroupBy(results, func(r models.RaceResult) string { return r.DriverID })

	rows := make([]GridRow, 0, len(drivers))
	for _, d := range drivers {
		if !d.MatchesSearch(filter.Search) {
			continue
		}
		rows = append(rows, buildRow(d, byDriver[d.ID], filter, defaultTrackID))
	}

	SortGrid(rows, filter.SortField, filter.SortDir)
	return rows
}

func buildRow(d models.Driver, driverResults []models.RaceResult, filter GridFilter, defaultTrackID string) GridRow {
	filtered := SortNewestFirst(lo.Filter(driverResults, func(r models.RaceResult, _ int) bool {
		return filter.Matches(&r)
	}))

	limited := filtered
	if filter.Range > 0 && len(filtered) > filter.Range {
		limited = filtered[:filter.Range]
	}

	history := SortNewestFirst(lo.Filter(driverResults, func(r models.RaceResult, _ int) bool {
		return r.TrackID == defaultTrackID
	}))

	return GridRow{
		Driver:       d,
		Stats:        CalculateAggregatedStats(limited),
		RecentRaces:  lo.Subset(filtered, 0, recentRaceCount),
		TrackHistory: lo.Subset(history, 0, trackHistorySize),
		TotalRaces:   len(limited),
	}
}

func sortValue(row *GridRow, field SortField) float64 {
	s := row.Stats
	switch field {
	case SortByAvgStart:
		return orMissing(s.AvgStart)
	case SortByAvgRating:
		return s.AvgRating
	case SortByAvgLapsLed:
		return s.AvgLapsLed
	case SortByRaces:
		return float64(s.Races)
	default:
		return orMissing(s.AvgFinish)
	}
}

func orMissing(v float64) float64 {
	if v == 0 {
		return missingPosition
	}
	return v
}

// SortGrid orders rows in place. An empty direction uses DefaultSortDir.
func SortGrid(rows []GridRow, field SortField, dir SortDir) {
	if field == "" {
		field = SortByAvgFinish
	}
	if dir == "" {
		dir = DefaultSortDir(field)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if field == SortByName {
			c := strings.Compare(rows[i].Driver.Name, rows[j].Driver.Name)
			if dir == SortDesc {
				return c > 0
			}
			return c < 0
		}

		a, b := sortValue(&rows[i], field), sortValue(&rows[j], field)
		if dir == SortDesc {
			return a > b
		}
		return a < b
	})
}

// TotalResults sums the race counts across rows
func TotalResults(rows []GridRow) int {
	return lo.SumBy(rows, func(r GridRow) int { return r.Stats.Races })
}
