// Package stats reduces race results into the summaries shown on the stats,
// dashboard and profile pages.
package stats

import (
	"math"
	"strings"

	"github.com/yourusername/trackodds/internal/models"
)

// DefaultDNFThreshold is the finishing position past which a result without a
// status is counted as a did-not-finish
const DefaultDNFThreshold = 35

// runningStatuses are status values that mean the car was running at the end
var runningStatuses = map[string]bool{
	"running":  true,
	"finished": true,
	"ok":       true,
}

// dnfStatuses are status values that mean the car retired from the race
var dnfStatuses = map[string]bool{
	"dnf":          true,
	"accident":     true,
	"crash":        true,
	"engine":       true,
	"mechanical":   true,
	"suspension":   true,
	"transmission": true,
	"electrical":   true,
	"overheating":  true,
	"brakes":       true,
	"dvp":          true,
	"parked":       true,
	"out":          true,
	"dsq":          true,
	"disqualified": true,
}

// Calculator computes profile statistics with a configurable DNF rule
type Calculator struct {
	dnfThreshold int
}

// NewCalculator creates a calculator. A non-positive threshold uses DefaultDNFThreshold.
func NewCalculator(dnfThreshold int) *Calculator {
	if dnfThreshold <= 0 {
		dnfThreshold = DefaultDNFThreshold
	}
	return &Calculator{dnfThreshold: dnfThreshold}
}

var defaultCalculator = NewCalculator(DefaultDNFThreshold)

// IsDNF reports whether a result counts as a did-not-finish. A known running
// or retirement status decides; an empty or unrecognised status falls back to
// the finishing position.
func (c *Calculator) IsDNF(r models.ResultRecord) bool {
	status := strings.ToLower(strings.TrimSpace(r.Status))
	switch {
	case runningStatuses[status]:
		return false
	case dnfStatuses[status]:
		return true
	}
	return r.FinishPos > c.dnfThreshold
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// CalculateAggregatedStats summarises results with an unweighted mean.
// Averages and percentages are rounded to one decimal; empty input yields zeros.
func CalculateAggregatedStats(results []models.RaceResult) models.AggregatedStats {
	if len(results) == 0 {
		return models.AggregatedStats{}
	}

	var s models.AggregatedStats
	var finish, start, rating, lapsLed float64
	for i := range results {
		r := &results[i]
		finish += float64(r.FinishPos)
		start += float64(r.StartPos)
		rating += r.DriverRating
		lapsLed += float64(r.LapsLed)
		if r.IsWin() {
			s.Wins++
		}
		if r.IsTop5() {
			s.Top5++
		}
		if r.IsTop10() {
			s.Top10++
		}
	}

	n := float64(len(results))
	s.Races = len(results)
	s.AvgFinish = round1(finish / n)
	s.AvgStart = round1(start / n)
	s.AvgRating = round1(rating / n)
	s.AvgLapsLed = round1(lapsLed / n)
	s.WinPct = round1(float64(s.Wins) / n * 100)
	s.Top5Pct = round1(float64(s.Top5) / n * 100)
	s.Top10Pct = round1(float64(s.Top10) / n * 100)
	return s
}

// OverallStats computes career totals for a driver without rounding
func (c *Calculator) OverallStats(results []models.RaceResult, driverID string) models.DriverStats {
	out := models.DriverStats{DriverID: driverID}
	if len(results) == 0 {
		return out
	}

	var finish, start, rating float64
	for i := range results {
		r := &results[i]
		finish += float64(r.FinishPos)
		start += float64(r.StartPos)
		rating += r.DriverRating
		out.LapsLed += r.LapsLed
		out.LapsCompleted += r.LapsCompleted
		if r.IsWin() {
			out.Wins++
		}
		if r.IsTop5() {
			out.Top5++
		}
		if r.IsTop10() {
			out.Top10++
		}
		if c.IsDNF(r.ResultRecord) {
			out.DNFs++
		}
	}

	n := float64(len(results))
	out.Races = len(results)
	out.AvgFinish = finish / n
	out.AvgStart = start / n
	out.DriverRating = rating / n
	return out
}

// TrackTypeStats computes a driver's record on one track type
func (c *Calculator) TrackTypeStats(results []models.RaceResult, trackType models.TrackType) models.TrackTypeStats {
	out := models.TrackTypeStats{TrackType: trackType}

	var finish, start, rating float64
	dnfs := 0
	for i := range results {
		r := &results[i]
		if r.TrackType != trackType {
			continue
		}
		out.Races++
		finish += float64(r.FinishPos)
		start += float64(r.StartPos)
		rating += r.DriverRating
		out.LapsLed += r.LapsLed
		if r.IsWin() {
			out.Wins++
		}
		if r.IsTop5() {
			out.Top5++
		}
		if r.IsTop10() {
			out.Top10++
		}
		if c.IsDNF(r.ResultRecord) {
			dnfs++
		}
	}

	if out.Races == 0 {
		return out
	}
	n := float64(out.Races)
	out.AvgFinish = finish / n
	out.AvgStart = start / n
	out.DriverRating = rating / n
	out.DNFRate = float64(dnfs) / n * 100
	return out
}

// ByTrackType computes TrackTypeStats for each profile track type
func (c *Calculator) ByTrackType(results []models.RaceResult) []models.TrackTypeStats {
	out := make([]models.TrackTypeStats, 0, len(models.ProfileTrackTypes))
	for _, tt := range models.ProfileTrackTypes {
		out = append(out, c.TrackTypeStats(results, tt))
	}
	return out
}

// AtTrackStats computes a driver's record at one track, or nil if the driver
// has never raced there
func (c *Calculator) AtTrackStats(results []models.RaceResult, trackID, driverID string) *models.DriverStats {
	var atTrack []models.RaceResult
	for _, r := range results {
		if r.TrackID == trackID {
			atTrack = append(atTrack, r)
		}
	}
	if len(atTrack) == 0 {
		return nil
	}

	s := c.OverallStats(atTrack, driverID)
	s.TrackID = trackID
	return &s
}

// ComputeOverallStats uses the default DNF threshold
func ComputeOverallStats(results []models.RaceResult, driverID string) models.DriverStats {
	return defaultCalculator.OverallStats(results, driverID)
}

// ComputeTrackTypeStats uses the default DNF threshold
func ComputeTrackTypeStats(results []models.RaceResult, trackType models.TrackType) models.TrackTypeStats {
	return defaultCalculator.TrackTypeStats(results, trackType)
}

// ComputeAtTrackStats uses the default DNF threshold
func ComputeAtTrackStats(results []models.RaceResult, trackID, driverID string) *models.DriverStats {
	return defaultCalculator.AtTrackStats(results, trackID, driverID)
}
