package service

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/yourusername/trackodds/internal/metrics"
	"github.com/yourusername/trackodds/internal/models"
	"github.com/yourusername/trackodds/internal/odds"
)

// MovementAlert is a driver whose best line moved past the alert threshold
type MovementAlert struct {
	DriverID   string
	DriverName string
	Book       models.Sportsbook
	Movement   models.OddsMovement
}

// CurrentOddsWithDrivers builds the odds board for a race: every active driver
// with the newest quote per book, the best price and its movement. A failed
// driver read gives an empty board; a failed odds read gives drivers without odds.
func (s *DataService) CurrentOddsWithDrivers(ctx context.Context, raceID string) []models.OddsSnapshot {
	drivers, ok := readList(ctx, s, "active_drivers", s.repos.Driver.ListActive)
	if !ok || len(drivers) == 0 {
		return []models.OddsSnapshot{}
	}

	quotes, _ := readList(ctx, s, "race_odds", func(ctx context.Context) ([]models.OddsQuote, error) {
		return s.repos.Odds.ListByRace(ctx, raceID)
	})
	quotes = s.boardQuotes(quotes)

	byDriver := lo.GroupBy(quotes, func(q models.OddsQuote) string { return q.DriverID })

	board := make([]models.OddsSnapshot, 0, len(drivers))
	for _, d := range drivers {
		board = append(board, buildSnapshot(d, byDriver[d.ID]))
	}

	withOdds := lo.CountBy(board, func(o models.OddsSnapshot) bool { return o.HasOdds() })
	metrics.UpdateBoardDrivers(withOdds, len(board)-withOdds)
	return board
}

// boardQuotes keeps priced quotes for the configured market, newest first.
// Every book counts towards best odds; Options.Sportsbooks only picks the
// columns the board displays.
func (s *DataService) boardQuotes(quotes []models.OddsQuote) []models.OddsQuote {
	kept := lo.Filter(quotes, func(q models.OddsQuote, _ int) bool {
		if q.Market != "" && s.opts.Market != "" && q.Market != s.opts.Market {
			return false
		}
		return q.Odds != 0
	})
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].CreatedAt.After(kept[j].CreatedAt) })
	return kept
}

// buildSnapshot reduces a driver's quotes, newest first, to a board row
func buildSnapshot(d models.Driver, quotes []models.OddsQuote) models.OddsSnapshot {
	snap := models.OddsSnapshot{
		DriverID:     d.ID,
		DriverName:   d.Name,
		DriverNumber: d.Number,
		Team:         d.Team,
		Manufacturer: d.Manufacturer,
		Odds:         make(map[models.Sportsbook]int),
	}

	for _, q := range quotes {
		if _, seen := snap.Odds[q.Sportsbook]; !seen {
			snap.Odds[q.Sportsbook] = q.Odds
		}
	}

	snap.BestOdds, snap.BestBook = odds.SelectBest(snap.Odds)
	if !snap.HasOdds() {
		return snap
	}

	history := lo.Filter(quotes, func(q models.OddsQuote, _ int) bool { return q.Sportsbook == snap.BestBook })
	if len(history) > 1 {
		m := odds.ComputeMovement(history[len(history)-1].Odds, history[0].Odds)
		snap.Movement = &m
	}
	return snap
}

// SortBoard orders drivers with odds by signed best odds, favourites first,
// followed by drivers without odds by name
func SortBoard(board []models.OddsSnapshot) []models.OddsSnapshot {
	out := make([]models.OddsSnapshot, len(board))
	copy(out, board)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.HasOdds() != b.HasOdds() {
			return a.HasOdds()
		}
		if a.HasOdds() && a.BestOdds != b.BestOdds {
			return a.BestOdds < b.BestOdds
		}
		return a.DriverName < b.DriverName
	})
	return out
}

// SearchBoard filters the board by driver name, number or team
func SearchBoard(board []models.OddsSnapshot, query string) []models.OddsSnapshot {
	query = strings.TrimSpace(query)
	if query == "" {
		return board
	}
	return lo.Filter(board, func(o models.OddsSnapshot, _ int) bool {
		d := models.Driver{Name: o.DriverName, Number: o.DriverNumber, Team: o.Team}
		return d.MatchesSearch(query)
	})
}

// DefaultAlertLimit caps the number of movement alerts
const DefaultAlertLimit = 5

// MovementAlerts returns drivers whose best line moved by more than pct
// percent, largest move first, at most limit entries
func MovementAlerts(board []models.OddsSnapshot, pct float64, limit int) []MovementAlert {
	if limit <= 0 {
		limit = DefaultAlertLimit
	}

	alerts := make([]MovementAlert, 0)
	for _, o := range board {
		if o.Movement == nil || math.Abs(o.Movement.PercentChange) <= pct {
			continue
		}
		alerts = append(alerts, MovementAlert{
			DriverID:   o.DriverID,
			DriverName: o.DriverName,
			Book:       o.BestBook,
			Movement:   *o.Movement,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return math.Abs(alerts[i].Movement.PercentChange) > math.Abs(alerts[j].Movement.PercentChange)
	})
	if len(alerts) > limit {
		alerts = alerts[:limit]
	}
	return alerts
}

// RankOnBoard returns the 1-based position of a driver on the sorted board,
// or 0 when the driver has no odds
func RankOnBoard(sorted []models.OddsSnapshot, driverID string) int {
	for i, o := range sorted {
		if o.DriverID == driverID {
			if !o.HasOdds() {
				return 0
			}
			return i + 1
		}
	}
	return 0
}
