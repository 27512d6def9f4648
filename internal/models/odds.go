package models

import "time"

// Sportsbook identifies a book quoting odds
type Sportsbook string

const (
	SportsbookDraftKings Sportsbook = "draftkings"
	SportsbookFanDuel    Sportsbook = "fanduel"
	SportsbookBetMGM     Sportsbook = "betmgm"
	SportsbookCaesars    Sportsbook = "caesars"
	SportsbookBetRivers  Sportsbook = "betrivers"
	SportsbookPointsBet  Sportsbook = "pointsbet"
)

// Sportsbooks is the canonical display order of known books
var Sportsbooks = []Sportsbook{
	SportsbookDraftKings,
	SportsbookFanDuel,
	SportsbookBetMGM,
	SportsbookCaesars,
	SportsbookBetRivers,
	SportsbookPointsBet,
}

// Rank returns the position of the book in Sportsbooks, or -1 for unknown books
func (s Sportsbook) Rank() int {
	for i, b := range Sportsbooks {
		if s == b {
			return i
		}
	}
	return -1
}

// Name returns the display name of the book
func (s Sportsbook) Name() string {
	switch s {
	case SportsbookDraftKings:
		return "DraftKings"
	case SportsbookFanDuel:
		return "FanDuel"
	case SportsbookBetMGM:
		return "BetMGM"
	case SportsbookCaesars:
		return "Caesars"
	case SportsbookBetRivers:
		return "BetRivers"
	case SportsbookPointsBet:
		return "PointsBet"
	default:
		return string(s)
	}
}

// ShortName returns the column header abbreviation
func (s Sportsbook) ShortName() string {
	switch s {
	case SportsbookDraftKings:
		return "DK"
	case SportsbookFanDuel:
		return "FD"
	case SportsbookBetMGM:
		return "MGM"
	case SportsbookCaesars:
		return "CZR"
	case SportsbookBetRivers:
		return "BR"
	case SportsbookPointsBet:
		return "PB"
	default:
		return string(s)
	}
}

// MarketRaceWinner is the outright winner market shown on the board
const MarketRaceWinner = "race_winner"

// OddsQuote is one row of the odds table
type OddsQuote struct {
	DriverID   string     `db:"driver_id" json:"driver_id" validate:"required"`
	RaceID     string     `db:"race_id" json:"race_id" validate:"required"`
	Sportsbook Sportsbook `db:"sportsbook" json:"sportsbook" validate:"required"`
	Market     string     `db:"market" json:"market"`
	Odds       int        `db:"odds" json:"odds"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// MovementDirection is the direction a line moved
type MovementDirection string

const (
	MovementUp     MovementDirection = "up"
	MovementDown   MovementDirection = "down"
	MovementStable MovementDirection = "stable"
)

// OddsMovement describes how a price moved between its opening and current quote
type OddsMovement struct {
	Open          int               `json:"open"`
	Current       int               `json:"current"`
	Change        int               `json:"change"`
	Direction     MovementDirection `json:"direction"`
	PercentChange float64           `json:"percent_change"`
}

// OddsSnapshot is a driver's row on the odds board. BestOdds is 0 when no
// book quotes the driver.
type OddsSnapshot struct {
	DriverID     string             `json:"driver_id"`
	DriverName   string             `json:"driver_name"`
	DriverNumber string             `json:"driver_number"`
	Team         string             `json:"team"`
	Manufacturer string             `json:"manufacturer"`
	Odds         map[Sportsbook]int `json:"odds"`
	BestOdds     int                `json:"best_odds"`
	BestBook     Sportsbook         `json:"best_book,omitempty"`
	Movement     *OddsMovement      `json:"movement_24h,omitempty"`
}

// HasOdds reports whether any book quotes the driver
func (o *OddsSnapshot) HasOdds() bool {
	return o.BestOdds != 0
}

// IsBest reports whether the given book posts the best price
func (o *OddsSnapshot) IsBest(book Sportsbook) bool {
	v, ok := o.Odds[book]
	return ok && o.HasOdds() && v == o.BestOdds
}
