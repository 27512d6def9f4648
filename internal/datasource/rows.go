package datasource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/trackodds/internal/models"
)

var jsonNull = []byte("null")

// flexString accepts a JSON string, number or null
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, jsonNull) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(b)
	return nil
}

// flexFloat accepts a JSON number, numeric string or null
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	raw := strings.TrimSpace(string(s))
	if raw == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", raw, err)
	}
	*f = flexFloat(v)
	return nil
}

// flexInt accepts anything flexFloat does and rounds to the nearest integer
type flexInt int

func (i *flexInt) UnmarshalJSON(b []byte) error {
	var f flexFloat
	if err := f.UnmarshalJSON(b); err != nil {
		return err
	}
	*i = flexInt(math.Round(float64(f)))
	return nil
}

// flexBool accepts a JSON bool, "true"/"false" or null. Null reads as true so
// rows without an is_active value stay visible.
type flexBool struct {
	set   bool
	value bool
}

func (fb *flexBool) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(string(s))) {
	case "":
		*fb = flexBool{}
	case "true", "t", "1":
		*fb = flexBool{set: true, value: true}
	case "false", "f", "0":
		*fb = flexBool{set: true, value: false}
	default:
		return fmt.Errorf("invalid boolean %q", string(s))
	}
	return nil
}

func (fb flexBool) orTrue() bool {
	return !fb.set || fb.value
}

// flexTime accepts RFC 3339 timestamps with or without a zone, and plain dates
type flexTime time.Time

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *flexTime) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	raw := strings.TrimSpace(string(s))
	if raw == "" {
		*t = flexTime{}
		return nil
	}
	for _, layout := range timeLayouts {
		if v, err := time.Parse(layout, raw); err == nil {
			*t = flexTime(v.UTC())
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", raw)
}

type driverRow struct {
	ID           flexString `json:"id"`
	Name         flexString `json:"name"`
	Number       flexString `json:"number"`
	Team         flexString `json:"team"`
	Manufacturer flexString `json:"manufacturer"`
	IsActive     flexBool   `json:"is_active"`
}

func (r driverRow) model() models.Driver {
	return models.Driver{
		ID:           string(r.ID),
		Name:         string(r.Name),
		Number:       string(r.Number),
		Team:         string(r.Team),
		Manufacturer: string(r.Manufacturer),
		IsActive:     r.IsActive.orTrue(),
	}
}

type trackRow struct {
	ID       flexString `json:"id"`
	Name     flexString `json:"name"`
	Type     flexString `json:"type"`
	Length   flexFloat  `json:"length"`
	Location flexString `json:"location"`
	Surface  flexString `json:"surface"`
}

func (r trackRow) model() models.Track {
	return models.Track{
		ID:       string(r.ID),
		Name:     string(r.Name),
		RawType:  string(r.Type),
		Length:   float64(r.Length),
		Location: string(r.Location),
		Surface:  string(r.Surface),
	}
}

type raceRow struct {
	ID            flexString `json:"id"`
	Name          flexString `json:"name"`
	ScheduledDate flexTime   `json:"scheduled_date"`
	TrackID       flexString `json:"track_id"`
}

func (r raceRow) model() models.Race {
	return models.Race{
		ID:            string(r.ID),
		Name:          string(r.Name),
		ScheduledDate: time.Time(r.ScheduledDate),
		TrackID:       string(r.TrackID),
	}
}

type oddsRow struct {
	DriverID   flexString `json:"driver_id"`
	RaceID     flexString `json:"race_id"`
	Sportsbook flexString `json:"sportsbook"`
	Market     flexString `json:"market"`
	Odds       flexInt    `json:"odds"`
	CreatedAt  flexTime   `json:"created_at"`
}

func (r oddsRow) model() models.OddsQuote {
	return models.OddsQuote{
		DriverID:   string(r.DriverID),
		RaceID:     string(r.RaceID),
		Sportsbook: models.Sportsbook(strings.ToLower(string(r.Sportsbook))),
		Market:     string(r.Market),
		Odds:       int(r.Odds),
		CreatedAt:  time.Time(r.CreatedAt),
	}
}

// resultRow accepts both the short and the long position column names
type resultRow struct {
	DriverID       flexString `json:"driver_id"`
	RaceID         flexString `json:"race_id"`
	StartPos       *flexInt   `json:"start_pos"`
	StartPosition  *flexInt   `json:"start_position"`
	FinishPos      *flexInt   `json:"finish_pos"`
	FinishPosition *flexInt   `json:"finish_position"`
	LapsLed        flexInt    `json:"laps_led"`
	LapsCompleted  flexInt    `json:"laps_completed"`
	DriverRating   flexFloat  `json:"driver_rating"`
	Status         flexString `json:"status"`
}

func firstInt(values ...*flexInt) int {
	for _, v := range values {
		if v != nil {
			return int(*v)
		}
	}
	return 0
}

func (r resultRow) model() models.ResultRecord {
	return models.ResultRecord{
		DriverID:      string(r.DriverID),
		RaceID:        string(r.RaceID),
		StartPos:      firstInt(r.StartPos, r.StartPosition),
		FinishPos:     firstInt(r.FinishPos, r.FinishPosition),
		LapsLed:       int(r.LapsLed),
		LapsCompleted: int(r.LapsCompleted),
		DriverRating:  float64(r.DriverRating),
		Status:        string(r.Status),
	}
}
