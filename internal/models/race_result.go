package models

import "time"

// ResultRecord is one row of the results table: a driver's participation in a race
type ResultRecord struct {
	DriverID      string  `db:"driver_id" json:"driver_id" validate:"required"`
	RaceID        string  `db:"race_id" json:"race_id" validate:"required"`
	StartPos      int     `db:"start_pos" json:"start_pos"`
	FinishPos     int     `db:"finish_pos" json:"finish_pos"`
	LapsLed       int     `db:"laps_led" json:"laps_led"`
	LapsCompleted int     `db:"laps_completed" json:"laps_completed"`
	DriverRating  float64 `db:"driver_rating" json:"driver_rating"`
	Status        string  `db:"status" json:"status"`
}

// RaceResult is a result record joined with its race and track
type RaceResult struct {
	ResultRecord
	RaceName  string    `json:"race_name"`
	Date      time.Time `json:"date"`
	Year      int       `json:"year"`
	TrackID   string    `json:"track_id"`
	TrackName string    `json:"track_name"`
	TrackType TrackType `json:"track_type"`
}

// IsWin reports a first-place finish
func (r *RaceResult) IsWin() bool {
	return r.FinishPos == 1
}

// IsTop5 reports a finish inside the top five
func (r *RaceResult) IsTop5() bool {
	return r.FinishPos >= 1 && r.FinishPos <= 5
}

// IsTop10 reports a finish inside the top ten
func (r *RaceResult) IsTop10() bool {
	return r.FinishPos >= 1 && r.FinishPos <= 10
}
