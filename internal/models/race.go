package models

import "time"

// raceDuration is how long a race is assumed to run once started
const raceDuration = 4 * time.Hour

// Race represents a scheduled Cup Series race
type Race struct {
	ID            string    `db:"id" json:"id" validate:"required"`
	Name          string    `db:"name" json:"name" validate:"required"`
	ScheduledDate time.Time `db:"scheduled_date" json:"scheduled_date"`
	TrackID       string    `db:"track_id" json:"track_id"`
	Track         *Track    `db:"-" json:"track,omitempty"`
}

// Countdown is the time remaining until a race starts
type Countdown struct {
	Days    int  `json:"days"`
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	IsLive  bool `json:"is_live"`
	IsPast  bool `json:"is_past"`
}

// Countdown returns the countdown to the race relative to now
func (r *Race) Countdown(now time.Time) Countdown {
	diff := r.ScheduledDate.Sub(now)
	if diff < 0 {
		since := -diff
		return Countdown{
			IsLive: since < raceDuration,
			IsPast: since >= raceDuration,
		}
	}

	return Countdown{
		Days:    int(diff / (24 * time.Hour)),
		Hours:   int((diff % (24 * time.Hour)) / time.Hour),
		Minutes: int((diff % time.Hour) / time.Minute),
	}
}

// IsUpcoming checks if the race hasn't started yet
func (r *Race) IsUpcoming(now time.Time) bool {
	return !r.ScheduledDate.Before(now)
}

// TrackName returns the joined track name or an empty string
func (r *Race) TrackName() string {
	if r.Track == nil {
		return ""
	}
	return r.Track.Name
}

// UpcomingTrack identifies the track of the next race on the schedule
type UpcomingTrack struct {
	TrackID   string    `json:"track_id"`
	TrackName string    `json:"track_name"`
	TrackType TrackType `json:"track_type"`
}
