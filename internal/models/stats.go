package models

// AggregatedStats is the derived summary of a slice of race results, rounded for display
type AggregatedStats struct {
	Races      int     `json:"races" csv:"races"`
	Wins       int     `json:"wins" csv:"wins"`
	Top5       int     `json:"top5" csv:"top5"`
	Top10      int     `json:"top10" csv:"top10"`
	AvgFinish  float64 `json:"avg_finish" csv:"avg_finish"`
	AvgStart   float64 `json:"avg_start" csv:"avg_start"`
	AvgRating  float64 `json:"avg_rating" csv:"avg_rating"`
	AvgLapsLed float64 `json:"avg_laps_led" csv:"avg_laps_led"`
	WinPct     float64 `json:"win_pct" csv:"win_pct"`
	Top5Pct    float64 `json:"top5_pct" csv:"top5_pct"`
	Top10Pct   float64 `json:"top10_pct" csv:"top10_pct"`
}

// DriverStats holds career or at-track totals for a driver
type DriverStats struct {
	DriverID      string    `json:"driver_id"`
	TrackID       string    `json:"track_id,omitempty"`
	TrackType     TrackType `json:"track_type,omitempty"`
	Races         int       `json:"races"`
	Wins          int       `json:"wins"`
	Top5          int       `json:"top5"`
	Top10         int       `json:"top10"`
	AvgFinish     float64   `json:"avg_finish"`
	AvgStart      float64   `json:"avg_start"`
	LapsLed       int       `json:"laps_led"`
	DriverRating  float64   `json:"driver_rating"`
	LapsCompleted int       `json:"laps_completed"`
	DNFs          int       `json:"dnfs"`
}

// TrackTypeStats holds a driver's performance on one track type
type TrackTypeStats struct {
	TrackType    TrackType `json:"track_type"`
	Races        int       `json:"races"`
	AvgFinish    float64   `json:"avg_finish"`
	AvgStart     float64   `json:"avg_start"`
	Top5         int       `json:"top5"`
	Top10        int       `json:"top10"`
	Wins         int       `json:"wins"`
	LapsLed      int       `json:"laps_led"`
	DriverRating float64   `json:"driver_rating"`
	DNFRate      float64   `json:"dnf_rate"`
}

// LastRace summarises the most recent result
type LastRace struct {
	Finish int    `json:"finish"`
	Laps   int    `json:"laps"`
	Track  string `json:"track"`
}

// RecentForm is the short-term form block on the profile page
type RecentForm struct {
	LastRace LastRace `json:"last_race"`
	Last5Avg float64  `json:"last5_avg"`
}

// ProfileStats groups the stats sections of a profile
type ProfileStats struct {
	Overall        DriverStats      `json:"overall"`
	ByTrackType    []TrackTypeStats `json:"by_track_type"`
	AtCurrentTrack *DriverStats     `json:"at_current_track,omitempty"`
}

// DriverProfile is a driver with computed stats and current odds
type DriverProfile struct {
	Driver
	CurrentOdds int          `json:"current_odds"`
	CurrentRank int          `json:"current_rank"`
	CurrentRace string       `json:"current_race"`
	TrackName   string       `json:"track_name"`
	Stats       ProfileStats `json:"stats"`
	RecentForm  RecentForm   `json:"recent_form"`
}
