package models

// TrackType is the coarse classification of a racing facility
type TrackType string

const (
	TrackTypeSuperspeedway TrackType = "superspeedway"
	TrackTypeIntermediate  TrackType = "intermediate"
	TrackTypeShort         TrackType = "short"
	TrackTypeRoad          TrackType = "road"
	TrackTypeDirt          TrackType = "dirt"
)

// TrackTypes lists every canonical track type
var TrackTypes = []TrackType{
	TrackTypeSuperspeedway,
	TrackTypeIntermediate,
	TrackTypeShort,
	TrackTypeRoad,
	TrackTypeDirt,
}

// ProfileTrackTypes are the track types broken out on driver pages
var ProfileTrackTypes = []TrackType{
	TrackTypeSuperspeedway,
	TrackTypeIntermediate,
	TrackTypeShort,
	TrackTypeRoad,
}

// TrackTypeAll is the filter value that disables track-type filtering
const TrackTypeAll TrackType = "all"

// IsValid checks the value is one of the canonical track types
func (t TrackType) IsValid() bool {
	for _, tt := range TrackTypes {
		if t == tt {
			return true
		}
	}
	return false
}

// Label returns the display label
func (t TrackType) Label() string {
	switch t {
	case TrackTypeSuperspeedway:
		return "Superspeedway"
	case TrackTypeIntermediate:
		return "Intermediate"
	case TrackTypeShort:
		return "Short Track"
	case TrackTypeRoad:
		return "Road Course"
	case TrackTypeDirt:
		return "Dirt"
	case TrackTypeAll:
		return "All Track Types"
	default:
		return string(t)
	}
}

// Badge returns the short badge text used in result tables
func (t TrackType) Badge() string {
	switch t {
	case TrackTypeSuperspeedway:
		return "SS"
	case TrackTypeIntermediate:
		return "INT"
	case TrackTypeShort:
		return "SHORT"
	case TrackTypeRoad:
		return "ROAD"
	case TrackTypeDirt:
		return "DIRT"
	default:
		return ""
	}
}

// Track represents a racing facility. RawType holds the type column as read
// from the store; Type is the repaired classification.
type Track struct {
	ID       string    `db:"id" json:"id" validate:"required"`
	Name     string    `db:"name" json:"name" validate:"required"`
	Location string    `db:"location" json:"location,omitempty"`
	Surface  string    `db:"surface" json:"surface,omitempty"`
	RawType  string    `db:"type" json:"raw_type,omitempty"`
	Type     TrackType `db:"-" json:"type"`
	Length   float64   `db:"length" json:"length"`
}
