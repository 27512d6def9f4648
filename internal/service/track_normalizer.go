package service

import (
	"strings"

	"github.com/yourusername/trackodds/internal/models"
)

// DefaultTrackType is used when neither the type column nor the name identifies a track
const DefaultTrackType = models.TrackTypeIntermediate

type trackTypeRule struct {
	match     string
	trackType models.TrackType
}

// typeSynonyms are matched as substrings of the normalized type column, in order
var typeSynonyms = []trackTypeRule{
	{"super speedway", models.TrackTypeSuperspeedway},
	{"superspeedway", models.TrackTypeSuperspeedway},
	{"drafting", models.TrackTypeSuperspeedway},
	{"plate", models.TrackTypeSuperspeedway},
	{"road", models.TrackTypeRoad},
	{"street", models.TrackTypeRoad},
	{"roval", models.TrackTypeRoad},
	{"course", models.TrackTypeRoad},
	{"dirt", models.TrackTypeDirt},
	{"clay", models.TrackTypeDirt},
	{"short", models.TrackTypeShort},
	{"intermediate", models.TrackTypeIntermediate},
	{"mile and a half", models.TrackTypeIntermediate},
	{"cookie cutter", models.TrackTypeIntermediate},
}

// trackNameTable maps name fragments to types. Road and dirt layouts come
// first since they share names with the ovals they are built in.
var trackNameTable = []trackTypeRule{
	{"road course", models.TrackTypeRoad},
	{"roval", models.TrackTypeRoad},
	{"street", models.TrackTypeRoad},
	{"circuit of the americas", models.TrackTypeRoad},
	{"sonoma", models.TrackTypeRoad},
	{"infineon", models.TrackTypeRoad},
	{"sears point", models.TrackTypeRoad},
	{"watkins glen", models.TrackTypeRoad},
	{"road america", models.TrackTypeRoad},
	{"mid-ohio", models.TrackTypeRoad},
	{"mexico city", models.TrackTypeRoad},
	{"autodromo", models.TrackTypeRoad},

	{"dirt", models.TrackTypeDirt},
	{"knoxville", models.TrackTypeDirt},
	{"eldora", models.TrackTypeDirt},

	{"daytona", models.TrackTypeSuperspeedway},
	{"talladega", models.TrackTypeSuperspeedway},
	{"atlanta", models.TrackTypeSuperspeedway},
	{"pocono", models.TrackTypeSuperspeedway},

	{"martinsville", models.TrackTypeShort},
	{"bristol", models.TrackTypeShort},
	{"richmond", models.TrackTypeShort},
	{"phoenix", models.TrackTypeShort},
	{"dover", models.TrackTypeShort},
	{"new hampshire", models.TrackTypeShort},
	{"loudon", models.TrackTypeShort},
	{"iowa", models.TrackTypeShort},
	{"north wilkesboro", models.TrackTypeShort},
	{"coliseum", models.TrackTypeShort},

	{"las vegas", models.TrackTypeIntermediate},
	{"texas", models.TrackTypeIntermediate},
	{"kansas", models.TrackTypeIntermediate},
	{"charlotte", models.TrackTypeIntermediate},
	{"nashville", models.TrackTypeIntermediate},
	{"michigan", models.TrackTypeIntermediate},
	{"darlington", models.TrackTypeIntermediate},
	{"homestead", models.TrackTypeIntermediate},
	{"chicagoland", models.TrackTypeIntermediate},
	{"kentucky", models.TrackTypeIntermediate},
	{"gateway", models.TrackTypeIntermediate},
	{"world wide technology", models.TrackTypeIntermediate},
	{"auto club", models.TrackTypeIntermediate},
	{"fontana", models.TrackTypeIntermediate},
}

// trackAbbreviations only match whole words of the name
var trackAbbreviations = map[string]models.TrackType{
	"cota": models.TrackTypeRoad,
	"rc":   models.TrackTypeRoad,
	"lvms": models.TrackTypeIntermediate,
	"cms":  models.TrackTypeIntermediate,
	"nhms": models.TrackTypeShort,
	"bms":  models.TrackTypeShort,
	"nwb":  models.TrackTypeShort,
	"phx":  models.TrackTypeShort,
	"wwtr": models.TrackTypeIntermediate,
}

var separatorReplacer = strings.NewReplacer("_", " ", "-", " ", "/", " ")

func normalizeLabel(s string) string {
	return strings.Join(strings.Fields(separatorReplacer.Replace(strings.ToLower(s))), " ")
}

// ClassifyTrackType resolves a possibly missing or inconsistent type column to
// a canonical track type, falling back to the track name and then to
// DefaultTrackType.
func ClassifyTrackType(rawType, name string) models.TrackType {
	if t := models.TrackType(normalizeLabel(rawType)); t.IsValid() {
		return t
	}

	typ := normalizeLabel(rawType)
	if typ != "" {
		for _, rule := range typeSynonyms {
			if strings.Contains(typ, rule.match) {
				return rule.trackType
			}
		}
	}

	lowerName := strings.ToLower(name)
	for _, rule := range trackNameTable {
		if strings.Contains(lowerName, rule.match) {
			return rule.trackType
		}
	}

	// Try abbreviations as whole words
	for _, word := range strings.FieldsFunc(lowerName, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		if t, ok := trackAbbreviations[word]; ok {
			return t
		}
	}

	return DefaultTrackType
}

// NormalizeTrack sets the repaired classification on a track
func NormalizeTrack(t models.Track) models.Track {
	t.Type = ClassifyTrackType(t.RawType, t.Name)
	return t
}

// NormalizeTracks classifies every track
func NormalizeTracks(tracks []models.Track) []models.Track {
	out := make([]models.Track, len(tracks))
	for i, t := range tracks {
		out[i] = NormalizeTrack(t)
	}
	return out
}
