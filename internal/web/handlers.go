package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"github.com/yourusername/trackodds/internal/models"
	"github.com/yourusername/trackodds/internal/service"
	"github.com/yourusername/trackodds/internal/stats"
)

type boardView struct {
	service.BoardPage
	Query string
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	page := s.svc.LoadBoardPage(r.Context())
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	page.Board = service.SearchBoard(page.Board, q)

	title := "Odds"
	if page.Race != nil {
		title = page.Race.Name + " Odds"
	}
	s.renderPage(w, r, http.StatusOK, pageBoard, view{
		Title:  title,
		Active: pageBoard,
		Data:   boardView{BoardPage: page, Query: q},
	})
}

type sortLink struct {
	Field  stats.SortField
	Label  string
	URL    string
	Active bool
	Dir    stats.SortDir
}

var sortLabels = map[stats.SortField]string{
	stats.SortByName:       "Driver",
	stats.SortByAvgFinish:  "Avg Finish",
	stats.SortByAvgStart:   "Avg Start",
	stats.SortByAvgRating:  "Rating",
	stats.SortByAvgLapsLed: "Laps Led",
	stats.SortByRaces:      "Races",
}

type statsView struct {
	Filter         stats.GridFilter
	Rows           []stats.GridRow
	TotalResults   int
	Years          []int
	SelectedYears  map[int]bool
	Tracks         []models.Track
	SelectedTracks map[string]bool
	TrackTypes     []models.TrackType
	RangeOptions   []int
	SortLinks      []sortLink
	UpcomingTrack  models.UpcomingTrack
	CSVURL         string
}

// yearAll in the year parameter selects every season
const yearAll = "all"

// defaultSeasons is how many of the newest seasons an unfiltered grid shows
const defaultSeasons = 2

// GridDefaults are the filter values used when the query leaves a parameter out
type GridDefaults struct {
	Range     int
	Years     []int
	TrackType models.TrackType
}

// StatsDefaults derives the grid defaults from a loaded stats page: the two
// newest seasons with results and the type of the upcoming track, or
// superspeedway when that is unknown.
func StatsDefaults(page service.StatsPage, defaultRange int) GridDefaults {
	d := GridDefaults{
		Range:     defaultRange,
		Years:     lo.Subset(page.Years, 0, defaultSeasons),
		TrackType: page.UpcomingTrack.TrackType,
	}
	if !d.TrackType.IsValid() {
		d.TrackType = models.TrackTypeSuperspeedway
	}
	return d
}

// ParseGridFilter reads the stats grid state from query parameters. A missing
// year or track_type takes its value from d; year=all and track_type=all
// select everything. Unknown values fall back to the defaults.
func ParseGridFilter(q url.Values, d GridDefaults) stats.GridFilter {
	f := stats.GridFilter{
		TrackType: d.TrackType,
		Range:     d.Range,
		Search:    strings.TrimSpace(q.Get("q")),
		SortField: stats.SortByAvgFinish,
	}
	if f.TrackType == "" {
		f.TrackType = models.TrackTypeAll
	}

	for _, y := range q["year"] {
		if year, err := strconv.Atoi(y); err == nil && year > 0 && !lo.Contains(f.Years, year) {
			f.Years = append(f.Years, year)
		}
	}
	if len(f.Years) == 0 && len(d.Years) > 0 && !lo.Contains(q["year"], yearAll) {
		f.Years = append([]int(nil), d.Years...)
	}

	switch tt := models.TrackType(q.Get("track_type")); {
	case tt == models.TrackTypeAll, tt.IsValid():
		f.TrackType = tt
	}
	f.TrackIDs = lo.Uniq(lo.Filter(q["track"], func(id string, _ int) bool { return id != "" }))
	if len(f.TrackIDs) == 0 {
		f.TrackIDs = nil
	}

	if raw := q.Get("range"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && lo.Contains(stats.RangeOptions, n) {
			f.Range = n
		}
	}

	if field, ok := stats.ParseSortField(q.Get("sort")); ok {
		f.SortField = field
	}
	switch dir := stats.SortDir(q.Get("dir")); dir {
	case stats.SortAsc, stats.SortDesc:
		f.SortDir = dir
	default:
		f.SortDir = stats.DefaultSortDir(f.SortField)
	}
	return f
}

// encodeGridFilter is the inverse of ParseGridFilter. Year and track type
// are always written so links keep an explicit "all".
func encodeGridFilter(f stats.GridFilter) url.Values {
	q := url.Values{}
	for _, y := range f.Years {
		q.Add("year", strconv.Itoa(y))
	}
	if len(f.Years) == 0 {
		q.Set("year", yearAll)
	}
	tt := f.TrackType
	if tt == "" {
		tt = models.TrackTypeAll
	}
	q.Set("track_type", string(tt))
	for _, id := range f.TrackIDs {
		q.Add("track", id)
	}
	q.Set("range", strconv.Itoa(f.Range))
	if f.Search != "" {
		q.Set("q", f.Search)
	}
	q.Set("sort", string(f.SortField))
	q.Set("dir", string(f.SortDir))
	return q
}

func buildSortLinks(f stats.GridFilter) []sortLink {
	links := make([]sortLink, 0, len(stats.SortFields))
	for _, field := range stats.SortFields {
		next := f
		next.SortField = field
		next.SortDir = stats.DefaultSortDir(field)
		active := f.SortField == field
		if active {
			next.SortDir = stats.SortAsc
			if f.SortDir == stats.SortAsc {
				next.SortDir = stats.SortDesc
			}
		}
		links = append(links, sortLink{
			Field:  field,
			Label:  sortLabels[field],
			URL:    "/stats?" + encodeGridFilter(next).Encode(),
			Active: active,
			Dir:    f.SortDir,
		})
	}
	return links
}

func (s *Server) gridRows(page service.StatsPage, f stats.GridFilter) []stats.GridRow {
	return stats.BuildGrid(page.Drivers, page.Results, f, page.UpcomingTrack.TrackID)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	page := s.svc.LoadStatsPage(r.Context())
	f := ParseGridFilter(r.URL.Query(), StatsDefaults(page, s.cfg.Stats.DefaultRaceRange))
	rows := s.gridRows(page, f)

	v := statsView{
		Filter:         f,
		Rows:           rows,
		TotalResults:   stats.TotalResults(rows),
		Years:          page.Years,
		SelectedYears:  lo.SliceToMap(f.Years, func(y int) (int, bool) { return y, true }),
		Tracks:         page.Tracks,
		SelectedTracks: lo.SliceToMap(f.TrackIDs, func(id string) (string, bool) { return id, true }),
		TrackTypes:     models.TrackTypes,
		RangeOptions:   stats.RangeOptions,
		SortLinks:      buildSortLinks(f),
		UpcomingTrack:  page.UpcomingTrack,
		CSVURL:         "/stats.csv?" + encodeGridFilter(f).Encode(),
	}
	s.renderPage(w, r, http.StatusOK, pageStats, view{Title: "Driver Stats", Active: pageStats, Data: v})
}

func (s *Server) handleStatsCSV(w http.ResponseWriter, r *http.Request) {
	page := s.svc.LoadStatsPage(r.Context())
	f := ParseGridFilter(r.URL.Query(), StatsDefaults(page, s.cfg.Stats.DefaultRaceRange))
	rows := s.gridRows(page, f)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="trackodds-stats.csv"`)
	if err := WriteGridCSV(w, rows); err != nil {
		s.logger.WithError(err).Error("Failed to write stats CSV")
	}
}

type driverView struct {
	Driver     models.Driver
	Dashboard  stats.Dashboard
	Years      []int
	TrackTypes []models.TrackType
}

func (s *Server) handleDriverDashboard(w http.ResponseWriter, r *http.Request) {
	page, err := s.svc.LoadDriverPage(r.Context(), chi.URLParam(r, "driverID"))
	if errors.Is(err, models.ErrNotFound) {
		s.handleNotFound(w, r)
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("Failed to load driver page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	year, _ := strconv.Atoi(q.Get("year"))
	trackType := models.TrackType(q.Get("track_type"))
	if !trackType.IsValid() {
		trackType = models.TrackTypeAll
	}

	v := driverView{
		Driver:     page.Driver,
		Dashboard:  stats.BuildDashboard(page.Results, year, trackType),
		Years:      page.Years,
		TrackTypes: models.ProfileTrackTypes,
	}
	s.renderPage(w, r, http.StatusOK, pageDriver, view{Title: page.Driver.Name, Active: pageStats, Data: v})
}

func (s *Server) handleDriverProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.svc.DriverProfile(r.Context(), chi.URLParam(r, "slug"), r.URL.Query().Get("race"))
	if errors.Is(err, models.ErrNotFound) {
		s.handleNotFound(w, r)
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("Failed to load driver profile")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	s.renderPage(w, r, http.StatusOK, pageProfile, view{Title: profile.Name, Active: pageBoard, Data: profile})
}

type scheduleView struct {
	service.SchedulePage
	NextID string
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	page := s.svc.LoadSchedulePage(r.Context())
	v := scheduleView{SchedulePage: page}
	if page.Upcoming != nil {
		v.NextID = page.Upcoming.ID
	}
	s.renderPage(w, r, http.StatusOK, pageSchedule, view{Title: "Schedule", Active: pageSchedule, Data: v})
}
