package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yourusername/trackodds/internal/models"
	"github.com/yourusername/trackodds/internal/odds"
	"github.com/yourusername/trackodds/internal/stats"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutTemplate = "templates/layout.html"

// page names, each rendered inside the layout
const (
	pageBoard    = "board"
	pageStats    = "stats"
	pageDriver   = "driver"
	pageProfile  = "profile"
	pageSchedule = "schedule"
	pageNotFound = "notfound"
)

var pageNames = []string{pageBoard, pageStats, pageDriver, pageProfile, pageSchedule, pageNotFound}

// view is the data every template receives
type view struct {
	Title  string
	Active string
	Data   any
}

type renderer struct {
	pages map[string]*template.Template
}

var payoutStake = decimal.NewFromInt(100)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"odds":    odds.Format,
		"implied": odds.FormatImpliedProbability,
		"move":    odds.FormatMovement,
		"ordinal": stats.Ordinal,
		"slug":    models.Slugify,
		"one":     func(v float64) string { return fmt.Sprintf("%.1f", v) },
		"pct":     func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
		"date":    func(t time.Time) string { return t.Format("Jan 2, 2006") },
		"hasOdds": func(o models.OddsSnapshot) bool { return o.HasOdds() },
		"isBest":  func(o models.OddsSnapshot, b models.Sportsbook) bool { return o.IsBest(b) },
		"bookOdds": func(o models.OddsSnapshot, b models.Sportsbook) int {
			return o.Odds[b]
		},
		"payout": func(o int) string {
			p, err := odds.Payout(o, payoutStake)
			if err != nil {
				return odds.NotAvailable
			}
			return odds.FormatCurrency(p)
		},
		"add": func(a, b int) int { return a + b },
	}
}

func newRenderer() (*renderer, error) {
	layout, err := template.New("layout.html").Funcs(templateFuncs()).ParseFS(templateFS, layoutTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	rd := &renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout for %s: %w", name, err)
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", name, err)
		}
		rd.pages[name] = t
	}
	return rd, nil
}

// render executes a page into a buffer so a template error never leaves a
// half-written response
func (rd *renderer) render(w http.ResponseWriter, status int, name string, v view) error {
	t, ok := rd.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %s", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", v); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, v view) {
	if err := s.renderer.render(w, status, name, v); err != nil {
		s.logger.WithError(err).WithField("page", name).Error("Failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusNotFound, pageNotFound, view{Title: "Not found", Data: r.URL.Path})
}
