// Package web serves the TrackOdds pages, the CSV export and the live odds feed.
package web

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/trackodds/internal/config"
	"github.com/yourusername/trackodds/internal/health"
	"github.com/yourusername/trackodds/internal/metrics"
	"github.com/yourusername/trackodds/internal/service"
	"golang.org/x/time/rate"
)

// Server holds the dependencies of the HTTP handlers
type Server struct {
	svc      *service.DataService
	cfg      *config.Config
	health   *health.Server
	renderer *renderer
	live     *LiveOddsHandler
	logger   *logrus.Logger
}

// NewServer creates the web server. hs may be nil, in which case the health
// endpoints are served without a store check.
func NewServer(svc *service.DataService, cfg *config.Config, hs *health.Server, log *logrus.Logger) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("data service is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if hs == nil {
		hs = health.NewServer(health.Config{ServiceName: cfg.App.Name, Logger: log})
		hs.SetReady(true)
	}

	rd, err := newRenderer()
	if err != nil {
		return nil, err
	}

	return &Server{
		svc:      svc,
		cfg:      cfg,
		health:   hs,
		renderer: rd,
		live:     NewLiveOddsHandler(svc, cfg.Server.LiveRefresh(), log),
		logger:   log,
	}, nil
}

// Router builds the chi router with every route and middleware
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(requestMetrics)

	if len(s.cfg.Server.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.Server.CORSOrigins,
			AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	s.health.Register(r)
	if s.cfg.Metrics.Enabled {
		path := s.cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		if s.cfg.Server.RateLimit > 0 {
			burst := s.cfg.Server.RateBurst
			if burst <= 0 {
				burst = int(s.cfg.Server.RateLimit)
			}
			r.Use(rateLimit(rate.NewLimiter(rate.Limit(s.cfg.Server.RateLimit), burst)))
		}

		r.Get("/", s.handleBoard)
		r.Get("/stats", s.handleStats)
		r.Get("/stats.csv", s.handleStatsCSV)
		r.Get("/driver/{driverID}", s.handleDriverDashboard)
		r.Get("/drivers/{slug}", s.handleDriverProfile)
		r.Get("/schedule", s.handleSchedule)
		r.Handle("/live/odds", s.live)
	})

	r.NotFound(s.handleNotFound)
	return r
}
