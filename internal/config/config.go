// Package config provides configuration management for the TrackOdds dashboard.
package config

import (
	"fmt"
	"time"

	"github.com/yourusername/trackodds/internal/models"
)

// Store drivers
const (
	StoreDriverREST     = "rest"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Store    StoreConfig    `mapstructure:"store" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Odds     OddsConfig     `mapstructure:"odds" validate:"required"`
	Stats    StatsConfig    `mapstructure:"stats" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the HTTP listener configuration
type ServerConfig struct {
	Host                string   `mapstructure:"host"`
	Port                int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int      `mapstructure:"read_timeout_seconds" validate:"gt=0"`
	WriteTimeoutSeconds int      `mapstructure:"write_timeout_seconds" validate:"gt=0"`
	IdleTimeoutSeconds  int      `mapstructure:"idle_timeout_seconds" validate:"gt=0"`
	CORSOrigins         []string `mapstructure:"cors_origins"`
	RateLimit           float64  `mapstructure:"rate_limit" validate:"gte=0"`
	RateBurst           int      `mapstructure:"rate_burst" validate:"gte=0"`
	LiveRefreshSeconds  int      `mapstructure:"live_refresh_seconds" validate:"gt=0"`
}

// StoreConfig selects and configures the backend the dashboard reads from
type StoreConfig struct {
	Driver         string  `mapstructure:"driver" validate:"required,storedriver"`
	URL            string  `mapstructure:"url"`
	APIKey         string  `mapstructure:"api_key"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"gte=0"`
	ResultsTable   string  `mapstructure:"results_table" validate:"required"`
	FixturePath    string  `mapstructure:"fixture_path"`
}

// DatabaseConfig represents database connection configuration for the postgres driver
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable prefer require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// OddsConfig represents odds board configuration
type OddsConfig struct {
	DefaultRaceID        string   `mapstructure:"default_race_id" validate:"required"`
	Market               string   `mapstructure:"market" validate:"required"`
	Sportsbooks          []string `mapstructure:"sportsbooks" validate:"required,min=1,sportsbooks"`
	MovementAlertPercent float64  `mapstructure:"movement_alert_percent" validate:"gte=0"`
	AlertLimit           int      `mapstructure:"alert_limit" validate:"gt=0"`
}

// StatsConfig represents statistics configuration
type StatsConfig struct {
	HistoryStart         string             `mapstructure:"history_start" validate:"required,datetime"`
	DefaultRaceRange     int                `mapstructure:"default_race_range" validate:"oneof=0 5 10 20"`
	DNFPositionThreshold int                `mapstructure:"dnf_position_threshold" validate:"gt=0"`
	DefaultTrack         DefaultTrackConfig `mapstructure:"default_track" validate:"required"`
}

// DefaultTrackConfig is the track used when the upcoming race can't be read
type DefaultTrackConfig struct {
	ID   string `mapstructure:"id" validate:"required"`
	Name string `mapstructure:"name" validate:"required"`
	Type string `mapstructure:"type" validate:"required,tracktype"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Address returns the listen address
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ReadTimeout returns the read timeout as a duration
func (s *ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the write timeout as a duration
func (s *ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

// IdleTimeout returns the idle timeout as a duration
func (s *ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutSeconds) * time.Second
}

// LiveRefresh returns the live odds push interval
func (s *ServerConfig) LiveRefresh() time.Duration {
	return time.Duration(s.LiveRefreshSeconds) * time.Second
}

// Timeout returns the per-request store timeout
func (s *StoreConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Books returns the configured sportsbooks as typed values
func (o *OddsConfig) Books() []models.Sportsbook {
	books := make([]models.Sportsbook, 0, len(o.Sportsbooks))
	for _, b := range o.Sportsbooks {
		books = append(books, models.Sportsbook(b))
	}
	return books
}

// HistoryStartDate returns the earliest race date included in driver history
func (s *StatsConfig) HistoryStartDate() time.Time {
	t, err := time.Parse(dateLayout, s.HistoryStart)
	if err != nil {
		return time.Time{}
	}
	return t
}

// DefaultUpcomingTrack returns the configured fallback track
func (s *StatsConfig) DefaultUpcomingTrack() models.UpcomingTrack {
	return models.UpcomingTrack{
		TrackID:   s.DefaultTrack.ID,
		TrackName: s.DefaultTrack.Name,
		TrackType: models.TrackType(s.DefaultTrack.Type),
	}
}
