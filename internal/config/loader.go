package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix         = "TRACKODDS"
	defaultConfigPath = "config/config.yaml"
)

// dotEnvFiles are loaded in order; earlier files win because godotenv never
// overrides a variable that is already set
var dotEnvFiles = []string{".env.local", ".env"}

// storeEnvAliases are the variable names the hosted store credentials are also read from
var storeEnvAliases = map[string][]string{
	"store.url":     {"TRACKODDS_STORE_URL", "SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL"},
	"store.api_key": {"TRACKODDS_STORE_API_KEY", "SUPABASE_ANON_KEY", "NEXT_PUBLIC_SUPABASE_ANON_KEY"},
}

// LoadDotEnv loads the given dotenv files into the process environment, skipping missing ones
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the configuration from an optional YAML file, dotenv files and
// environment variables. ${VAR} placeholders in the YAML file are expanded.
// A missing file at the default path is not an error; a missing explicit path is.
func Load(configPath string) (*Config, error) {
	if err := LoadDotEnv(dotEnvFiles...); err != nil {
		return nil, err
	}

	explicit := configPath != ""
	if !explicit {
		configPath = defaultConfigPath
	}

	v := newViper()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		// Expand environment variables in the configuration (${VAR} syntax)
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err) && !explicit:
		// defaults and environment only
	case os.IsNotExist(err):
		return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, names := range storeEnvAliases {
		// BindEnv only errors without a key
		_ = v.BindEnv(append([]string{key}, names...)...)
	}

	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "trackodds")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 30)
	v.SetDefault("server.idle_timeout_seconds", 60)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.live_refresh_seconds", 30)

	v.SetDefault("store.driver", StoreDriverREST)
	v.SetDefault("store.url", "")
	v.SetDefault("store.api_key", "")
	v.SetDefault("store.timeout_seconds", 10)
	v.SetDefault("store.max_retries", 0)
	v.SetDefault("store.rate_limit", 10.0)
	v.SetDefault("store.results_table", "results")
	v.SetDefault("store.fixture_path", "")

	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "prefer")
	v.SetDefault("database.max_connections", 10)

	v.SetDefault("odds.default_race_id", "daytona-500-2026")
	v.SetDefault("odds.market", "race_winner")
	v.SetDefault("odds.sportsbooks", []string{"draftkings", "fanduel", "betmgm", "caesars", "betrivers"})
	v.SetDefault("odds.movement_alert_percent", 10.0)
	v.SetDefault("odds.alert_limit", 5)

	v.SetDefault("stats.history_start", "2023-01-01")
	v.SetDefault("stats.default_race_range", 10)
	v.SetDefault("stats.dnf_position_threshold", 35)
	v.SetDefault("stats.default_track.id", "daytona")
	v.SetDefault("stats.default_track.name", "Daytona International Speedway")
	v.SetDefault("stats.default_track.type", "superspeedway")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
