package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/yourusername/trackodds/internal/models"
)

const dateLayout = "2006-01-02"

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Registration only fails on an empty tag or nil func
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("storedriver", validateStoreDriver)
	_ = v.RegisterValidation("sportsbooks", validateSportsbooks)
	_ = v.RegisterValidation("tracktype", validateTrackType)
	_ = v.RegisterValidation("datetime", validateDateTime)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateStoreDriver(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case StoreDriverREST, StoreDriverPostgres, StoreDriverMemory:
		return true
	default:
		return false
	}
}

// validateSportsbooks checks every configured book is a known one
func validateSportsbooks(fl validator.FieldLevel) bool {
	books, ok := fl.Field().Interface().([]string)
	if !ok || len(books) == 0 {
		return false
	}
	for _, b := range books {
		if models.Sportsbook(b).Rank() < 0 {
			return false
		}
	}
	return true
}

func validateTrackType(fl validator.FieldLevel) bool {
	return models.TrackType(fl.Field().String()).IsValid()
}

func validateDateTime(fl validator.FieldLevel) bool {
	_, err := time.Parse(dateLayout, fl.Field().String())
	return err == nil
}

// validateCrossField performs checks that span more than one field
func validateCrossField(cfg *Config) error {
	switch cfg.Store.Driver {
	case StoreDriverREST:
		if cfg.Store.URL == "" {
			return fmt.Errorf("store.url is required for the %s driver", StoreDriverREST)
		}
		if !isHTTPURL(cfg.Store.URL) {
			return fmt.Errorf("store.url must be an http(s) URL, got %q", cfg.Store.URL)
		}
		if cfg.Store.APIKey == "" {
			return fmt.Errorf("store.api_key is required for the %s driver", StoreDriverREST)
		}
	case StoreDriverPostgres:
		var missing []string
		if cfg.Database.Host == "" {
			missing = append(missing, "database.host")
		}
		if cfg.Database.Name == "" {
			missing = append(missing, "database.name")
		}
		if cfg.Database.User == "" {
			missing = append(missing, "database.user")
		}
		if len(missing) > 0 {
			return fmt.Errorf("%s required for the %s driver", strings.Join(missing, ", "), StoreDriverPostgres)
		}
		if cfg.IsProduction() && cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/', got %q", cfg.Metrics.Path)
	}

	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg strings.Builder
	for _, fieldError := range validationErrors {
		field := fieldError.Namespace()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			fmt.Fprintf(&errMsg, "- Field '%s' is required\n", field)
		case "min", "max":
			fmt.Fprintf(&errMsg, "- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			fmt.Fprintf(&errMsg, "- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			fmt.Fprintf(&errMsg, "- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			fmt.Fprintf(&errMsg, "- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "storedriver":
			fmt.Fprintf(&errMsg, "- Field '%s' must be one of: rest, postgres, memory\n", field)
		case "sportsbooks":
			fmt.Fprintf(&errMsg, "- Field '%s' contains an unknown sportsbook: %v\n", field, value)
		case "tracktype":
			fmt.Fprintf(&errMsg, "- Field '%s' must be a track type, got '%v'\n", field, value)
		case "datetime":
			fmt.Fprintf(&errMsg, "- Field '%s' must be a YYYY-MM-DD date, got '%v'\n", field, value)
		case "oneof":
			fmt.Fprintf(&errMsg, "- Field '%s' has invalid value '%v'\n", field, value)
		default:
			fmt.Fprintf(&errMsg, "- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg.String())
}
