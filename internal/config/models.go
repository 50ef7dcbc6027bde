package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/muurk/petpal/internal/urls"
)

// CurrentVersion is the config file schema version
const CurrentVersion = 1

// Defaults used when the file or a field is missing
const (
	DefaultBaseURL      = urls.ServiceURL
	DefaultImageTimeout = 60 * time.Second
	DefaultAgeGroup     = "adult"
	DefaultRecipeCount  = 3
	MaxRecipeCount      = 10
)

// Settings represents the entire user configuration file.
// It holds client settings only; screen state is never written here.
type Settings struct {
	Version     int              `yaml:"version"`
	API         *APISettings     `yaml:"api,omitempty"`
	Preferences *Preferences     `yaml:"preferences,omitempty"`
	Logging     *LoggingSettings `yaml:"logging,omitempty"`
}

// APISettings describes how to reach the PetPal service.
type APISettings struct {
	BaseURL        string        `yaml:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"` // 0 = no client-wide timeout
	ImageTimeout   time.Duration `yaml:"image_timeout"`   // applies to image analysis only
}

// Preferences are the starting values for a new session.
type Preferences struct {
	AgeGroup    string   `yaml:"age_group"`
	Dietary     []string `yaml:"dietary,omitempty"`
	DarkMode    bool     `yaml:"dark_mode"`
	RecipeCount int      `yaml:"recipe_count"`
}

// LoggingSettings controls zap output. An empty level keeps logging silent.
type LoggingSettings struct {
	Level string `yaml:"level,omitempty"`
	File  string `yaml:"file,omitempty"` // defaults to petpal.log in the config dir for the TUI
}

// NewSettings creates Settings with default values.
func NewSettings() *Settings {
	s := &Settings{Version: CurrentVersion}
	s.fillDefaults()
	return s
}

// fillDefaults replaces missing sections and zero values with defaults.
func (s *Settings) fillDefaults() {
	if s.API == nil {
		s.API = &APISettings{}
	}
	if s.API.BaseURL == "" {
		s.API.BaseURL = DefaultBaseURL
	}
	if s.API.ImageTimeout == 0 {
		s.API.ImageTimeout = DefaultImageTimeout
	}

	if s.Preferences == nil {
		s.Preferences = &Preferences{}
	}
	if s.Preferences.AgeGroup == "" {
		s.Preferences.AgeGroup = DefaultAgeGroup
	}
	if s.Preferences.RecipeCount == 0 {
		s.Preferences.RecipeCount = DefaultRecipeCount
	}

	if s.Logging == nil {
		s.Logging = &LoggingSettings{}
	}
}

// Validate checks values that would otherwise fail later at request time.
func (s *Settings) Validate() error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", s.Version, CurrentVersion)
	}

	if s.API != nil {
		u, err := url.Parse(s.API.BaseURL)
		if err != nil {
			return fmt.Errorf("invalid api.base_url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid api.base_url %q: scheme must be http or https", s.API.BaseURL)
		}
		if u.Host == "" {
			return fmt.Errorf("invalid api.base_url %q: missing host", s.API.BaseURL)
		}
		if s.API.RequestTimeout < 0 {
			return fmt.Errorf("api.request_timeout must not be negative")
		}
		if s.API.ImageTimeout < 0 {
			return fmt.Errorf("api.image_timeout must not be negative")
		}
	}

	if s.Preferences != nil {
		if s.Preferences.RecipeCount < 1 || s.Preferences.RecipeCount > MaxRecipeCount {
			return fmt.Errorf("preferences.recipe_count must be between 1 and %d, got %d",
				MaxRecipeCount, s.Preferences.RecipeCount)
		}
	}

	return nil
}
