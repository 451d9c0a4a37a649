package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version   string          `yaml:"version" json:"version"`
	Backend   BackendConfig   `yaml:"backend" json:"backend"`
	Dashboard DashboardConfig `yaml:"dashboard" json:"dashboard"`
	Watch     WatchConfig     `yaml:"watch" json:"watch"`
	Output    OutputConfig    `yaml:"output" json:"output"`
}

// BackendConfig configures the dashboard backend connection
type BackendConfig struct {
	BaseURL string        `yaml:"base_url" json:"base_url"` // backend API root
	APIKey  string        `yaml:"api_key" json:"api_key"`   // forwarded on season fetches
	Timeout time.Duration `yaml:"timeout" json:"timeout"`   // per-request timeout
}

// DashboardConfig configures dashboard behavior
type DashboardConfig struct {
	DefaultYear     int           `yaml:"default_year" json:"default_year"`           // initial historical year selection
	UploadStatusTTL time.Duration `yaml:"upload_status_ttl" json:"upload_status_ttl"` // display window for the upload-success indicator
}

// WatchConfig configures the auto-upload directory watcher
type WatchConfig struct {
	Extensions  []string `yaml:"extensions" json:"extensions"`     // file extensions eligible for auto-upload
	AutoAnalyze bool     `yaml:"auto_analyze" json:"auto_analyze"` // analyze each file right after uploading it
}

// OutputConfig configures terminal output
type OutputConfig struct {
	ColorMode string `yaml:"color_mode" json:"color_mode"` // auto|always|never
	Verbose   bool   `yaml:"verbose" json:"verbose"`       // default verbosity
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Backend: BackendConfig{
			BaseURL: "http://localhost:8000/api",
			APIKey:  "",
			Timeout: 30 * time.Second,
		},
		Dashboard: DashboardConfig{
			DefaultYear:     2023,
			UploadStatusTTL: 4 * time.Second,
		},
		Watch: WatchConfig{
			Extensions:  []string{".csv", ".json"},
			AutoAnalyze: false,
		},
		Output: OutputConfig{
			ColorMode: "auto",
			Verbose:   false,
		},
	}
}

// Validate checks the configuration for contradictions
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base_url must not be empty")
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid backend base_url: %s", c.Backend.BaseURL)
	}

	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend timeout must be greater than 0")
	}

	if c.Dashboard.DefaultYear < 1950 {
		return fmt.Errorf("default_year must be 1950 or later (the archive starts in 1950)")
	}

	if c.Dashboard.UploadStatusTTL <= 0 {
		return fmt.Errorf("upload_status_ttl must be greater than 0")
	}

	for _, ext := range c.Watch.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("watch extension %q must start with a dot", ext)
		}
	}

	switch c.Output.ColorMode {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
	}

	return nil
}
