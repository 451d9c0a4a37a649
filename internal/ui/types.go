package ui

import (
	"time"

	"github.com/mkaraca/pitwall/internal/api"
	"github.com/mkaraca/pitwall/internal/logger"
)

// promptKind identifies which single-line input prompt is open, if any.
type promptKind int

const (
	promptNone promptKind = iota
	promptAPIKey
	promptYear
	promptUploadPath
)

// Options configures the dashboard TUI.
type Options struct {
	Client          *api.Client
	APIKey          string
	DefaultYear     int
	UploadStatusTTL time.Duration
	Logger          *logger.Logger
}
