// Package appconfig reads typed settings from the wbf config with defaults applied
package appconfig

import (
	"strconv"
	"time"

	"github.com/UnendingLoop/PhotoRestorer/internal/imageproc"
	"github.com/UnendingLoop/PhotoRestorer/internal/restorer"
	"github.com/UnendingLoop/PhotoRestorer/internal/session"
	"github.com/wb-go/wbf/config"
)

// Getter is the part of *config.Config used here
type Getter interface {
	GetString(key string) string
}

var _ Getter = (*config.Config)(nil)

type Settings struct {
	Port        string
	GinMode     string
	LogLevel    string
	APIKey      string
	Model       string
	SessionTTL  time.Duration
	PreviewSize int
}

func Load(cfg Getter) Settings {
	s := Settings{
		Port:        orDefault(cfg.GetString("APP_PORT"), "8080"),
		GinMode:     orDefault(cfg.GetString("GIN_MODE"), "release"),
		LogLevel:    orDefault(cfg.GetString("LOG_LEVEL"), "info"),
		APIKey:      cfg.GetString("GEMINI_API_KEY"),
		Model:       orDefault(cfg.GetString("GEMINI_MODEL"), restorer.DefaultModel),
		SessionTTL:  session.DefaultTTL,
		PreviewSize: imageproc.DefaultPreviewSize,
	}
	if s.APIKey == "" {
		s.APIKey = cfg.GetString("API_KEY")
	}

	if ttl, err := time.ParseDuration(cfg.GetString("SESSION_TTL")); err == nil && ttl > 0 {
		s.SessionTTL = ttl
	}
	if size, err := strconv.Atoi(cfg.GetString("PREVIEW_SIZE")); err == nil && size > 0 {
		s.PreviewSize = size
	}
	return s
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
