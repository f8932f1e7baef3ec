package initializer

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spotavibe/spotavibe/pkg/config"
)

var (
	errorColor = lipgloss.Color("#FF6B6B")
	warnColor  = lipgloss.Color("#EE6FF8")
	infoColor  = lipgloss.Color("#04B575")
	debugColor = lipgloss.Color("#7E57C2")
)

// levelBadges are the glyphs printed in place of the level name.
var levelBadges = map[log.Level]struct {
	glyph string
	color lipgloss.Color
}{
	log.ErrorLevel: {"❌", errorColor},
	log.WarnLevel:  {"⚠️", warnColor},
	log.InfoLevel:  {"ℹ️", infoColor},
	log.DebugLevel: {"🐛", debugColor},
}

// highlightedKeys are attributes operators grep for when matching a log
// line to the Stripe dashboard or a user report.
var highlightedKeys = map[string]lipgloss.Color{
	"error":      errorColor,
	"event_id":   infoColor,
	"session_id": infoColor,
	"user_id":    infoColor,
	"artist_id":  infoColor,
	"prefix":     debugColor,
	"caller":     debugColor,
}

func setupLogger(cfg *config.Log) *slog.Logger {
	return newLogger(os.Stdout, cfg)
}

// newLogger builds the charmbracelet-backed slog logger and installs it as
// the process default.
func newLogger(w io.Writer, cfg *config.Log) *slog.Logger {
	if cfg == nil {
		cfg = &config.Log{Format: "text"}
	}

	styles := log.DefaultStyles()
	for level, badge := range levelBadges {
		styles.Levels[level] = lipgloss.NewStyle().
			SetString(badge.glyph).
			Bold(true).
			Padding(0, 1).
			Foreground(badge.color)
	}
	for key, color := range highlightedKeys {
		styles.Keys[key] = lipgloss.NewStyle().Foreground(color)
		styles.Values[key] = lipgloss.NewStyle().Bold(true)
	}

	formatter := log.TextFormatter
	if cfg.Format == "json" {
		formatter = log.JSONFormatter
	}

	handler := log.NewWithOptions(w, log.Options{
		Prefix:          cfg.Prefix,
		Level:           log.Level(cfg.Level),
		Formatter:       formatter,
		TimeFormat:      cfg.TimeFormat,
		ReportTimestamp: true,
		ReportCaller:    true,
	})
	handler.SetStyles(styles)

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
