// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"

	"alcyxob/workout-tracker/internal/config"
)

// Setup applies level and formatter from configuration. Unknown levels fall
// back to info.
func Setup(cfg config.LogConfig) {
	SetupWriter(cfg, os.Stdout)
}

// SetupWriter is Setup with an explicit output, used by tests and the CLI.
func SetupWriter(cfg config.LogConfig, out io.Writer) {
	level, errParse := log.ParseLevel(strings.TrimSpace(cfg.Level))
	if errParse != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetOutput(out)

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// GormLevel maps the logrus level onto gorm's logger so SQL tracing only
// shows up at debug.
func GormLevel() logger.LogLevel {
	switch log.GetLevel() {
	case log.DebugLevel, log.TraceLevel:
		return logger.Info
	case log.InfoLevel, log.WarnLevel:
		return logger.Warn
	default:
		return logger.Error
	}
}
