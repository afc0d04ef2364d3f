// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"

	"github.com/jandubois/injector-probe/internal/config"
)

// New returns a logger writing to w at the configured level and format.
func New(cfg *config.ProbeConfig, w io.Writer) *slog.Logger {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.WarnLevel
	}

	formatter := log.TextFormatter
	switch cfg.LogFormat {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	}

	handler := log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		Prefix:          "probe",
		ReportTimestamp: true,
	})
	return slog.New(handler)
}

// Setup installs the configured logger as the slog default.
func Setup(cfg *config.ProbeConfig, w io.Writer) {
	slog.SetDefault(New(cfg, w))
}
