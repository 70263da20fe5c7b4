package logging

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var validLogFormats = map[string]bool{
	"text": true,
	"json": true,
}

// Config defines console logging configuration.
type Config struct {
	// Log level, e.g. INFO, ERROR etc
	Level string
	// Logging format, either text or json
	Format string
}

// Configure applies the level and format in c to the standard logrus logger.
func Configure(c Config) error {
	level, err := parseLogLevel(c.Level)
	if err != nil {
		return err
	}
	if err := validateLogFormat(c.Format); err != nil {
		return err
	}

	log.SetLevel(level)
	log.SetOutput(os.Stdout)
	switch strings.ToLower(c.Format) {
	case "json":
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: RFC3339Milli})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: RFC3339Milli})
	}
	return nil
}

const RFC3339Milli = "2006-01-02T15:04:05.000Z07:00"

func validateLogFormat(f string) error {
	_, ok := validLogFormats[strings.ToLower(f)]
	if !ok {
		formats := maps.Keys(validLogFormats)
		slices.Sort(formats)
		return errors.Errorf("unknown log format: %s.  Valid formats are %s", f, formats)
	}
	return nil
}

func parseLogLevel(level string) (log.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	case "panic":
		return log.PanicLevel, nil
	case "fatal":
		return log.FatalLevel, nil
	default:
		return log.InfoLevel, errors.Errorf("unknown level: %s", level)
	}
}
