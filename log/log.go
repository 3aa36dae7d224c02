// Package log is a logrus facade that persists to a daily file when logging is enabled.
package log

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/reprise-cli/reprise/filesystem"
	"github.com/reprise-cli/reprise/key"
	"github.com/reprise-cli/reprise/where"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// enabled indicates the persistent logging state for the active application instance.
var enabled bool

// Fields annotates an entry with structured context.
type Fields = logrus.Fields

// Setup opens today's log file and applies format and level from configuration.
// When logs.write is false every emission is discarded.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.log", time.Now().Format("2006-01-02")))

	f, err := filesystem.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)

	if viper.GetBool(key.LogsJson) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	parsed, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)

	return nil
}

// Entry is a logger bound to a set of fields.
type Entry struct {
	fields Fields
}

// With returns an Entry carrying fields on every emission.
func With(fields Fields) Entry {
	return Entry{fields: fields}
}

// With extends the entry with more fields.
func (e Entry) With(fields Fields) Entry {
	merged := make(Fields, len(e.fields)+len(fields))
	for k, v := range e.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return Entry{fields: merged}
}

func (e Entry) Errorf(format string, args ...interface{}) {
	if enabled {
		logrus.WithFields(e.fields).Errorf(format, args...)
	}
}
func (e Entry) Warnf(format string, args ...interface{}) {
	if enabled {
		logrus.WithFields(e.fields).Warnf(format, args...)
	}
}
func (e Entry) Infof(format string, args ...interface{}) {
	if enabled {
		logrus.WithFields(e.fields).Infof(format, args...)
	}
}
func (e Entry) Debugf(format string, args ...interface{}) {
	if enabled {
		logrus.WithFields(e.fields).Debugf(format, args...)
	}
}

// Severity-Specific Log Emissions - these functions proxy messages to the configured backend when logging is enabled.

func Error(args ...interface{}) {
	if enabled {
		logrus.Error(args...)
	}
}
func Errorf(format string, args ...interface{}) {
	if enabled {
		logrus.Errorf(format, args...)
	}
}
func Warn(args ...interface{}) {
	if enabled {
		logrus.Warn(args...)
	}
}
func Warnf(format string, args ...interface{}) {
	if enabled {
		logrus.Warnf(format, args...)
	}
}
func Info(args ...interface{}) {
	if enabled {
		logrus.Info(args...)
	}
}
func Infof(format string, args ...interface{}) {
	if enabled {
		logrus.Infof(format, args...)
	}
}
func Debugf(format string, args ...interface{}) {
	if enabled {
		logrus.Debugf(format, args...)
	}
}
