// Package logger builds the console logger and the durable error log.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a console logger writing to out at the given level and format
// ("text" or "json").
func New(out io.Writer, level, format string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(lvl)
	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log, nil
}

// ErrorLog appends unexpected failures to a file so they survive the session.
type ErrorLog struct {
	*logrus.Logger
	file *os.File
}

// OpenErrorLog opens path for appending, creating it if needed.
func OpenErrorLog(path string) (*ErrorLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open error log: %w", err)
	}

	log := logrus.New()
	log.SetOutput(f)
	log.SetLevel(logrus.ErrorLevel)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		DisableColors:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return &ErrorLog{Logger: log, file: f}, nil
}

// Discard returns an ErrorLog that drops everything.
func Discard() *ErrorLog {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &ErrorLog{Logger: log}
}

// Record writes err with the action id and the command that failed.
func (l *ErrorLog) Record(actionID, command string, err error) {
	l.WithFields(logrus.Fields{
		"action":  actionID,
		"command": command,
	}).WithError(err).Error("Action failed")
}

func (l *ErrorLog) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
