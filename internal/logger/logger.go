package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/garage-manager/internal/config"
)

// New builds the process logger. Production gets JSON lines, everything
// else gets the colored text formatter.
func New(cfg *config.Config) *logrus.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

func NewWithWriter(cfg *config.Config, w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)

	if cfg.IsProduction() {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	return l
}

// Discard is used by tests and by components built without a logger.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
