package barsim

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger builds a text formatted logrus logger writing to out at the given
// level ("debug", "info", "warn", ...). The backtester itself only needs a
// logrus.FieldLogger, so any configured logger or entry can be passed with
// WithLogger instead.
func NewLogger(level string, out io.Writer) (*logrus.Logger, error) {

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, configErrorf("log level %q: %v", level, err)
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return l, nil
}
