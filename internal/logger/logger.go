package logger

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a configured logrus logger. Unknown level strings fall back
// to info.
func New(level string, out io.Writer) *logrus.Logger {
	log := logrus.New()
	if out == nil {
		out = os.Stdout
	}
	log.SetOutput(out)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}

var defaultLogger = New("info", os.Stdout)

// SetDefault sets the default logger.
func SetDefault(l *logrus.Logger) {
	defaultLogger = l
}

// Default returns the default logger.
func Default() *logrus.Logger {
	return defaultLogger
}

// WithComponent returns an entry on the default logger tagged with a
// component name.
func WithComponent(name string) *logrus.Entry {
	return defaultLogger.WithField("component", name)
}

// Context key for request-scoped logger.
type ctxKey struct{}

// FromContext returns the entry from the context, or an entry on the
// default logger.
func FromContext(ctx context.Context) *logrus.Entry {
	if e, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok {
		return e
	}
	return logrus.NewEntry(defaultLogger)
}

// NewContext returns a new context carrying the given entry.
func NewContext(ctx context.Context, e *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, e)
}
