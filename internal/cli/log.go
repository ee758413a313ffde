package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a charm logger with sub-second timestamps ("14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stage times one step of a command and logs its outcome with the elapsed
// duration attached as a structured field.
type stage struct {
	logger *log.Logger
	name   string
	start  time.Time
}

func startStage(l *log.Logger, name string) *stage {
	l.Debug("stage started", "stage", name)
	return &stage{logger: l, name: name, start: time.Now()}
}

func (s *stage) elapsed() time.Duration {
	return time.Since(s.start).Round(time.Millisecond)
}

// done logs msg at info with keyvals followed by the stage name and elapsed time.
func (s *stage) done(msg string, keyvals ...any) {
	s.logger.Info(msg, append(keyvals, "stage", s.name, "elapsed", s.elapsed())...)
}

// fail logs err at debug; the command reports it to the user.
func (s *stage) fail(err error) {
	s.logger.Debug("stage failed", "stage", s.name, "elapsed", s.elapsed(), "err", err)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx, tagged with the running command's name.
func withLogger(ctx context.Context, l *log.Logger, command string) context.Context {
	if command != "" {
		l = l.With("cmd", command)
	}
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger set by withLogger, or log.Default.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
