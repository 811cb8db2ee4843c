package cli

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nimgraph/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "scan finished (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// commandLogHooks logs every nimble invocation at debug level.
type commandLogHooks struct {
	logger *log.Logger
}

func (h *commandLogHooks) OnCommandStart(_ context.Context, name string, args []string) {
	h.logger.Debug("running", "command", name+" "+strings.Join(args, " "))
}

func (h *commandLogHooks) OnCommandComplete(_ context.Context, name string, args []string, exitCode int, d time.Duration, err error) {
	kv := []any{"command", name + " " + strings.Join(args, " "), "exit", exitCode, "took", d.Round(time.Millisecond)}
	if err != nil {
		kv = append(kv, "err", err)
	}
	h.logger.Debug("finished", kv...)
}

var _ observability.CommandHooks = (*commandLogHooks)(nil)

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
