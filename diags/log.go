package diags

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/reusee/bastapir/logs"
)

// Log collects diagnostics and forwards each one to the logger.
type Log struct {
	ctx    context.Context
	logger logs.Logger

	mu          sync.Mutex
	diagnostics []Diagnostic
	counts      [SeverityError + 1]int
}

var _ Reporter = new(Log)

type NewLog func(ctx context.Context) *Log

func (Module) NewLog(
	logger logs.Logger,
) NewLog {
	return func(ctx context.Context) *Log {
		return &Log{
			ctx:    ctx,
			logger: logger,
		}
	}
}

func (l *Log) Error(loc Location, msg string) {
	l.add(SeverityError, loc, msg)
}

func (l *Log) Warning(loc Location, msg string) {
	l.add(SeverityWarning, loc, msg)
}

func (l *Log) Info(loc Location, msg string) {
	l.add(SeverityInfo, loc, msg)
}

func (l *Log) add(severity Severity, loc Location, msg string) {
	l.mu.Lock()
	l.diagnostics = append(l.diagnostics, Diagnostic{
		Severity: severity,
		Location: loc,
		Message:  msg,
	})
	l.counts[severity]++
	l.mu.Unlock()

	var level slog.Level
	switch severity {
	case SeverityError:
		level = slog.LevelError
	case SeverityWarning:
		level = slog.LevelWarn
	default:
		level = slog.LevelInfo
	}
	var args []any
	if loc.Path != "" {
		args = append(args, "file", loc.Path)
	}
	if loc.Line > 0 {
		args = append(args, "line", loc.Line, "column", loc.Column)
	}
	l.logger.Log(l.ctx, level, msg, args...)
}

func (l *Log) Diagnostics() []Diagnostic {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.diagnostics)
}

func (l *Log) ErrorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[SeverityError]
}

func (l *Log) WarningCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[SeverityWarning]
}

// Err joins every reported error, or returns nil if there is none.
func (l *Log) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	var errs []error
	for _, d := range l.diagnostics {
		if d.Severity != SeverityError {
			continue
		}
		errs = append(errs, At(d.Location, errors.New(d.Message)))
	}
	return errors.Join(errs...)
}
