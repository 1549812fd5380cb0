package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"repairshop/internal/adapters/http/perf"
)

// DefaultSlowQueryMs is the default threshold for slow query warnings.
const DefaultSlowQueryMs = 50

// QueryLogger is a gorm logger that reports slow queries through slog and
// records every statement's timing to a perf collector.
type QueryLogger struct {
	collector *perf.Collector
	threshold time.Duration
	level     logger.LogLevel
}

// Compile-time check that *QueryLogger satisfies gorm's logger.
var _ logger.Interface = (*QueryLogger)(nil)

// NewQueryLogger creates a logger with the given slow-query threshold.
// PRE: collector may be nil (timings are then only logged)
// POST: thresholdMs <= 0 falls back to DefaultSlowQueryMs
func NewQueryLogger(collector *perf.Collector, thresholdMs int) *QueryLogger {
	if thresholdMs <= 0 {
		thresholdMs = DefaultSlowQueryMs
	}
	return &QueryLogger{
		collector: collector,
		threshold: time.Duration(thresholdMs) * time.Millisecond,
		level:     logger.Warn,
	}
}

// LogMode returns a copy of the logger at the given level.
func (l *QueryLogger) LogMode(level logger.LogLevel) logger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *QueryLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Info {
		slog.InfoContext(ctx, "db_event", "event", "info", "msg", fmt.Sprintf(msg, args...))
	}
}

func (l *QueryLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Warn {
		slog.WarnContext(ctx, "db_event", "event", "warn", "msg", fmt.Sprintf(msg, args...))
	}
}

func (l *QueryLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Error {
		slog.ErrorContext(ctx, "db_event", "event", "error", "msg", fmt.Sprintf(msg, args...))
	}
}

// Trace is called by gorm after every statement.
func (l *QueryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	query, rows := fc()
	label := queryLabel(query)

	if l.collector != nil {
		l.collector.Record(perf.Entry{
			Kind:       perf.KindQuery,
			Path:       label,
			DurationMs: float64(elapsed.Microseconds()) / 1000,
			Timestamp:  begin,
		})
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error:
		slog.ErrorContext(ctx, "db_event", "event", "query_failed", "query", label, "duration_ms", elapsed.Milliseconds(), "error", err)
	case elapsed >= l.threshold && l.level >= logger.Warn:
		slog.WarnContext(ctx, "db_event", "event", "slow_query", "query", label, "duration_ms", elapsed.Milliseconds(), "rows", rows)
	case l.level >= logger.Info:
		slog.DebugContext(ctx, "db_event", "event", "query", "query", label, "duration_ms", elapsed.Milliseconds(), "rows", rows)
	}
}

// queryLabel reduces a statement to "VERB table" for aggregation,
// e.g. "SELECT appointments" or "INSERT settings".
func queryLabel(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "UNKNOWN"
	}
	verb := strings.ToUpper(fields[0])
	var marker string
	switch verb {
	case "SELECT", "DELETE":
		marker = "FROM"
	case "INSERT", "REPLACE":
		marker = "INTO"
	case "UPDATE":
		return verb + " " + trimIdent(at(fields, 1))
	default:
		return verb
	}
	for i, f := range fields {
		if strings.EqualFold(f, marker) {
			return verb + " " + trimIdent(at(fields, i+1))
		}
	}
	return verb
}

func at(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

func trimIdent(s string) string {
	return strings.Trim(s, "`\"'[]();")
}
