package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fintrack/internal/log"
)

const slowQueryThreshold = 200 * time.Millisecond

// gormLogger routes gorm's logging through the application logger.
type gormLogger struct {
	log     *log.Logger
	level   logger.LogLevel
	queries bool
}

func newGormLogger(l *log.Logger, logQueries bool) logger.Interface {
	if l == nil {
		l = log.Discard()
	}
	return &gormLogger{log: l.WithComponent(log.ComponentStorage), level: logger.Warn, queries: logQueries}
}

func (g *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	c := *g
	c.level = level
	return &c
}

func (g *gormLogger) Info(ctx context.Context, msg string, args ...any) {
	if g.level >= logger.Info {
		g.log.InfoContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (g *gormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if g.level >= logger.Warn {
		g.log.WarnContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (g *gormLogger) Error(ctx context.Context, msg string, args ...any) {
	if g.level >= logger.Error {
		g.log.ErrorContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && g.level >= logger.Error:
		sql, rows := fc()
		g.log.ErrorContext(ctx, "Query failed",
			log.FieldError, err.Error(),
			log.FieldErrorType, log.ErrorTypeDatabase,
			"sql", sql, "rows", rows, log.FieldDuration, elapsed.Milliseconds())
	case elapsed > slowQueryThreshold && g.level >= logger.Warn:
		sql, rows := fc()
		g.log.WarnContext(ctx, "Slow query", "sql", sql, "rows", rows, log.FieldDuration, elapsed.Milliseconds())
	case g.queries:
		sql, rows := fc()
		g.log.DebugContext(ctx, "Query", "sql", sql, "rows", rows, log.FieldDuration, elapsed.Milliseconds())
	}
}
