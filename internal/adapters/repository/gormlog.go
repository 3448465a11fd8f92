package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/okian/careertrack/pkg/logger"
	"github.com/okian/careertrack/pkg/metrics"
)

// sqlLogger adapts logger.Logger to GORM's logger interface. Every traced
// statement feeds the store latency histogram.
type sqlLogger struct {
	log       logger.Logger
	level     gormlogger.LogLevel
	slowQuery time.Duration
}

func newSQLLogger(l logger.Logger, slow time.Duration) *sqlLogger {
	return &sqlLogger{log: l, level: gormlogger.Warn, slowQuery: slow}
}

func (s *sqlLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	c := *s
	c.level = level
	return &c
}

func (s *sqlLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if s.level >= gormlogger.Info {
		s.log.Info(ctx, fmt.Sprintf(msg, args...))
	}
}

func (s *sqlLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if s.level >= gormlogger.Warn {
		s.log.Warn(ctx, fmt.Sprintf(msg, args...))
	}
}

func (s *sqlLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if s.level >= gormlogger.Error {
		s.log.Error(ctx, fmt.Sprintf(msg, args...))
	}
}

func (s *sqlLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()
	metrics.RecordStoreQueryLatency(statementKind(sql), float64(elapsed.Microseconds())/1000)

	if s.level <= gormlogger.Silent {
		return
	}
	fields := []logger.Field{
		logger.String("sql", sql),
		logger.Int64("rows", rows),
		logger.Duration("elapsed", elapsed),
	}
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && s.level >= gormlogger.Error:
		s.log.Error(ctx, "query failed", append(fields, logger.Error(err))...)
	case s.slowQuery > 0 && elapsed > s.slowQuery && s.level >= gormlogger.Warn:
		s.log.Warn(ctx, "slow query", append(fields, logger.Duration("threshold", s.slowQuery))...)
	case s.level >= gormlogger.Info:
		s.log.Debug(ctx, "query", fields...)
	}
}

// statementKind returns the lowercased leading SQL verb, e.g. "select".
func statementKind(sql string) string {
	sql = strings.TrimSpace(sql)
	if i := strings.IndexAny(sql, " \n\t"); i > 0 {
		sql = sql[:i]
	}
	switch k := strings.ToLower(sql); k {
	case "select", "insert", "update", "delete":
		return k
	default:
		return "other"
	}
}
