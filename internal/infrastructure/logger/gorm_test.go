package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func productsQuery() (string, int64) {
	return "SELECT * FROM products WHERE is_active = true", 12
}

func TestNewGormLogger(t *testing.T) {
	t.Run("defaults to 200ms threshold and ignores not-found", func(t *testing.T) {
		gormLog, _ := newObservedGormLogger(gormlogger.Info)

		assert.Equal(t, gormlogger.Info, gormLog.logLevel)
		assert.Equal(t, 200*time.Millisecond, gormLog.slowThreshold)
		assert.True(t, gormLog.ignoreRecordNotFoundError)
	})

	t.Run("options override the defaults", func(t *testing.T) {
		gormLog, _ := newObservedGormLogger(gormlogger.Info,
			WithSlowThreshold(500*time.Millisecond),
			WithIgnoreRecordNotFoundError(false),
		)

		assert.Equal(t, 500*time.Millisecond, gormLog.slowThreshold)
		assert.False(t, gormLog.ignoreRecordNotFoundError)
	})
}

func TestGormLoggerLogMode(t *testing.T) {
	gormLog, _ := newObservedGormLogger(gormlogger.Info)

	quiet := gormLog.LogMode(gormlogger.Silent)

	assert.Equal(t, gormlogger.Silent, quiet.(*GormLogger).logLevel)
	assert.Equal(t, gormlogger.Info, gormLog.logLevel, "original logger keeps its level")
}

func TestGormLoggerLevels(t *testing.T) {
	ctx := context.Background()

	t.Run("info passes at info level", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Info)
		gormLog.Info(ctx, "migrating %s", "products")
		assert.Equal(t, 1, recorded.Len())
	})

	t.Run("info is suppressed at warn level", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Warn)
		gormLog.Info(ctx, "migrating %s", "products")
		assert.Equal(t, 0, recorded.Len())
	})

	t.Run("warn and error pass at warn level", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Warn)
		gormLog.Warn(ctx, "pool saturated")
		gormLog.Error(ctx, "constraint violated")
		assert.Equal(t, 2, recorded.Len())
	})
}

func TestGormLoggerTrace(t *testing.T) {
	ctx := context.Background()

	t.Run("query errors log at error with the statement", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Error)

		gormLog.Trace(ctx, time.Now(), productsQuery, errors.New("connection reset"))

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Equal(t, "SQL Error", logs[0].Message)
		assert.Equal(t, zapcore.ErrorLevel, logs[0].Level)
		assert.Contains(t, logs[0].ContextMap()["sql"], "FROM products")
	})

	t.Run("not-found reads are suppressed by default", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Error)

		gormLog.Trace(ctx, time.Now(), productsQuery, gormlogger.ErrRecordNotFound)

		assert.Equal(t, 0, recorded.Len())
	})

	t.Run("not-found reads log when suppression is off", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Error, WithIgnoreRecordNotFoundError(false))

		gormLog.Trace(ctx, time.Now(), productsQuery, gormlogger.ErrRecordNotFound)

		assert.Equal(t, 1, recorded.Len())
	})

	t.Run("slow queries warn with the threshold in the message", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Nanosecond))

		gormLog.Trace(ctx, time.Now().Add(-time.Millisecond), productsQuery, nil)

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
		assert.Contains(t, logs[0].Message, "SLOW SQL")
	})

	t.Run("ordinary queries log at debug under info level", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Info)

		gormLog.Trace(ctx, time.Now(), productsQuery, nil)

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Equal(t, "SQL Query", logs[0].Message)
		assert.Equal(t, zapcore.DebugLevel, logs[0].Level)
	})

	t.Run("silent level drops everything", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Silent)

		gormLog.Trace(ctx, time.Now(), productsQuery, errors.New("ignored"))

		assert.Equal(t, 0, recorded.Len())
	})

	t.Run("request id from context rides along", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Info)
		ctx := context.WithValue(context.Background(), RequestIDKey, "req-555")

		gormLog.Trace(ctx, time.Now(), productsQuery, nil)

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Equal(t, "req-555", logs[0].ContextMap()["request_id"])
	})
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"verbose", gormlogger.Warn},
		{"", gormlogger.Warn},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, MapGormLogLevel(tt.level), "level %q", tt.level)
	}
}

var _ gormlogger.Interface = (*GormLogger)(nil)
