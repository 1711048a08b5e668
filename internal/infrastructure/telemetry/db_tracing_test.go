package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type tracedListing struct {
	ID    uint   `gorm:"primaryKey"`
	Title string `gorm:"size:200"`
	Slug  string `gorm:"size:220"`
}

func (tracedListing) TableName() string { return "products" }

func newTracingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedListing{}))
	return db
}

func newSpanRecorder(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
	})
	return tp, recorder
}

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL, "query variables stay out of spans by default")
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestDBTracingPluginRegisterOtelGorm(t *testing.T) {
	t.Run("disabled config registers nothing", func(t *testing.T) {
		db := newTracingTestDB(t)
		_, recorder := newSpanRecorder(t)

		plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: false}, zap.NewNop())
		require.NoError(t, plugin.RegisterOtelGorm(db))

		require.NoError(t, db.Create(&tracedListing{Title: "Solar Lamp", Slug: "solar-lamp"}).Error)
		assert.Empty(t, recorder.Ended())
	})

	t.Run("enabled config produces query spans", func(t *testing.T) {
		db := newTracingTestDB(t)
		tp, recorder := newSpanRecorder(t)

		cfg := DefaultDBTracingConfig()
		cfg.Enabled = true
		plugin := NewDBTracingPlugin(cfg, zap.NewNop())
		require.NoError(t, plugin.RegisterOtelGorm(db))

		tracer := tp.Tracer("db.test")
		ctx, parent := tracer.Start(context.Background(), "create-listing")
		require.NoError(t, db.WithContext(ctx).Create(&tracedListing{Title: "Beaded Bag", Slug: "beaded-bag"}).Error)
		parent.End()

		assert.NotEmpty(t, recorder.Ended())
	})

	t.Run("double registration fails", func(t *testing.T) {
		db := newTracingTestDB(t)

		cfg := DefaultDBTracingConfig()
		cfg.Enabled = true
		plugin := NewDBTracingPlugin(cfg, zap.NewNop())
		require.NoError(t, plugin.RegisterOtelGorm(db))
		assert.Error(t, plugin.RegisterOtelGorm(db))
	})
}

func TestAnnotateSpan(t *testing.T) {
	newRecordedSpan := func(t *testing.T) (context.Context, *tracetest.SpanRecorder, func() sdktrace.ReadOnlySpan) {
		tp, recorder := newSpanRecorder(t)
		ctx, span := tp.Tracer("db.test").Start(context.Background(), "query")
		return ctx, recorder, func() sdktrace.ReadOnlySpan {
			span.End()
			spans := recorder.Ended()
			require.Len(t, spans, 1)
			return spans[0]
		}
	}

	plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())

	t.Run("attaches table and rows affected", func(t *testing.T) {
		ctx, _, ended := newRecordedSpan(t)

		db := &gorm.DB{RowsAffected: 3, Statement: &gorm.Statement{
			Context: ctx,
			Table:   "products",
		}}
		db.Statement.DB = db
		plugin.annotateSpan(db)

		span := ended()
		table, ok := spanAttr(span, "db.sql.table")
		require.True(t, ok)
		assert.Equal(t, "products", table.AsString())

		rows, ok := spanAttr(span, "db.rows_affected")
		require.True(t, ok)
		assert.Equal(t, int64(3), rows.AsInt64())
	})

	t.Run("marks real errors on the span", func(t *testing.T) {
		ctx, _, ended := newRecordedSpan(t)

		plugin.annotateSpan(&gorm.DB{
			Error:     gorm.ErrInvalidTransaction,
			Statement: &gorm.Statement{Context: ctx, Table: "products"},
		})

		span := ended()
		assert.Equal(t, codes.Error, span.Status().Code)
	})

	t.Run("a not-found read is not a span error", func(t *testing.T) {
		ctx, _, ended := newRecordedSpan(t)

		plugin.annotateSpan(&gorm.DB{
			Error:     gorm.ErrRecordNotFound,
			Statement: &gorm.Statement{Context: ctx, Table: "products"},
		})

		span := ended()
		assert.NotEqual(t, codes.Error, span.Status().Code)
	})

	t.Run("slow query gets the warning event", func(t *testing.T) {
		tp, recorder := newSpanRecorder(t)
		slowPlugin := NewDBTracingPlugin(DBTracingConfig{
			Enabled:         true,
			SlowQueryThresh: time.Nanosecond,
		}, zap.NewNop())

		ctx, span := tp.Tracer("db.test").Start(context.Background(), "query")
		ctx = WithQueryStartTime(ctx)
		time.Sleep(time.Millisecond)

		slowPlugin.annotateSpan(&gorm.DB{Statement: &gorm.Statement{Context: ctx, Table: "products"}})
		span.End()

		spans := recorder.Ended()
		require.Len(t, spans, 1)

		slow, ok := spanAttr(spans[0], "db.slow_query")
		require.True(t, ok)
		assert.True(t, slow.AsBool())

		var sawEvent bool
		for _, ev := range spans[0].Events() {
			if ev.Name == "slow_query_warning" {
				sawEvent = true
			}
		}
		assert.True(t, sawEvent)
	})

	t.Run("fast query carries no slow marker", func(t *testing.T) {
		ctx, _, ended := newRecordedSpan(t)
		ctx = WithQueryStartTime(ctx)

		plugin.annotateSpan(&gorm.DB{Statement: &gorm.Statement{Context: ctx, Table: "products"}})

		span := ended()
		_, ok := spanAttr(span, "db.slow_query")
		assert.False(t, ok)
	})

	t.Run("nil statement context is ignored", func(t *testing.T) {
		assert.NotPanics(t, func() {
			plugin.annotateSpan(&gorm.DB{Statement: &gorm.Statement{Context: nil}})
		})
	})
}

func TestWithQueryStartTime(t *testing.T) {
	ctx := WithQueryStartTime(context.Background())

	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), start, time.Second)
}
