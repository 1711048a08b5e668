package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig controls query span generation.
type DBTracingConfig struct {
	Enabled bool
	// LogFullSQL puts bound query variables into span attributes.
	// Contact details and password hashes travel through queries, so
	// production keeps this off.
	LogFullSQL      bool
	SlowQueryThresh time.Duration // default 200ms
	DBSystem        string        // default "postgresql"
}

// DefaultDBTracingConfig is disabled and redacts query variables.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:         false,
		LogFullSQL:      false,
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "postgresql",
	}
}

// DBTracingPlugin layers slow query detection and error marking on
// top of otelgorm spans.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin builds the plugin; RegisterOtelGorm wires it in.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{
		config: cfg,
		logger: logger,
	}
}

// RegisterOtelGorm installs otelgorm on db plus the plugin's own
// callbacks for timing, slow query events and error status.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(p.config.DBSystem),
	}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := p.registerCallbacks(db); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)

	return nil
}

func (p *DBTracingPlugin) registerCallbacks(db *gorm.DB) error {
	before := func(db *gorm.DB) {
		if db.Statement.Context != nil {
			db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
		}
	}

	cb := db.Callback()
	registrations := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("otel_timing:before_create", before) },
		func() error { return cb.Query().Before("gorm:query").Register("otel_timing:before_query", before) },
		func() error { return cb.Update().Before("gorm:update").Register("otel_timing:before_update", before) },
		func() error { return cb.Delete().Before("gorm:delete").Register("otel_timing:before_delete", before) },
		func() error { return cb.Row().Before("gorm:row").Register("otel_timing:before_row", before) },
		func() error { return cb.Raw().Before("gorm:raw").Register("otel_timing:before_raw", before) },
		func() error {
			return cb.Create().After("gorm:create").Register("otel_slow_query:create", p.annotateSpan)
		},
		func() error { return cb.Query().After("gorm:query").Register("otel_slow_query:query", p.annotateSpan) },
		func() error {
			return cb.Update().After("gorm:update").Register("otel_slow_query:update", p.annotateSpan)
		},
		func() error {
			return cb.Delete().After("gorm:delete").Register("otel_slow_query:delete", p.annotateSpan)
		},
		func() error { return cb.Row().After("gorm:row").Register("otel_slow_query:row", p.annotateSpan) },
		func() error { return cb.Raw().After("gorm:raw").Register("otel_slow_query:raw", p.annotateSpan) },
	}

	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}

// annotateSpan runs after each query. It attaches rows affected and
// table attributes, marks span status on real errors (a not-found
// read is a normal outcome, not a span error), and emits a slow query
// event when the timed duration crosses the threshold.
func (p *DBTracingPlugin) annotateSpan(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if startTime, ok := ctx.Value(queryStartTimeKey).(time.Time); ok {
		elapsed := time.Since(startTime)
		if elapsed > p.config.SlowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
			))
		}
	}
}

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// WithQueryStartTime stamps ctx with a query start time, the same
// mark the before callbacks set.
func WithQueryStartTime(ctx context.Context) context.Context {
	return context.WithValue(ctx, queryStartTimeKey, time.Now())
}
