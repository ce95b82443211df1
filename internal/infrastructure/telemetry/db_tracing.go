package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// DBTracingConfig holds configuration for database tracing
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // include query variables in spans, never in production
	SlowQueryThresh time.Duration
	DBName          string
}

// RegisterDBTracing installs the otelgorm plugin plus callbacks that tag
// each span with the table, affected rows and a slow_query marker.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	// Registered ahead of the plugin so the after hooks run while its span is still open
	if err := registerTimingCallbacks(db, cfg.SlowQueryThresh); err != nil {
		return err
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

func registerTimingCallbacks(db *gorm.DB, threshold time.Duration) error {
	cb := db.Callback()
	after := afterCallback(threshold)
	return errors.Join(
		cb.Create().Before("gorm:create").Register("otel_timing:before_create", beforeCallback),
		cb.Query().Before("gorm:query").Register("otel_timing:before_query", beforeCallback),
		cb.Update().Before("gorm:update").Register("otel_timing:before_update", beforeCallback),
		cb.Delete().Before("gorm:delete").Register("otel_timing:before_delete", beforeCallback),
		cb.Row().Before("gorm:row").Register("otel_timing:before_row", beforeCallback),
		cb.Raw().Before("gorm:raw").Register("otel_timing:before_raw", beforeCallback),
		cb.Create().After("gorm:create").Register("otel_timing:after_create", after),
		cb.Query().After("gorm:query").Register("otel_timing:after_query", after),
		cb.Update().After("gorm:update").Register("otel_timing:after_update", after),
		cb.Delete().After("gorm:delete").Register("otel_timing:after_delete", after),
		cb.Row().After("gorm:row").Register("otel_timing:after_row", after),
		cb.Raw().After("gorm:raw").Register("otel_timing:after_raw", after),
	)
}

func beforeCallback(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

func afterCallback(threshold time.Duration) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}

		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			RecordError(span, db.Error)
		}

		start, ok := ctx.Value(queryStartTimeKey).(time.Time)
		if !ok {
			return
		}
		if elapsed := time.Since(start); elapsed > threshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
