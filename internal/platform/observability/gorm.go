package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	gormSpanKey        = "catalog:gorm:span"
	gormTimingStartKey = "catalog:gorm:timing_start"
	gormTimingName     = "catalog_server_timing"
)

type registrar func(db *gorm.DB, name string, fn func(*gorm.DB)) error

// callbackHook registers around one of gorm's core callbacks.
type callbackHook struct {
	op     string
	before registrar
	after  registrar
}

func hooks() []callbackHook {
	return []callbackHook{
		{
			op: "query",
			before: func(db *gorm.DB, n string, fn func(*gorm.DB)) error {
				return db.Callback().Query().Before("gorm:query").Register(n, fn)
			},
			after: func(db *gorm.DB, n string, fn func(*gorm.DB)) error {
				return db.Callback().Query().After("gorm:query").Register(n, fn)
			},
		},
		{
			op: "create",
			before: func(db *gorm.DB, n string, fn func(*gorm.DB)) error {
				return db.Callback().Create().Before("gorm:create").Register(n, fn)
			},
			after: func(db *gorm.DB, n string, fn func(*gorm.DB)) error {
				return db.Callback().Create().After("gorm:create").Register(n, fn)
			},
		},
		{
			op: "update",
			before: func(db *gorm.DB, n string, fn func(*gorm.DB)) error {
				return db.Callback().Update().Before("gorm:update").Register(n, fn)
			},
			after: func(db *gorm.DB, n string, fn func(*gorm.DB)) error {
				return db.Callback().Update().After("gorm:update").Register(n, fn)
			},
		},
		{
			op: "delete",
			before: func(db *gorm.DB, n string, fn func(*gorm.DB)) error {
				return db.Callback().Delete().Before("gorm:delete").Register(n, fn)
			},
			after: func(db *gorm.DB, n string, fn func(*gorm.DB)) error {
				return db.Callback().Delete().After("gorm:delete").Register(n, fn)
			},
		},
		{
			op: "row",
			before: func(db *gorm.DB, n string, fn func(*gorm.DB)) error {
				return db.Callback().Row().Before("gorm:row").Register(n, fn)
			},
			after: func(db *gorm.DB, n string, fn func(*gorm.DB)) error {
				return db.Callback().Row().After("gorm:row").Register(n, fn)
			},
		},
		{
			op: "raw",
			before: func(db *gorm.DB, n string, fn func(*gorm.DB)) error {
				return db.Callback().Raw().Before("gorm:raw").Register(n, fn)
			},
			after: func(db *gorm.DB, n string, fn func(*gorm.DB)) error {
				return db.Callback().Raw().After("gorm:raw").Register(n, fn)
			},
		},
	}
}

// RegisterGORMCallbacks registers per-statement tracing callbacks. It is a
// no-op unless tracing and detailed DB tracing are both enabled.
func RegisterGORMCallbacks(db *gorm.DB, cfg *Config) error {
	if !cfg.IsEnabled() || !cfg.EnableDetailedDBTracing {
		return nil
	}
	tracer := cfg.Tracer()
	for _, h := range hooks() {
		op := h.op
		if err := h.before(db, "catalog:before_"+op, func(tx *gorm.DB) {
			startSpan(tx, tracer, "db."+op)
		}); err != nil {
			return err
		}
		if err := h.after(db, "catalog:after_"+op, func(tx *gorm.DB) {
			endSpan(tx, tracer)
		}); err != nil {
			return err
		}
	}
	return nil
}

// RegisterServerTimingCallbacks reports each statement's duration as a "db"
// Server-Timing metric on the request that issued it.
func RegisterServerTimingCallbacks(db *gorm.DB) error {
	for _, h := range hooks() {
		op := h.op
		if err := h.before(db, gormTimingName+":before_"+op, beforeTiming); err != nil {
			return err
		}
		if err := h.after(db, gormTimingName+":after_"+op, func(tx *gorm.DB) {
			afterTiming(tx, op)
		}); err != nil {
			return err
		}
	}
	return nil
}

func beforeTiming(db *gorm.DB) {
	db.InstanceSet(gormTimingStartKey, time.Now())
}

func afterTiming(db *gorm.DB, op string) {
	v, ok := db.InstanceGet(gormTimingStartKey)
	if !ok {
		return
	}
	start, ok := v.(time.Time)
	if !ok || db.Statement == nil || db.Statement.Context == nil {
		return
	}
	desc := op
	if db.Statement.Table != "" {
		desc = op + " " + db.Statement.Table
	}
	AddServerTiming(db.Statement.Context, "db", desc, time.Since(start))
}

func startSpan(db *gorm.DB, tracer *Tracer, name string) {
	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := tracer.StartSpan(ctx, name, attribute.String("db.system", db.Dialector.Name()))
	db.Statement.Context = ctx
	db.InstanceSet(gormSpanKey, span)
}

func endSpan(db *gorm.DB, tracer *Tracer) {
	v, ok := db.InstanceGet(gormSpanKey)
	if !ok {
		return
	}
	span, ok := v.(trace.Span)
	if !ok {
		return
	}
	defer span.End()

	if db.Statement != nil {
		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		span.SetAttributes(attribute.Int64("db.rows_affected", db.RowsAffected))
	}
	tracer.RecordError(span, db.Error)
}
