// Package observability provides OpenTelemetry tracing for repository
// operations, remote fetches and gorm statements, plus optional
// Server-Timing response headers.
//
// Everything is opt-in. Without a TracerProvider a no-op tracer is used.
package observability

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
)

// TracerName is the instrumentation name for tracing.
const TracerName = "catalog"

const (
	AttrEntity       = "catalog.entity"
	AttrOperation    = "catalog.operation"
	AttrEntityKey    = "catalog.entity_key"
	AttrRelations    = "catalog.relations"
	AttrStagedCount  = "catalog.staged_count"
	AttrRemoteURL    = "catalog.remote.url"
	AttrRemoteTarget = "catalog.remote.resource"
)

// Log field names for trace correlation.
const (
	LogFieldTraceID = "trace_id"
	LogFieldSpanID  = "span_id"
)

func EntityAttr(entity string) attribute.KeyValue {
	return attribute.String(AttrEntity, entity)
}

func OperationAttr(op string) attribute.KeyValue {
	return attribute.String(AttrOperation, op)
}

// EntityKeyAttr records the identifier a lookup targeted.
func EntityKeyAttr(key any) attribute.KeyValue {
	return attribute.String(AttrEntityKey, fmt.Sprint(key))
}

func StagedCountAttr(n int) attribute.KeyValue {
	return attribute.Int(AttrStagedCount, n)
}

func RelationsAttr(relations []string) attribute.KeyValue {
	return attribute.StringSlice(AttrRelations, relations)
}
