package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/spec-kit/demand-analytics"

// Report span attributes.
var (
	AttrReportKind    = attribute.Key("analytics.report.kind")
	AttrReportUnitID  = attribute.Key("analytics.report.unit_id")
	AttrReportRecords = attribute.Key("analytics.report.records")
	AttrFilterEmpty   = attribute.Key("analytics.filter.empty")
)

// Tracer returns the tracer from the globally installed provider; a no-op unless the host configures one.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}
