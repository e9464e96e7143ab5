package events

import (
	"time"

	"github.com/spec-kit/demand-analytics/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReportGenerated EventType = "report_generated"
	EventReportFailed    EventType = "report_failed"
)

// ReportKind names the report shapes the engine produces.
type ReportKind string

const (
	ReportKindGeneral      ReportKind = "general"
	ReportKindUnit         ReportKind = "unit"
	ReportKindPerformance  ReportKind = "performance"
	ReportKindNeighborhood ReportKind = "neighborhood"
	ReportKindExport       ReportKind = "export"
)

// Event represents an audit record emitted after each report request.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ReportGeneratedPayload payload.
type ReportGeneratedPayload struct {
	Kind     ReportKind            `json:"kind"`
	Filters  domain.FilterCriteria `json:"filters"`
	UnitID   *string               `json:"unit_id,omitempty"`
	Records  int                   `json:"records"`
	Duration time.Duration         `json:"duration"`
}

// ReportFailedPayload payload.
type ReportFailedPayload struct {
	Kind    ReportKind            `json:"kind"`
	Filters domain.FilterCriteria `json:"filters"`
	Code    string                `json:"code"`
	Error   string                `json:"error"`
}
