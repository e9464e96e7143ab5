package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/demand-analytics/internal/events"
)

// AuditService writes an audit log line for every report request.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventReportGenerated, a.handleReportGenerated)
	a.dispatcher.Subscribe(events.EventReportFailed, a.handleReportFailed)
}

func (a *AuditService) handleReportGenerated(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ReportGeneratedPayload)
	if !ok {
		a.logger.Warn("ReportGenerated with unexpected payload", zap.String("event_id", event.ID))
		return nil
	}
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("kind", string(payload.Kind)),
		zap.Any("filters", payload.Filters),
		zap.Int("records", payload.Records),
		zap.Duration("duration", payload.Duration),
	}
	if payload.UnitID != nil {
		fields = append(fields, zap.String("unit_id", *payload.UnitID))
	}
	a.logger.Info("ReportGenerated", fields...)
	return nil
}

func (a *AuditService) handleReportFailed(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ReportFailedPayload)
	if !ok {
		a.logger.Warn("ReportFailed with unexpected payload", zap.String("event_id", event.ID))
		return nil
	}
	a.logger.Warn("ReportFailed",
		zap.String("event_id", event.ID),
		zap.String("kind", string(payload.Kind)),
		zap.Any("filters", payload.Filters),
		zap.String("code", payload.Code),
		zap.String("error", payload.Error),
	)
	return nil
}
