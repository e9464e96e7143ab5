package worker

import (
	"github.com/spec-kit/demand-analytics/internal/service"
)

// StartAuditWorker registers the report audit handlers.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
