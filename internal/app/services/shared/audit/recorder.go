package audit

import (
	"context"
	"orthanc-service/internal/app/contracts"
	"orthanc-service/internal/app/models"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// Record stores event with the caller and request ID taken from ctx. A failed
// write is logged and otherwise ignored so it never fails the audited operation.
func Record(ctx context.Context, repository contracts.AuditRepository, log *zap.Logger, event *models.AuditEvent) {
	if repository == nil {
		return
	}
	event.Subject = utils.GetSubject(ctx)
	event.RequestID = utils.GetRequestID(ctx)

	_, err := repository.InsertEvent(ctx, event)
	if err != nil {
		log.Warn("audit.Record error storing audit event",
			zap.String(constvars.LoggingRequestIDKey, event.RequestID),
			zap.String(constvars.LoggingOperationKey, event.Action),
			zap.String(constvars.LoggingResourceIDKey, event.ResourceID),
			zap.Error(err),
		)
	}
}
