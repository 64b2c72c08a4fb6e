package contracts

import (
	"context"
	"orthanc-service/internal/app/models"
)

type AuditRepository interface {
	InsertEvent(ctx context.Context, event *models.AuditEvent) (string, error)
	FindByResource(ctx context.Context, level, resourceID string, limit int64) ([]models.AuditEvent, error)
}
