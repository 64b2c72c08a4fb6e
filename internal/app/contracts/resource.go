package contracts

import (
	"context"
	"orthanc-service/internal/pkg/dto/requests"
	"orthanc-service/internal/pkg/dto/responses"
)

type ResourceUsecase interface {
	ListResources(ctx context.Context, level string) ([]string, error)
	FindResources(ctx context.Context, request *requests.FindResources) ([]responses.ResourceReference, error)
	GetResource(ctx context.Context, level, resourceID string) (*responses.Resource, error)
	ListChildren(ctx context.Context, level, resourceID string) ([]responses.ResourceReference, error)
	ListLabels(ctx context.Context, level, resourceID string) ([]string, error)
	AddLabel(ctx context.Context, level, resourceID, label string) error
	RemoveLabel(ctx context.Context, level, resourceID, label string) error
	DeleteResource(ctx context.Context, level, resourceID string) error
	AnonymizeResource(ctx context.Context, level, resourceID string, request *requests.AnonymizeResource) (*responses.Job, error)
	ModifyResource(ctx context.Context, level, resourceID string, request *requests.ModifyResource) (*responses.Job, error)
	GetAuditTrail(ctx context.Context, level, resourceID string) ([]responses.AuditEvent, error)
}
