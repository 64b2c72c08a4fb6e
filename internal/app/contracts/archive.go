package contracts

import (
	"context"
	"orthanc-service/internal/pkg/dto/responses"
)

type ArchiveUsecase interface {
	ExportArchive(ctx context.Context, level, resourceID string) (*responses.Archive, error)
}
