package contracts

import (
	"context"
	"orthanc-service/internal/pkg/dto/requests"
	"orthanc-service/internal/pkg/dto/responses"
)

type JobUsecase interface {
	ListJobs(ctx context.Context) ([]string, error)
	GetJob(ctx context.Context, jobID string) (*responses.Job, error)
	TransitionJob(ctx context.Context, jobID, action string) (*responses.Job, error)
	WaitJob(ctx context.Context, jobID string, request *requests.WaitJob) (*responses.Job, error)
	TrackedJobIDs(ctx context.Context) ([]string, error)
	// RefreshTrackedJob reports whether the job reached a terminal state and was settled.
	RefreshTrackedJob(ctx context.Context, jobID string) (bool, error)
}
