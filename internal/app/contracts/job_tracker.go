package contracts

import (
	"context"
	"orthanc-service/internal/app/models"
)

type JobTracker interface {
	Track(ctx context.Context, job *models.TrackedJob) error
	// Get returns nil without error when the job is not tracked.
	Get(ctx context.Context, jobID string) (*models.TrackedJob, error)
	Save(ctx context.Context, job *models.TrackedJob) error
	Untrack(ctx context.Context, jobID string) error
	ListJobIDs(ctx context.Context) ([]string, error)
}

type JobEventPublisher interface {
	PublishJobEvent(ctx context.Context, event *models.JobEvent) error
}
