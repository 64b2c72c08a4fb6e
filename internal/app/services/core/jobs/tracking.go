package jobs

import (
	"context"
	"orthanc-service/internal/app/models"
	"orthanc-service/internal/app/services/orthanc"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/dto/responses"
	"orthanc-service/internal/pkg/utils"
	"time"
)

// NewTrackedJob describes a freshly submitted job on behalf of the caller in ctx.
func NewTrackedJob(ctx context.Context, jobID, operation, level, resourceID string) *models.TrackedJob {
	now := time.Now().UTC()
	return &models.TrackedJob{
		JobID:       jobID,
		Operation:   operation,
		Level:       level,
		ResourceID:  resourceID,
		State:       constvars.OrthancJobStatePending,
		Subject:     utils.GetSubject(ctx),
		RequestID:   utils.GetRequestID(ctx),
		SubmittedAt: now,
		UpdatedAt:   now,
	}
}

// BuildJobResponse merges the server view of a job with what was tracked at
// submission. Either side may be missing.
func BuildJobResponse(jobID string, info orthanc.Information, tracked *models.TrackedJob) *responses.Job {
	response := &responses.Job{ID: jobID}
	if tracked != nil {
		response.Tracked = true
		response.State = tracked.State
		response.Operation = tracked.Operation
		response.Level = tracked.Level
		response.ResourceID = tracked.ResourceID
		response.ErrorCode = tracked.ErrorCode
		response.ErrorDescription = tracked.ErrorDescription
		response.Content = tracked.Content
		submittedAt := tracked.SubmittedAt
		response.SubmittedAt = &submittedAt
		response.CompletedAt = tracked.CompletedAt
	}

	if info != nil {
		if state, ok := info.String("State"); ok {
			response.State = state
		}
		if code, ok := info.Int("ErrorCode"); ok {
			response.ErrorCode = code
		}
		if description, ok := info.String("ErrorDescription"); ok {
			response.ErrorDescription = description
		}
		if content := info.Map("Content"); content != nil {
			response.Content = content
		}
		if response.Operation == "" {
			response.Operation, _ = info.String(constvars.OrthancKeyType)
		}
	}
	return response
}
