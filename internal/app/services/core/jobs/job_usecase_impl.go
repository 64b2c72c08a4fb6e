package jobs

import (
	"context"
	"errors"
	"orthanc-service/internal/app/config"
	"orthanc-service/internal/app/contracts"
	"orthanc-service/internal/app/models"
	"orthanc-service/internal/app/services/orthanc"
	"orthanc-service/internal/app/services/shared/audit"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/dto/requests"
	"orthanc-service/internal/pkg/dto/responses"
	"orthanc-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	jobUsecaseInstance contracts.JobUsecase
	onceJobUsecase     sync.Once
)

type jobUsecase struct {
	Client          *orthanc.Client
	JobTracker      contracts.JobTracker
	EventPublisher  contracts.JobEventPublisher
	Locker          contracts.LockerService
	AuditRepository contracts.AuditRepository
	InternalConfig  *config.InternalConfig
	Log             *zap.Logger
}

func NewJobUsecase(
	client *orthanc.Client,
	jobTracker contracts.JobTracker,
	eventPublisher contracts.JobEventPublisher,
	locker contracts.LockerService,
	auditRepository contracts.AuditRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.JobUsecase {
	onceJobUsecase.Do(func() {
		jobUsecaseInstance = &jobUsecase{
			Client:          client,
			JobTracker:      jobTracker,
			EventPublisher:  eventPublisher,
			Locker:          locker,
			AuditRepository: auditRepository,
			InternalConfig:  internalConfig,
			Log:             logger,
		}
	})
	return jobUsecaseInstance
}

func (uc *jobUsecase) ListJobs(ctx context.Context) ([]string, error) {
	jobs, err := uc.Client.Jobs(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(jobs))
	for _, job := range jobs {
		ids = append(ids, job.ID())
	}
	return ids, nil
}

func (uc *jobUsecase) GetJob(ctx context.Context, jobID string) (*responses.Job, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("jobUsecase.GetJob called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingJobIDKey, jobID),
	)

	info, err := uc.Client.Job(jobID).Info(ctx)
	if err != nil {
		uc.Log.Error("jobUsecase.GetJob error fetching job",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingJobIDKey, jobID),
			zap.Error(err),
		)
		return nil, err
	}

	tracked, err := uc.JobTracker.Get(ctx, jobID)
	if err != nil {
		uc.Log.Warn("jobUsecase.GetJob error reading tracked job",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingJobIDKey, jobID),
			zap.Error(err),
		)
	}

	if tracked != nil && orthanc.JobState(tracked.State) != jobStateOf(info) {
		if _, err := uc.applyState(ctx, tracked, info); err != nil {
			uc.Log.Warn("jobUsecase.GetJob error updating tracked job",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingJobIDKey, jobID),
				zap.Error(err),
			)
		}
	}
	return BuildJobResponse(jobID, info, tracked), nil
}

func (uc *jobUsecase) TransitionJob(ctx context.Context, jobID, action string) (*responses.Job, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("jobUsecase.TransitionJob called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingJobIDKey, jobID),
		zap.String(constvars.LoggingOperationKey, action),
	)

	err := uc.Client.Job(jobID).Transition(ctx, action)
	if err != nil {
		uc.Log.Error("jobUsecase.TransitionJob error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingJobIDKey, jobID),
			zap.Error(err),
		)
		return nil, err
	}
	return uc.GetJob(ctx, jobID)
}

// WaitJob blocks until the job reaches a terminal state or the wait times out.
// A failed job is settled and reported as an error.
func (uc *jobUsecase) WaitJob(ctx context.Context, jobID string, request *requests.WaitJob) (*responses.Job, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if request == nil {
		request = &requests.WaitJob{}
	}
	pollInterval := time.Duration(request.PollIntervalInMilliseconds) * time.Millisecond
	timeout := time.Duration(request.TimeoutInSeconds) * time.Second
	uc.Log.Info("jobUsecase.WaitJob called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingJobIDKey, jobID),
		zap.Duration(constvars.LoggingDurationKey, timeout),
	)

	waitErr := uc.Client.Job(jobID).WaitUntilCompletion(ctx, pollInterval, timeout)

	var failed *exceptions.JobFailedError
	if waitErr != nil && !errors.As(waitErr, &failed) {
		uc.Log.Warn("jobUsecase.WaitJob stopped waiting",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingJobIDKey, jobID),
			zap.Error(waitErr),
		)
		return nil, waitErr
	}

	if _, err := uc.RefreshTrackedJob(ctx, jobID); err != nil {
		uc.Log.Warn("jobUsecase.WaitJob error settling tracked job",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingJobIDKey, jobID),
			zap.Error(err),
		)
	}
	if waitErr != nil {
		return nil, waitErr
	}
	return uc.GetJob(ctx, jobID)
}

func (uc *jobUsecase) TrackedJobIDs(ctx context.Context) ([]string, error) {
	return uc.JobTracker.ListJobIDs(ctx)
}

func (uc *jobUsecase) RefreshTrackedJob(ctx context.Context, jobID string) (bool, error) {
	tracked, err := uc.JobTracker.Get(ctx, jobID)
	if err != nil {
		return false, err
	}
	if tracked == nil {
		// Document expired while the ID was still in the watched set.
		return true, uc.JobTracker.Untrack(ctx, jobID)
	}

	info, err := uc.Client.Job(jobID).Info(ctx)
	if err != nil {
		var notFound *exceptions.ResourceNotFoundError
		if !errors.As(err, &notFound) {
			return false, err
		}
		// Orthanc forgets jobs on restart and once its history is full.
		info = orthanc.Information{
			"State":            string(orthanc.JobStateFailure),
			"ErrorDescription": "job is no longer known by the imaging server",
		}
	}
	return uc.applyState(ctx, tracked, info)
}

// applyState records the server state on the tracked job. Terminal states
// release the resource lock, publish an event, audit the outcome and stop the
// watch. Running jobs get their lock extended.
func (uc *jobUsecase) applyState(ctx context.Context, tracked *models.TrackedJob, info orthanc.Information) (bool, error) {
	state := jobStateOf(info)
	now := time.Now().UTC()
	tracked.State = string(state)
	tracked.UpdatedAt = now

	if !state.Terminal() {
		if tracked.LockKey != "" {
			err := uc.Locker.Refresh(ctx, tracked.LockKey, tracked.LockValue, uc.lockTTL())
			if err != nil {
				uc.Log.Warn("jobUsecase.applyState error refreshing resource lock",
					zap.String(constvars.LoggingJobIDKey, tracked.JobID),
					zap.String(constvars.LoggingRedisKey, tracked.LockKey),
					zap.Error(err),
				)
			}
		}
		return false, uc.JobTracker.Save(ctx, tracked)
	}

	tracked.CompletedAt = &now
	tracked.ErrorCode, _ = info.Int("ErrorCode")
	tracked.ErrorDescription, _ = info.String("ErrorDescription")
	tracked.Content = info.Map("Content")
	err := uc.JobTracker.Save(ctx, tracked)
	if err != nil {
		return false, err
	}

	if tracked.LockKey != "" {
		err = uc.Locker.Unlock(ctx, tracked.LockKey, tracked.LockValue)
		if err != nil {
			uc.Log.Warn("jobUsecase.applyState error releasing resource lock",
				zap.String(constvars.LoggingJobIDKey, tracked.JobID),
				zap.String(constvars.LoggingRedisKey, tracked.LockKey),
				zap.Error(err),
			)
		}
	}

	event := &models.JobEvent{
		ID:               uuid.NewString(),
		JobID:            tracked.JobID,
		Operation:        tracked.Operation,
		Level:            tracked.Level,
		ResourceID:       tracked.ResourceID,
		State:            tracked.State,
		ErrorCode:        tracked.ErrorCode,
		ErrorDescription: tracked.ErrorDescription,
		Content:          tracked.Content,
		OccurredAt:       now,
	}
	err = uc.EventPublisher.PublishJobEvent(ctx, event)
	if err != nil {
		// Keep watching so the event is published on a later refresh.
		return false, err
	}

	outcome := constvars.AuditOutcomeSucceeded
	if state == orthanc.JobStateFailure {
		outcome = constvars.AuditOutcomeFailed
	}
	audit.Record(ctx, uc.AuditRepository, uc.Log, &models.AuditEvent{
		Action:     tracked.Operation,
		Level:      tracked.Level,
		ResourceID: tracked.ResourceID,
		JobID:      tracked.JobID,
		Outcome:    outcome,
		Details: map[string]any{
			"error_code":        tracked.ErrorCode,
			"error_description": tracked.ErrorDescription,
			"content":           tracked.Content,
		},
	})

	uc.Log.Info("jobUsecase.applyState job settled",
		zap.String(constvars.LoggingJobIDKey, tracked.JobID),
		zap.String(constvars.LoggingJobStateKey, tracked.State),
		zap.String(constvars.LoggingOperationKey, tracked.Operation),
	)
	return true, uc.JobTracker.Untrack(ctx, tracked.JobID)
}

func (uc *jobUsecase) lockTTL() time.Duration {
	ttl := time.Duration(uc.InternalConfig.Jobs.ResourceLockTTLInSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	return ttl
}

func jobStateOf(info orthanc.Information) orthanc.JobState {
	state, _ := info.String("State")
	return orthanc.JobState(state)
}
