package resources

import (
	"context"
	"orthanc-service/internal/app/config"
	"orthanc-service/internal/app/contracts"
	"orthanc-service/internal/app/models"
	"orthanc-service/internal/app/services/core/jobs"
	"orthanc-service/internal/app/services/orthanc"
	"orthanc-service/internal/app/services/shared/audit"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/dto/requests"
	"orthanc-service/internal/pkg/dto/responses"
	"orthanc-service/internal/pkg/exceptions"
	"orthanc-service/internal/pkg/orthanc_dto"
	"orthanc-service/internal/pkg/utils"
	"sync"
	"time"

	"go.uber.org/zap"
)

const auditTrailLimit = 100

var (
	resourceUsecaseInstance contracts.ResourceUsecase
	onceResourceUsecase     sync.Once
)

type resourceUsecase struct {
	Client          *orthanc.Client
	JobTracker      contracts.JobTracker
	Locker          contracts.LockerService
	AuditRepository contracts.AuditRepository
	InternalConfig  *config.InternalConfig
	Log             *zap.Logger
}

func NewResourceUsecase(
	client *orthanc.Client,
	jobTracker contracts.JobTracker,
	locker contracts.LockerService,
	auditRepository contracts.AuditRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.ResourceUsecase {
	onceResourceUsecase.Do(func() {
		resourceUsecaseInstance = &resourceUsecase{
			Client:          client,
			JobTracker:      jobTracker,
			Locker:          locker,
			AuditRepository: auditRepository,
			InternalConfig:  internalConfig,
			Log:             logger,
		}
	})
	return resourceUsecaseInstance
}

func (uc *resourceUsecase) ListResources(ctx context.Context, level string) ([]string, error) {
	parsedLevel, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	return uc.Client.ListIDs(ctx, parsedLevel)
}

func (uc *resourceUsecase) FindResources(ctx context.Context, request *requests.FindResources) ([]responses.ResourceReference, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("resourceUsecase.FindResources called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceLevelKey, request.Level),
		zap.Any(constvars.LoggingQueryKey, request.Query),
	)

	if _, err := parseLevel(request.Level); err != nil {
		return nil, err
	}
	found, err := uc.Client.Find(ctx, &orthanc_dto.FindRequest{
		Level:            request.Level,
		Query:            request.Query,
		CaseSensitive:    request.CaseSensitive,
		Limit:            request.Limit,
		Since:            request.Since,
		Labels:           request.Labels,
		LabelsConstraint: request.LabelsConstraint,
	}, false)
	if err != nil {
		uc.Log.Error("resourceUsecase.FindResources error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("resourceUsecase.FindResources succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingFetchedCountKey, len(found)),
	)
	return references(found), nil
}

func (uc *resourceUsecase) GetResource(ctx context.Context, level, resourceID string) (*responses.Resource, error) {
	resource, err := uc.resource(level, resourceID)
	if err != nil {
		return nil, err
	}
	info, err := resource.MainInformation(ctx)
	if err != nil {
		return nil, err
	}

	response := &responses.Resource{
		ID:          resource.ID(),
		Level:       resource.Level().String(),
		Labels:      info.StringList(constvars.OrthancKeyLabels),
		Information: info,
	}
	if stable, ok := info.Bool(constvars.OrthancKeyIsStable); ok {
		response.IsStable = &stable
	}
	if raw, ok := info.String(constvars.OrthancKeyLastUpdate); ok {
		lastUpdate, err := utils.ParseOrthancTimestamp(raw)
		if err != nil {
			uc.Log.Warn("resourceUsecase.GetResource unreadable LastUpdate",
				zap.String(constvars.LoggingResourceIDKey, resourceID),
				zap.Error(err),
			)
		} else {
			response.LastUpdate = &lastUpdate
		}
	}
	return response, nil
}

func (uc *resourceUsecase) ListChildren(ctx context.Context, level, resourceID string) ([]responses.ResourceReference, error) {
	container, err := uc.container(level, resourceID)
	if err != nil {
		return nil, err
	}
	children, err := container.ChildResources(ctx)
	if err != nil {
		return nil, err
	}
	return references(children), nil
}

func (uc *resourceUsecase) ListLabels(ctx context.Context, level, resourceID string) ([]string, error) {
	resource, err := uc.resource(level, resourceID)
	if err != nil {
		return nil, err
	}
	return resource.Labels(ctx)
}

func (uc *resourceUsecase) AddLabel(ctx context.Context, level, resourceID, label string) error {
	return uc.changeLabel(ctx, level, resourceID, label, true)
}

func (uc *resourceUsecase) RemoveLabel(ctx context.Context, level, resourceID, label string) error {
	return uc.changeLabel(ctx, level, resourceID, label, false)
}

func (uc *resourceUsecase) changeLabel(ctx context.Context, level, resourceID, label string, add bool) error {
	resource, err := uc.resource(level, resourceID)
	if err != nil {
		return err
	}
	if add {
		err = resource.AddLabel(ctx, label)
	} else {
		err = resource.RemoveLabel(ctx, label)
	}

	outcome := constvars.AuditOutcomeSucceeded
	if err != nil {
		outcome = constvars.AuditOutcomeFailed
	}
	audit.Record(ctx, uc.AuditRepository, uc.Log, &models.AuditEvent{
		Action:     constvars.AuditActionLabel,
		Level:      resource.Level().String(),
		ResourceID: resourceID,
		Outcome:    outcome,
		Details:    map[string]any{"label": label, "added": add},
	})
	return err
}

func (uc *resourceUsecase) DeleteResource(ctx context.Context, level, resourceID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	resource, err := uc.resource(level, resourceID)
	if err != nil {
		return err
	}

	// A resource with a running job stays until the job is over.
	lockKey := utils.GenerateResourceLockKey(resource.Level().String(), resourceID)
	acquired, lockValue, err := uc.Locker.TryLock(ctx, lockKey, uc.lockTTL())
	if err != nil {
		return err
	}
	if !acquired {
		return exceptions.ErrResourceBusy(nil, lockKey)
	}
	defer func() {
		if err := uc.Locker.Unlock(ctx, lockKey, lockValue); err != nil {
			uc.Log.Warn("resourceUsecase.DeleteResource error releasing lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRedisKey, lockKey),
				zap.Error(err),
			)
		}
	}()

	err = resource.Delete(ctx)
	outcome := constvars.AuditOutcomeSucceeded
	if err != nil {
		outcome = constvars.AuditOutcomeFailed
		uc.Log.Error("resourceUsecase.DeleteResource error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingResourceIDKey, resourceID),
			zap.Error(err),
		)
	}
	audit.Record(ctx, uc.AuditRepository, uc.Log, &models.AuditEvent{
		Action:     constvars.AuditActionDelete,
		Level:      resource.Level().String(),
		ResourceID: resourceID,
		Outcome:    outcome,
	})
	return err
}

func (uc *resourceUsecase) AnonymizeResource(ctx context.Context, level, resourceID string, request *requests.AnonymizeResource) (*responses.Job, error) {
	if request == nil {
		request = &requests.AnonymizeResource{}
	}
	options := &orthanc.AnonymizeOptions{
		Remove:          request.Remove,
		Replace:         request.Replace,
		Keep:            request.Keep,
		Force:           request.Force,
		KeepPrivateTags: request.KeepPrivateTags,
		RemoveSource:    !keepSource(request.KeepSource),
		Priority:        request.Priority,
		Permissive:      request.Permissive,
		DicomVersion:    request.DicomVersion,
	}
	details := map[string]any{
		"remove":      options.Remove,
		"replace":     options.Replace,
		"keep":        options.Keep,
		"keep_source": !options.RemoveSource,
	}
	return uc.submitMutation(ctx, constvars.AuditActionAnonymize, level, resourceID, details,
		func(container orthanc.Container) (*orthanc.Job, error) {
			return container.AnonymizeAsJob(ctx, options)
		})
}

func (uc *resourceUsecase) ModifyResource(ctx context.Context, level, resourceID string, request *requests.ModifyResource) (*responses.Job, error) {
	if request == nil {
		request = &requests.ModifyResource{}
	}
	options := &orthanc.ModifyOptions{
		Replace:           request.Replace,
		Remove:            request.Remove,
		Keep:              request.Keep,
		Force:             request.Force,
		RemovePrivateTags: request.RemovePrivateTags,
		RemoveSource:      !keepSource(request.KeepSource),
		Priority:          request.Priority,
		Permissive:        request.Permissive,
		Transcode:         request.Transcode,
	}
	details := map[string]any{
		"replace":     options.Replace,
		"remove":      options.Remove,
		"keep":        options.Keep,
		"keep_source": !options.RemoveSource,
		"transcode":   options.Transcode,
	}
	return uc.submitMutation(ctx, constvars.AuditActionModify, level, resourceID, details,
		func(container orthanc.Container) (*orthanc.Job, error) {
			return container.ModifyAsJob(ctx, options)
		})
}

// submitMutation holds the resource lock for the lifetime of the job. The
// lock is released by the job watcher once the job settles.
func (uc *resourceUsecase) submitMutation(
	ctx context.Context,
	action, level, resourceID string,
	details map[string]any,
	submit func(orthanc.Container) (*orthanc.Job, error),
) (*responses.Job, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("resourceUsecase.submitMutation called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOperationKey, action),
		zap.String(constvars.LoggingResourceLevelKey, level),
		zap.String(constvars.LoggingResourceIDKey, resourceID),
	)

	container, err := uc.container(level, resourceID)
	if err != nil {
		return nil, err
	}
	levelName := container.Level().String()

	lockKey := utils.GenerateResourceLockKey(levelName, resourceID)
	acquired, lockValue, err := uc.Locker.TryLock(ctx, lockKey, uc.lockTTL())
	if err != nil {
		return nil, err
	}
	if !acquired {
		uc.Log.Warn("resourceUsecase.submitMutation resource busy",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, lockKey),
		)
		return nil, exceptions.ErrResourceBusy(nil, lockKey)
	}

	job, err := submit(container)
	if err != nil {
		uc.Log.Error("resourceUsecase.submitMutation error submitting job",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOperationKey, action),
			zap.String(constvars.LoggingResourceIDKey, resourceID),
			zap.Error(err),
		)
		if unlockErr := uc.Locker.Unlock(ctx, lockKey, lockValue); unlockErr != nil {
			uc.Log.Warn("resourceUsecase.submitMutation error releasing lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRedisKey, lockKey),
				zap.Error(unlockErr),
			)
		}
		audit.Record(ctx, uc.AuditRepository, uc.Log, &models.AuditEvent{
			Action:     action,
			Level:      levelName,
			ResourceID: resourceID,
			Outcome:    constvars.AuditOutcomeFailed,
			Details:    details,
		})
		return nil, err
	}

	tracked := jobs.NewTrackedJob(ctx, job.ID(), action, levelName, resourceID)
	tracked.LockKey = lockKey
	tracked.LockValue = lockValue
	err = uc.JobTracker.Track(ctx, tracked)
	if err != nil {
		// The job runs anyway. Without tracking nobody would release the lock.
		uc.Log.Error("resourceUsecase.submitMutation error tracking job",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingJobIDKey, job.ID()),
			zap.Error(err),
		)
		if unlockErr := uc.Locker.Unlock(ctx, lockKey, lockValue); unlockErr != nil {
			uc.Log.Warn("resourceUsecase.submitMutation error releasing lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRedisKey, lockKey),
				zap.Error(unlockErr),
			)
		}
		tracked = nil
	}

	audit.Record(ctx, uc.AuditRepository, uc.Log, &models.AuditEvent{
		Action:     action,
		Level:      levelName,
		ResourceID: resourceID,
		JobID:      job.ID(),
		Outcome:    constvars.AuditOutcomeSubmitted,
		Details:    details,
	})

	uc.Log.Info("resourceUsecase.submitMutation succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingJobIDKey, job.ID()),
	)
	response := jobs.BuildJobResponse(job.ID(), nil, tracked)
	if tracked == nil {
		response.State = constvars.OrthancJobStatePending
		response.Operation = action
		response.Level = levelName
		response.ResourceID = resourceID
	}
	return response, nil
}

func (uc *resourceUsecase) GetAuditTrail(ctx context.Context, level, resourceID string) ([]responses.AuditEvent, error) {
	parsedLevel, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	events, err := uc.AuditRepository.FindByResource(ctx, parsedLevel.String(), resourceID, auditTrailLimit)
	if err != nil {
		return nil, err
	}

	trail := make([]responses.AuditEvent, 0, len(events))
	for _, event := range events {
		trail = append(trail, responses.AuditEvent{
			ID:        event.ID,
			Action:    event.Action,
			JobID:     event.JobID,
			Subject:   event.Subject,
			Outcome:   event.Outcome,
			Details:   event.Details,
			CreatedAt: event.CreatedAt,
		})
	}
	return trail, nil
}

func (uc *resourceUsecase) resource(level, resourceID string) (orthanc.Resource, error) {
	parsedLevel, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	return uc.Client.Resource(parsedLevel, resourceID, uc.InternalConfig.Orthanc.LockResources)
}

func (uc *resourceUsecase) container(level, resourceID string) (orthanc.Container, error) {
	parsedLevel, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	container, err := uc.Client.Container(parsedLevel, resourceID, uc.InternalConfig.Orthanc.LockResources)
	if err != nil {
		return nil, exceptions.ErrUnsupportedLevel(err, level)
	}
	return container, nil
}

func (uc *resourceUsecase) lockTTL() time.Duration {
	ttl := time.Duration(uc.InternalConfig.Jobs.ResourceLockTTLInSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	return ttl
}

func parseLevel(level string) (orthanc.Level, error) {
	parsedLevel, err := orthanc.ParseLevel(level)
	if err != nil {
		return "", exceptions.ErrUnsupportedLevel(err, level)
	}
	return parsedLevel, nil
}

func keepSource(value *bool) bool {
	if value == nil {
		return true
	}
	return *value
}

func references[R orthanc.Node](nodes []R) []responses.ResourceReference {
	result := make([]responses.ResourceReference, 0, len(nodes))
	for _, node := range nodes {
		result = append(result, responses.ResourceReference{ID: node.ID(), Level: node.Level().String()})
	}
	return result
}
