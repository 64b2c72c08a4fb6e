package queries

import (
	"context"
	"orthanc-service/internal/app/contracts"
	"orthanc-service/internal/app/models"
	"orthanc-service/internal/app/services/core/jobs"
	"orthanc-service/internal/app/services/orthanc"
	"orthanc-service/internal/app/services/shared/audit"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/dto/requests"
	"orthanc-service/internal/pkg/dto/responses"
	"orthanc-service/internal/pkg/exceptions"
	"orthanc-service/internal/pkg/utils"
	"slices"
	"sync"

	"go.uber.org/zap"
)

var (
	queryUsecaseInstance contracts.QueryUsecase
	onceQueryUsecase     sync.Once
)

type queryUsecase struct {
	Client          *orthanc.Client
	JobTracker      contracts.JobTracker
	Limiter         contracts.ModalityLimiter
	AuditRepository contracts.AuditRepository
	Log             *zap.Logger
}

func NewQueryUsecase(
	client *orthanc.Client,
	jobTracker contracts.JobTracker,
	limiter contracts.ModalityLimiter,
	auditRepository contracts.AuditRepository,
	logger *zap.Logger,
) contracts.QueryUsecase {
	onceQueryUsecase.Do(func() {
		queryUsecaseInstance = &queryUsecase{
			Client:          client,
			JobTracker:      jobTracker,
			Limiter:         limiter,
			AuditRepository: auditRepository,
			Log:             logger,
		}
	})
	return queryUsecaseInstance
}

func (uc *queryUsecase) ListModalities(ctx context.Context) ([]string, error) {
	return uc.Client.Modalities(ctx)
}

func (uc *queryUsecase) EchoModality(ctx context.Context, modality string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("queryUsecase.EchoModality called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingModalityKey, modality),
	)

	if err := uc.Limiter.Allow(ctx, modality); err != nil {
		return err
	}

	err := uc.Client.Modality(modality).Echo(ctx)
	if err != nil {
		uc.Log.Error("queryUsecase.EchoModality error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingModalityKey, modality),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (uc *queryUsecase) CreateQuery(ctx context.Context, modality string, request *requests.ModalityQuery) (*responses.Query, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("queryUsecase.CreateQuery called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingModalityKey, modality),
		zap.String(constvars.LoggingResourceLevelKey, request.Level),
		zap.Any(constvars.LoggingQueryKey, request.Query),
	)

	level, err := orthanc.ParseLevel(request.Level)
	if err != nil {
		return nil, exceptions.ErrUnsupportedLevel(err, request.Level)
	}
	if err := uc.Limiter.Allow(ctx, modality); err != nil {
		return nil, err
	}
	query, err := uc.Client.Modality(modality).Query(ctx, level, request.Query)
	if err != nil {
		uc.Log.Error("queryUsecase.CreateQuery error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingModalityKey, modality),
			zap.Error(err),
		)
		return nil, err
	}

	indices, err := query.AnswerIndices(ctx)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("queryUsecase.CreateQuery succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueryIDKey, query.ID()),
		zap.Int(constvars.LoggingFetchedCountKey, len(indices)),
	)
	return &responses.Query{
		ID:       query.ID(),
		Modality: modality,
		Level:    level.String(),
		Answers:  len(indices),
	}, nil
}

func (uc *queryUsecase) StoreToModality(ctx context.Context, modality string, request *requests.StoreToModality) (*responses.Job, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("queryUsecase.StoreToModality called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingModalityKey, modality),
		zap.Strings(constvars.LoggingResourceIDKey, request.Resources),
	)

	if err := uc.Limiter.Allow(ctx, modality); err != nil {
		return nil, err
	}

	details := map[string]any{"modality": modality, "resources": request.Resources}
	job, err := uc.Client.Modality(modality).StoreAsJob(ctx, request.Resources)
	if err != nil {
		uc.Log.Error("queryUsecase.StoreToModality error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingModalityKey, modality),
			zap.Error(err),
		)
		audit.Record(ctx, uc.AuditRepository, uc.Log, &models.AuditEvent{
			Action:  constvars.AuditActionStore,
			Outcome: constvars.AuditOutcomeFailed,
			Details: details,
		})
		return nil, err
	}
	return uc.track(ctx, job, constvars.AuditActionStore, modality, details), nil
}

func (uc *queryUsecase) ListAnswers(ctx context.Context, queryID string) ([]responses.QueryAnswer, error) {
	query := uc.Client.Query(queryID)
	indices, err := query.AnswerIndices(ctx)
	if err != nil {
		return nil, err
	}

	answers := make([]responses.QueryAnswer, 0, len(indices))
	for _, index := range indices {
		answer, err := query.Answer(ctx, index)
		if err != nil {
			return nil, err
		}
		answers = append(answers, responses.QueryAnswer{Index: index, Fields: answer})
	}
	return answers, nil
}

func (uc *queryUsecase) GetAnswer(ctx context.Context, queryID string, index int) (*responses.QueryAnswer, error) {
	query := uc.Client.Query(queryID)
	indices, err := query.AnswerIndices(ctx)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(indices, index) {
		return nil, exceptions.ErrAnswerIndexOutOfBounds(nil, index)
	}

	answer, err := query.Answer(ctx, index)
	if err != nil {
		return nil, err
	}
	return &responses.QueryAnswer{Index: index, Fields: answer}, nil
}

// RetrieveAnswers moves one answer, or all of them when no index is given,
// with a C-MOVE job.
func (uc *queryUsecase) RetrieveAnswers(ctx context.Context, queryID string, request *requests.RetrieveAnswers) (*responses.Job, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if request == nil {
		request = &requests.RetrieveAnswers{}
	}
	uc.Log.Info("queryUsecase.RetrieveAnswers called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueryIDKey, queryID),
	)

	query := uc.Client.Query(queryID)
	details := map[string]any{"query_id": queryID, "target_aet": request.TargetAet}

	var (
		job *orthanc.Job
		err error
	)
	if request.AnswerIndex != nil {
		index := *request.AnswerIndex
		details["answer_index"] = index
		indices, err := query.AnswerIndices(ctx)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(indices, index) {
			return nil, exceptions.ErrAnswerIndexOutOfBounds(nil, index)
		}
		job, err = query.RetrieveAsJob(ctx, index, request.TargetAet)
		if err != nil {
			return nil, uc.retrieveFailed(ctx, err, details)
		}
	} else {
		job, err = query.RetrieveAllAsJob(ctx, request.TargetAet)
		if err != nil {
			return nil, uc.retrieveFailed(ctx, err, details)
		}
	}
	return uc.track(ctx, job, constvars.AuditActionRetrieve, queryID, details), nil
}

func (uc *queryUsecase) retrieveFailed(ctx context.Context, err error, details map[string]any) error {
	uc.Log.Error("queryUsecase.RetrieveAnswers error",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.Error(err),
	)
	audit.Record(ctx, uc.AuditRepository, uc.Log, &models.AuditEvent{
		Action:  constvars.AuditActionRetrieve,
		Outcome: constvars.AuditOutcomeFailed,
		Details: details,
	})
	return err
}

// track registers a submitted job with the watcher and audits the submission.
// subjectID is the modality or query the job works on.
func (uc *queryUsecase) track(ctx context.Context, job *orthanc.Job, action, subjectID string, details map[string]any) *responses.Job {
	tracked := jobs.NewTrackedJob(ctx, job.ID(), action, "", subjectID)
	err := uc.JobTracker.Track(ctx, tracked)
	if err != nil {
		uc.Log.Error("queryUsecase.track error tracking job",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingJobIDKey, job.ID()),
			zap.Error(err),
		)
		tracked = nil
	}

	audit.Record(ctx, uc.AuditRepository, uc.Log, &models.AuditEvent{
		Action:     action,
		ResourceID: subjectID,
		JobID:      job.ID(),
		Outcome:    constvars.AuditOutcomeSubmitted,
		Details:    details,
	})

	response := jobs.BuildJobResponse(job.ID(), nil, tracked)
	if tracked == nil {
		response.State = constvars.OrthancJobStatePending
		response.Operation = action
		response.ResourceID = subjectID
	}
	return response
}
