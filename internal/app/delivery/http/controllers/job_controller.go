package controllers

import (
	"context"
	"net/http"
	"orthanc-service/internal/app/config"
	"orthanc-service/internal/app/contracts"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/dto/requests"
	"orthanc-service/internal/pkg/exceptions"
	"orthanc-service/internal/pkg/utils"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type JobController struct {
	Log            *zap.Logger
	JobUsecase     contracts.JobUsecase
	InternalConfig *config.InternalConfig
}

var (
	jobControllerInstance *JobController
	onceJobController     sync.Once
)

func NewJobController(logger *zap.Logger, jobUsecase contracts.JobUsecase, internalConfig *config.InternalConfig) *JobController {
	onceJobController.Do(func() {
		jobControllerInstance = &JobController{
			Log:            logger,
			JobUsecase:     jobUsecase,
			InternalConfig: internalConfig,
		}
	})
	return jobControllerInstance
}

func (ctrl *JobController) ListJobs(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromContext(ctrl.Log, w, r, "JobController.ListJobs")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := ctrl.JobUsecase.ListJobs(ctx)
	if err != nil {
		respondUsecaseError(ctrl.Log, w, "JobController.ListJobs", requestID, err)
		return
	}

	ctrl.Log.Info("JobController.ListJobs succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingJobCountKey, len(result)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.JobsListedSuccess, result)
}

func (ctrl *JobController) GetJob(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromContext(ctrl.Log, w, r, "JobController.GetJob")
	if !ok {
		return
	}
	jobID, ok := ctrl.jobID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := ctrl.JobUsecase.GetJob(ctx, jobID)
	if err != nil {
		respondUsecaseError(ctrl.Log, w, "JobController.GetJob", requestID, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.JobFoundSuccess, result)
}

func (ctrl *JobController) TransitionJob(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromContext(ctrl.Log, w, r, "JobController.TransitionJob")
	if !ok {
		return
	}

	params := &requests.JobTransition{
		JobID:  chi.URLParam(r, constvars.URLParamJobID),
		Action: chi.URLParam(r, constvars.URLParamJobAction),
	}
	if err := utils.ValidateStruct(params); err != nil {
		ctrl.Log.Error("JobController.TransitionJob validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := ctrl.JobUsecase.TransitionJob(ctx, params.JobID, params.Action)
	if err != nil {
		respondUsecaseError(ctrl.Log, w, "JobController.TransitionJob", requestID, err)
		return
	}

	ctrl.Log.Info("JobController.TransitionJob succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingJobIDKey, params.JobID),
		zap.String(constvars.LoggingJobStateKey, result.State),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.JobTransitionSuccess, result)
}

func (ctrl *JobController) WaitJob(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromContext(ctrl.Log, w, r, "JobController.WaitJob")
	if !ok {
		return
	}
	jobID, ok := ctrl.jobID(w, r)
	if !ok {
		return
	}

	request := new(requests.WaitJob)
	if err := decodeOptionalBody(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	waitTimeout := request.TimeoutInSeconds
	if waitTimeout <= 0 {
		waitTimeout = ctrl.InternalConfig.Jobs.WaitTimeoutInSeconds
	}
	// The job wait reports its own timeout, the context only guards against a hung server.
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(waitTimeout)*time.Second+10*time.Second)
	defer cancel()

	result, err := ctrl.JobUsecase.WaitJob(ctx, jobID, request)
	if err != nil {
		respondUsecaseError(ctrl.Log, w, "JobController.WaitJob", requestID, err)
		return
	}

	ctrl.Log.Info("JobController.WaitJob succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingJobIDKey, jobID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.JobCompletedSuccess, result)
}

func (ctrl *JobController) jobID(w http.ResponseWriter, r *http.Request) (string, bool) {
	jobID := chi.URLParam(r, constvars.URLParamJobID)
	if err := utils.ValidateVar(jobID, "required,orthanc_id"); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(err, constvars.URLParamJobID))
		return "", false
	}
	return jobID, true
}
