package controllers

import (
	"context"
	"net/http"
	"orthanc-service/internal/app/contracts"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/dto/requests"
	"orthanc-service/internal/pkg/exceptions"
	"orthanc-service/internal/pkg/utils"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type ResourceController struct {
	Log             *zap.Logger
	ResourceUsecase contracts.ResourceUsecase
}

var (
	resourceControllerInstance *ResourceController
	onceResourceController     sync.Once
)

func NewResourceController(logger *zap.Logger, resourceUsecase contracts.ResourceUsecase) *ResourceController {
	onceResourceController.Do(func() {
		resourceControllerInstance = &ResourceController{
			Log:             logger,
			ResourceUsecase: resourceUsecase,
		}
	})
	return resourceControllerInstance
}

func (ctrl *ResourceController) ListResources(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromContext(ctrl.Log, w, r, "ResourceController.ListResources")
	if !ok {
		return
	}

	level := chi.URLParam(r, constvars.URLParamLevel)
	if err := utils.ValidateVar(level, "required,dicom_level"); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(err, constvars.URLParamLevel))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := ctrl.ResourceUsecase.ListResources(ctx, level)
	if err != nil {
		respondUsecaseError(ctrl.Log, w, "ResourceController.ListResources", requestID, err)
		return
	}

	ctrl.Log.Info("ResourceController.ListResources succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingFetchedCountKey, len(result)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResourcesListedSuccess, result)
}

func (ctrl *ResourceController) FindResources(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromContext(ctrl.Log, w, r, "ResourceController.FindResources")
	if !ok {
		return
	}

	request := new(requests.FindResources)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("ResourceController.FindResources error decoding JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		ctrl.Log.Error("ResourceController.FindResources validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := ctrl.ResourceUsecase.FindResources(ctx, request)
	if err != nil {
		respondUsecaseError(ctrl.Log, w, "ResourceController.FindResources", requestID, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResourcesListedSuccess, result)
}

func (ctrl *ResourceController) GetResource(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromContext(ctrl.Log, w, r, "ResourceController.GetResource")
	if !ok {
		return
	}
	params, ok := ctrl.resourceParams(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := ctrl.ResourceUsecase.GetResource(ctx, params.Level, params.ResourceID)
	if err != nil {
		respondUsecaseError(ctrl.Log, w, "ResourceController.GetResource", requestID, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResourceFoundSuccess, result)
}

func (ctrl *ResourceController) ListChildren(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromContext(ctrl.Log, w, r, "ResourceController.ListChildren")
	if !ok {
		return
	}
	params, ok := ctrl.resourceParams(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := ctrl.ResourceUsecase.ListChildren(ctx, params.Level, params.ResourceID)
	if err != nil {
		respondUsecaseError(ctrl.Log, w, "ResourceController.ListChildren", requestID, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ChildrenListedSuccess, result)
}

func (ctrl *ResourceController) ListLabels(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromContext(ctrl.Log, w, r, "ResourceController.ListLabels")
	if !ok {
		return
	}
	params, ok := ctrl.resourceParams(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := ctrl.ResourceUsecase.ListLabels(ctx, params.Level, params.ResourceID)
	if err != nil {
		respondUsecaseError(ctrl.Log, w, "ResourceController.ListLabels", requestID, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.LabelsListedSuccess, result)
}

func (ctrl *ResourceController) AddLabel(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromContext(ctrl.Log, w, r, "ResourceController.AddLabel")
	if !ok {
		return
	}
	params, ok := ctrl.labelParams(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err := ctrl.ResourceUsecase.AddLabel(ctx, params.Level, params.ResourceID, params.Label)
	if err != nil {
		respondUsecaseError(ctrl.Log, w, "ResourceController.AddLabel", requestID, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.LabelAddedSuccess, nil)
}

func (ctrl *ResourceController) RemoveLabel(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromContext(ctrl.Log, w, r, "ResourceController.RemoveLabel")
	if !ok {
		return
	}
	params, ok := ctrl.labelParams(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err := ctrl.ResourceUsecase.RemoveLabel(ctx, params.Level, params.ResourceID, params.Label)
	if err != nil {
		respondUsecaseError(ctrl.Log, w, "ResourceController.RemoveLabel", requestID, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.LabelRemovedSuccess, nil)
}

func (ctrl *ResourceController) DeleteResource(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromContext(ctrl.Log, w, r, "ResourceController.DeleteResource")
	if !ok {
		return
	}
	params, ok := ctrl.resourceParams(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	err := ctrl.ResourceUsecase.DeleteResource(ctx, params.Level, params.ResourceID)
	if err != nil {
		respondUsecaseError(ctrl.Log, w, "ResourceController.DeleteResource", requestID, err)
		return
	}

	ctrl.Log.Info("ResourceController.DeleteResource succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceIDKey, params.ResourceID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResourceDeletedSuccess, nil)
}

func (ctrl *ResourceController) AnonymizeResource(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromContext(ctrl.Log, w, r, "ResourceController.AnonymizeResource")
	if !ok {
		return
	}
	params, ok := ctrl.resourceParams(w, r)
	if !ok {
		return
	}

	request := new(requests.AnonymizeResource)
	if err := decodeOptionalBody(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := ctrl.ResourceUsecase.AnonymizeResource(ctx, params.Level, params.ResourceID, request)
	if err != nil {
		respondUsecaseError(ctrl.Log, w, "ResourceController.AnonymizeResource", requestID, err)
		return
	}

	ctrl.Log.Info("ResourceController.AnonymizeResource succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingJobIDKey, result.ID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusAccepted, constvars.JobSubmittedSuccess, result)
}

func (ctrl *ResourceController) ModifyResource(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromContext(ctrl.Log, w, r, "ResourceController.ModifyResource")
	if !ok {
		return
	}
	params, ok := ctrl.resourceParams(w, r)
	if !ok {
		return
	}

	request := new(requests.ModifyResource)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := ctrl.ResourceUsecase.ModifyResource(ctx, params.Level, params.ResourceID, request)
	if err != nil {
		respondUsecaseError(ctrl.Log, w, "ResourceController.ModifyResource", requestID, err)
		return
	}

	ctrl.Log.Info("ResourceController.ModifyResource succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingJobIDKey, result.ID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusAccepted, constvars.JobSubmittedSuccess, result)
}

func (ctrl *ResourceController) GetAuditTrail(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromContext(ctrl.Log, w, r, "ResourceController.GetAuditTrail")
	if !ok {
		return
	}
	params, ok := ctrl.resourceParams(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := ctrl.ResourceUsecase.GetAuditTrail(ctx, params.Level, params.ResourceID)
	if err != nil {
		respondUsecaseError(ctrl.Log, w, "ResourceController.GetAuditTrail", requestID, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.AuditTrailFoundSuccess, result)
}

func (ctrl *ResourceController) resourceParams(w http.ResponseWriter, r *http.Request) (*requests.ResourceParams, bool) {
	params := &requests.ResourceParams{
		Level:      chi.URLParam(r, constvars.URLParamLevel),
		ResourceID: chi.URLParam(r, constvars.URLParamResourceID),
	}
	if err := utils.ValidateStruct(params); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return nil, false
	}
	return params, true
}

func (ctrl *ResourceController) labelParams(w http.ResponseWriter, r *http.Request) (*requests.LabelParams, bool) {
	params := &requests.LabelParams{
		ResourceParams: requests.ResourceParams{
			Level:      chi.URLParam(r, constvars.URLParamLevel),
			ResourceID: chi.URLParam(r, constvars.URLParamResourceID),
		},
		Label: chi.URLParam(r, constvars.URLParamLabel),
	}
	if err := utils.ValidateStruct(params); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return nil, false
	}
	return params, true
}
