package controllers

import (
	"context"
	"net/http"
	"orthanc-service/internal/app/contracts"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/dto/requests"
	"orthanc-service/internal/pkg/exceptions"
	"orthanc-service/internal/pkg/utils"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type QueryController struct {
	Log          *zap.Logger
	QueryUsecase contracts.QueryUsecase
}

var (
	queryControllerInstance *QueryController
	onceQueryController     sync.Once
)

func NewQueryController(logger *zap.Logger, queryUsecase contracts.QueryUsecase) *QueryController {
	onceQueryController.Do(func() {
		queryControllerInstance = &QueryController{
			Log:          logger,
			QueryUsecase: queryUsecase,
		}
	})
	return queryControllerInstance
}

func (ctrl *QueryController) ListModalities(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromContext(ctrl.Log, w, r, "QueryController.ListModalities")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := ctrl.QueryUsecase.ListModalities(ctx)
	if err != nil {
		respondUsecaseError(ctrl.Log, w, "QueryController.ListModalities", requestID, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ModalitiesListedSuccess, result)
}

func (ctrl *QueryController) EchoModality(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromContext(ctrl.Log, w, r, "QueryController.EchoModality")
	if !ok {
		return
	}
	modality := chi.URLParam(r, constvars.URLParamModality)

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	err := ctrl.QueryUsecase.EchoModality(ctx, modality)
	if err != nil {
		respondUsecaseError(ctrl.Log, w, "QueryController.EchoModality", requestID, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ModalityEchoSuccess, nil)
}

func (ctrl *QueryController) CreateQuery(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromContext(ctrl.Log, w, r, "QueryController.CreateQuery")
	if !ok {
		return
	}
	modality := chi.URLParam(r, constvars.URLParamModality)

	request := new(requests.ModalityQuery)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("QueryController.CreateQuery error decoding JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	result, err := ctrl.QueryUsecase.CreateQuery(ctx, modality, request)
	if err != nil {
		respondUsecaseError(ctrl.Log, w, "QueryController.CreateQuery", requestID, err)
		return
	}

	ctrl.Log.Info("QueryController.CreateQuery succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueryIDKey, result.ID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.QueryCreatedSuccess, result)
}

func (ctrl *QueryController) StoreToModality(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromContext(ctrl.Log, w, r, "QueryController.StoreToModality")
	if !ok {
		return
	}
	modality := chi.URLParam(r, constvars.URLParamModality)

	request := new(requests.StoreToModality)
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

	result, err := ctrl.QueryUsecase.StoreToModality(ctx, modality, request)
	if err != nil {
		respondUsecaseError(ctrl.Log, w, "QueryController.StoreToModality", requestID, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusAccepted, constvars.JobSubmittedSuccess, result)
}

func (ctrl *QueryController) ListAnswers(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromContext(ctrl.Log, w, r, "QueryController.ListAnswers")
	if !ok {
		return
	}
	queryID, ok := ctrl.queryID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := ctrl.QueryUsecase.ListAnswers(ctx, queryID)
	if err != nil {
		respondUsecaseError(ctrl.Log, w, "QueryController.ListAnswers", requestID, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.QueryAnswersListedSuccess, result)
}

func (ctrl *QueryController) GetAnswer(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromContext(ctrl.Log, w, r, "QueryController.GetAnswer")
	if !ok {
		return
	}
	queryID, ok := ctrl.queryID(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, constvars.URLParamAnswerIndex))
	if err != nil || index < 0 {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(err, constvars.URLParamAnswerIndex))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := ctrl.QueryUsecase.GetAnswer(ctx, queryID, index)
	if err != nil {
		respondUsecaseError(ctrl.Log, w, "QueryController.GetAnswer", requestID, err)
		return
	}

	ctrl.Log.Info("QueryController.GetAnswer succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueryIDKey, queryID),
		zap.Int(constvars.LoggingAnswerIndexKey, index),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.QueryAnswerFoundSuccess, result)
}

func (ctrl *QueryController) RetrieveAnswers(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromContext(ctrl.Log, w, r, "QueryController.RetrieveAnswers")
	if !ok {
		return
	}
	queryID, ok := ctrl.queryID(w, r)
	if !ok {
		return
	}

	request := new(requests.RetrieveAnswers)
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

	result, err := ctrl.QueryUsecase.RetrieveAnswers(ctx, queryID, request)
	if err != nil {
		respondUsecaseError(ctrl.Log, w, "QueryController.RetrieveAnswers", requestID, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusAccepted, constvars.JobSubmittedSuccess, result)
}

func (ctrl *QueryController) queryID(w http.ResponseWriter, r *http.Request) (string, bool) {
	queryID := chi.URLParam(r, constvars.URLParamQueryID)
	if err := utils.ValidateVar(queryID, "required,orthanc_id"); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(err, constvars.URLParamQueryID))
		return "", false
	}
	return queryID, true
}
