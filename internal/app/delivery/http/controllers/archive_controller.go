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

type ArchiveController struct {
	Log            *zap.Logger
	ArchiveUsecase contracts.ArchiveUsecase
	InternalConfig *config.InternalConfig
}

var (
	archiveControllerInstance *ArchiveController
	onceArchiveController     sync.Once
)

func NewArchiveController(logger *zap.Logger, archiveUsecase contracts.ArchiveUsecase, internalConfig *config.InternalConfig) *ArchiveController {
	onceArchiveController.Do(func() {
		archiveControllerInstance = &ArchiveController{
			Log:            logger,
			ArchiveUsecase: archiveUsecase,
			InternalConfig: internalConfig,
		}
	})
	return archiveControllerInstance
}

func (ctrl *ArchiveController) ExportArchive(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromContext(ctrl.Log, w, r, "ArchiveController.ExportArchive")
	if !ok {
		return
	}

	params := &requests.ResourceParams{
		Level:      chi.URLParam(r, constvars.URLParamLevel),
		ResourceID: chi.URLParam(r, constvars.URLParamResourceID),
	}
	if err := utils.ValidateStruct(params); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	// Large studies take a while to zip on the server side.
	timeout := time.Duration(ctrl.InternalConfig.Orthanc.TimeoutInSeconds)*time.Second + 30*time.Second
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	result, err := ctrl.ArchiveUsecase.ExportArchive(ctx, params.Level, params.ResourceID)
	if err != nil {
		respondUsecaseError(ctrl.Log, w, "ArchiveController.ExportArchive", requestID, err)
		return
	}

	ctrl.Log.Info("ArchiveController.ExportArchive succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingObjectNameKey, result.ObjectName),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.ArchiveExportedSuccess, result)
}
