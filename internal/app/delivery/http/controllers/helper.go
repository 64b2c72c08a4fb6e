package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/exceptions"
	"orthanc-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// requestIDFromContext writes the error response itself when the ID is missing.
func requestIDFromContext(log *zap.Logger, w http.ResponseWriter, r *http.Request, handler string) (string, bool) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		log.Error(handler + " requestID not found in context")
		utils.BuildErrorResponse(log, w, exceptions.ErrMissingRequestID(nil))
		return "", false
	}
	log.Info(handler+" called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEndpointKey, r.URL.Path),
	)
	return requestID, true
}

// decodeOptionalBody leaves dst untouched when the body is empty.
func decodeOptionalBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func respondUsecaseError(log *zap.Logger, w http.ResponseWriter, handler, requestID string, err error) {
	log.Error(handler+" error from usecase",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Error(err),
	)
	if errors.Is(err, context.DeadlineExceeded) {
		utils.BuildErrorResponse(log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	utils.BuildErrorResponse(log, w, err)
}
