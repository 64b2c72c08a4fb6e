package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"orthanc-service/internal/pkg/dto/responses"
	"orthanc-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildErrorResponse(t *testing.T) {
	t.Run("Orthanc Not Found Maps To 404", func(t *testing.T) {
		recorder := httptest.NewRecorder()

		BuildErrorResponse(zap.NewNop(), recorder, &exceptions.ResourceNotFoundError{Level: "studies", ID: "abc"})

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		var body exceptions.CustomError
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.NotEmpty(t, body.ClientMessage)
	})

	t.Run("Dev Message Hidden In Production", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		recorder := httptest.NewRecorder()

		BuildErrorResponse(zap.NewNop(), recorder, exceptions.ErrServerProcess(errors.New("secret detail")))

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.NotContains(t, recorder.Body.String(), "secret detail")
	})
}

func TestBuildSuccessResponse(t *testing.T) {
	recorder := httptest.NewRecorder()

	BuildSuccessResponse(recorder, http.StatusOK, "ok", map[string]string{"ID": "abc"})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
	var body responses.ResponseDTO
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "ok", body.Message)
}
