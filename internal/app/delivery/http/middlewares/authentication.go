package middlewares

import (
	"context"
	"net/http"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/exceptions"
	"orthanc-service/internal/pkg/utils"
	"strings"

	"go.uber.org/zap"
)

// Authenticate requires a bearer token issued by the JWT manager and stores
// its subject in the request context.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get(constvars.HeaderAuthorization)
		if !strings.HasPrefix(authHeader, constvars.AuthorizationBearerPrefix) {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, constvars.AuthorizationBearerPrefix))
		if token == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}

		subject, err := m.JWTManager.VerifyToken(r.Context(), token)
		if err != nil {
			m.Log.Warn("Middlewares.Authenticate rejected token",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(r.Context())),
				zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
				zap.Error(err),
			)
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_SUBJECT_KEY, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
