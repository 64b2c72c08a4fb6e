package middlewares

import (
	"fmt"
	"net/http"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/exceptions"
	"orthanc-service/internal/pkg/utils"
	"strings"

	"go.uber.org/zap"
)

// Authorize checks the authenticated subject against the RBAC policies.
// Paths are matched relative to the versioned API prefix.
func (m *Middlewares) Authorize(next http.Handler) http.Handler {
	apiPrefix := fmt.Sprintf("/%s/%s", m.InternalConfig.App.EndpointPrefix, m.InternalConfig.App.Version)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		subject := utils.GetSubject(ctx)
		path := strings.TrimPrefix(r.URL.Path, apiPrefix)
		if path == "" {
			path = "/"
		}

		ok, err := m.Authorizer.Authorize(ctx, subject, r.Method, path)
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}
		if !ok {
			m.Log.Warn("Middlewares.Authorize denied request",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
				zap.String(constvars.LoggingSubjectKey, subject),
				zap.String(constvars.LoggingMethodKey, r.Method),
				zap.String(constvars.LoggingEndpointKey, path),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrForbidden(subject, r.Method, path))
			return
		}

		next.ServeHTTP(w, r)
	})
}
