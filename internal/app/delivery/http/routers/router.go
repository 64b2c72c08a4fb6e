package routers

import (
	"fmt"
	"orthanc-service/internal/app/config"
	"orthanc-service/internal/app/delivery/http/controllers"
	"orthanc-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	resourceController *controllers.ResourceController,
	jobController *controllers.JobController,
	queryController *controllers.QueryController,
	archiveController *controllers.ArchiveController,
) {
	allowedOrigins := internalConfig.App.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	corsOptions := cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))
	router.Use(middlewares.RateLimiter())
	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging)
	router.Use(middlewares.ErrorHandler)
	router.Use(middlewares.BodyLimit)

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Use(middlewares.Authenticate)
			r.Use(middlewares.Authorize)

			r.Route("/jobs", func(r chi.Router) {
				attachJobRoutes(r, jobController)
			})

			r.Route("/modalities", func(r chi.Router) {
				attachModalityRoutes(r, queryController)
			})

			r.Route("/queries", func(r chi.Router) {
				attachQueryRoutes(r, queryController)
			})

			attachResourceRoutes(r, resourceController, archiveController)
		})
	})
}
