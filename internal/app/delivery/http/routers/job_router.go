package routers

import (
	"orthanc-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachJobRoutes(router chi.Router, jobController *controllers.JobController) {
	router.Get("/", jobController.ListJobs)
	router.Get("/{job_id}", jobController.GetJob)
	router.Post("/{job_id}/wait", jobController.WaitJob)
	router.Post("/{job_id}/{action}", jobController.TransitionJob)
}
