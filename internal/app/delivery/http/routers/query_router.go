package routers

import (
	"orthanc-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachModalityRoutes(router chi.Router, queryController *controllers.QueryController) {
	router.Get("/", queryController.ListModalities)
	router.Post("/{modality}/echo", queryController.EchoModality)
	router.Post("/{modality}/query", queryController.CreateQuery)
	router.Post("/{modality}/store", queryController.StoreToModality)
}

func attachQueryRoutes(router chi.Router, queryController *controllers.QueryController) {
	router.Get("/{query_id}/answers", queryController.ListAnswers)
	router.Get("/{query_id}/answers/{answer_index}", queryController.GetAnswer)
	router.Post("/{query_id}/retrieve", queryController.RetrieveAnswers)
}
