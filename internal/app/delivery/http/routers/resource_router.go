package routers

import (
	"orthanc-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachResourceRoutes(router chi.Router, resourceController *controllers.ResourceController, archiveController *controllers.ArchiveController) {
	router.Post("/find", resourceController.FindResources)

	router.Get("/{level}", resourceController.ListResources)
	router.Get("/{level}/{resource_id}", resourceController.GetResource)
	router.Delete("/{level}/{resource_id}", resourceController.DeleteResource)
	router.Get("/{level}/{resource_id}/children", resourceController.ListChildren)
	router.Get("/{level}/{resource_id}/audit", resourceController.GetAuditTrail)

	router.Get("/{level}/{resource_id}/labels", resourceController.ListLabels)
	router.Put("/{level}/{resource_id}/labels/{label}", resourceController.AddLabel)
	router.Delete("/{level}/{resource_id}/labels/{label}", resourceController.RemoveLabel)

	router.Post("/{level}/{resource_id}/anonymize", resourceController.AnonymizeResource)
	router.Post("/{level}/{resource_id}/modify", resourceController.ModifyResource)
	router.Post("/{level}/{resource_id}/archive", archiveController.ExportArchive)
}
