package routers

import (
	"mindhub-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachScaleRoutes(router chi.Router, templateController *controllers.TemplateController) {
	router.Get("/", templateController.ListTemplates)
	router.Get("/{template_id}", templateController.GetTemplate)
	router.Delete("/{template_id}/cache", templateController.InvalidateTemplate)
}
