package routers

import (
	"mindhub-service/internal/app/delivery/http/controllers"
	"mindhub-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachOpsRoutes(router chi.Router, middlewares *middlewares.Middlewares, opsController *controllers.OpsController) {
	router.Use(middlewares.RequireOpsAPIKey)
	router.Get("/health", opsController.Readiness)
	router.Post("/autosave/flush", opsController.FlushAutosave)
	router.Post("/submissions/drain", opsController.DrainSubmissions)
}
