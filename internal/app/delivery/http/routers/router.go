package routers

import (
	"fmt"
	"mindhub-service/internal/app/config"
	"mindhub-service/internal/app/delivery/http/controllers"
	"mindhub-service/internal/app/delivery/http/middlewares"
	"mindhub-service/internal/pkg/constvars"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	financeLimiter *middlewares.RateLimiter,
	templateController *controllers.TemplateController,
	assessmentController *controllers.AssessmentController,
	formController *controllers.FormController,
	patientController *controllers.PatientController,
	frontDeskController *controllers.FrontDeskController,
	opsController *controllers.OpsController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   internalConfig.App.FrontendDomains,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", constvars.HeaderXRequestID, constvars.HeaderXAPIKey},
		ExposedHeaders:   []string{"Link", constvars.HeaderXRequestID, constvars.HeaderRetryAfter},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	// Rate limiting middleware using httprate
	rateLimiter := httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second)
	router.Use(rateLimiter)

	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging)
	router.Use(middlewares.ErrorHandler)
	router.Use(middlewares.RequestTimeout)
	router.Use(middlewares.BodyLimit)

	router.Get("/health", opsController.Liveness)

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/ops", func(r chi.Router) {
				attachOpsRoutes(r, middlewares, opsController)
			})

			r.Group(func(r chi.Router) {
				r.Use(middlewares.Authenticate)
				r.Use(middlewares.Authorize)

				r.Route("/scales", func(r chi.Router) {
					attachScaleRoutes(r, templateController)
				})

				r.Route("/assessments", func(r chi.Router) {
					attachAssessmentRoutes(r, assessmentController)
				})

				r.Route("/forms", func(r chi.Router) {
					attachFormRoutes(r, formController)
				})

				r.Route("/patients", func(r chi.Router) {
					attachPatientRoutes(r, patientController)
				})

				r.Route("/frontdesk", func(r chi.Router) {
					attachFrontDeskRoutes(r, frontDeskController)
				})

				financeMount := endpointPrefix + versionPrefix + "/finance"
				r.Route("/finance", func(r chi.Router) {
					attachFinanceRoutes(r, middlewares, financeLimiter, financeMount, internalConfig.Backend.FinanceBaseUrl)
				})
			})
		})
	})
}
