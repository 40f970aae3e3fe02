package routers

import (
	"mindhub-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachAssessmentRoutes(router chi.Router, assessmentController *controllers.AssessmentController) {
	router.Get("/", assessmentController.FindAll)
	router.Post("/", assessmentController.StartAssessment)

	router.Route("/{assessment_id}", func(r chi.Router) {
		r.Get("/", assessmentController.GetAssessment)
		r.Post("/answer", assessmentController.AnswerItem)
		r.Post("/next", assessmentController.Next)
		r.Post("/previous", assessmentController.Previous)
		r.Post("/jump", assessmentController.JumpTo)
		r.Post("/save", assessmentController.SaveAssessment)
		r.Post("/autosave", assessmentController.AutoSaveAssessment)
		r.Post("/complete", assessmentController.CompleteAssessment)
		r.Post("/abandon", assessmentController.AbandonAssessment)
		r.Get("/report", assessmentController.GetReport)
	})
}
