package routers

import (
	"mindhub-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachPatientRoutes(router chi.Router, patientController *controllers.PatientController) {
	router.Get("/", patientController.FindAll)
	router.Post("/", patientController.Create)
	router.Get("/{patient_id}", patientController.FindByID)
	router.Put("/{patient_id}", patientController.Update)

	router.Get("/{patient_id}/tags", patientController.ListTags)
	router.Post("/{patient_id}/tags", patientController.AssignTag)
	router.Delete("/{patient_id}/tags/{tag_id}", patientController.RemoveTag)

	router.Get("/{patient_id}/timeline", patientController.ListTimeline)
	router.Post("/{patient_id}/timeline", patientController.AddTimelineEvent)
}
