package routers

import (
	"mindhub-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachFormRoutes(router chi.Router, formController *controllers.FormController) {
	router.Route("/drafts", func(r chi.Router) {
		r.Post("/", formController.CreateDraft)
		r.Get("/{draft_id}", formController.GetDraft)
		r.Put("/{draft_id}", formController.UpdateDraft)
		r.Delete("/{draft_id}", formController.DeleteDraft)
		r.Post("/{draft_id}/fields", formController.AddField)
		r.Post("/{draft_id}/fields/move", formController.MoveField)
		r.Put("/{draft_id}/fields/{field_id}", formController.UpdateField)
		r.Delete("/{draft_id}/fields/{field_id}", formController.RemoveField)
		r.Post("/{draft_id}/publish", formController.PublishDraft)
	})

	router.Route("/templates", func(r chi.Router) {
		r.Get("/", formController.ListTemplates)
		r.Get("/{template_id}", formController.GetTemplate)
		r.Post("/{template_id}/attachments", formController.UploadAttachment)
		r.Get("/{template_id}/submissions", formController.ListSubmissions)
		r.Post("/{template_id}/submissions", formController.SubmitForm)
	})
}
