package routers

import (
	"mindhub-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachFrontDeskRoutes(router chi.Router, frontDeskController *controllers.FrontDeskController) {
	router.Get("/appointments/today", frontDeskController.TodayAppointments)
	router.Post("/appointments/{appointment_id}/check-in", frontDeskController.CheckIn)
	router.Get("/stats", frontDeskController.DailyStats)
	router.Get("/dashboard", frontDeskController.Dashboard)
}
