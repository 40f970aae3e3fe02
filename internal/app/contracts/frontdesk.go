package contracts

import (
	"context"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/dto/responses"
)

type FrontDeskUsecase interface {
	TodayAppointments(ctx context.Context, date string) ([]responses.Appointment, error)
	CheckIn(ctx context.Context, appointmentID string, request *requests.CheckIn) (*responses.Appointment, error)
	DailyStats(ctx context.Context, date string) (*responses.DailyStats, error)
	Dashboard(ctx context.Context, date string) (*responses.FrontDeskDashboard, error)
}
