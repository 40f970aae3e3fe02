package frontdesk

import (
	"context"
	"mindhub-service/internal/app/config"
	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/dto/responses"
	"mindhub-service/internal/pkg/exceptions"
	"mindhub-service/internal/pkg/utils"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const dateLayout = "2006-01-02"

var (
	frontDeskUsecaseInstance contracts.FrontDeskUsecase
	onceFrontDeskUsecase     sync.Once
)

type frontDeskUsecase struct {
	FrontDeskClient contracts.FrontDeskClient
	InternalConfig  *config.InternalConfig
	Log             *zap.Logger
	now             func() time.Time
}

func NewFrontDeskUsecase(
	frontDeskClient contracts.FrontDeskClient,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.FrontDeskUsecase {
	onceFrontDeskUsecase.Do(func() {
		frontDeskUsecaseInstance = &frontDeskUsecase{
			FrontDeskClient: frontDeskClient,
			InternalConfig:  internalConfig,
			Log:             logger,
			now:             time.Now,
		}
	})
	return frontDeskUsecaseInstance
}

func (uc *frontDeskUsecase) TodayAppointments(ctx context.Context, date string) ([]responses.Appointment, error) {
	requestID := utils.GetRequestID(ctx)
	day, err := uc.resolveDate(date)
	if err != nil {
		return nil, err
	}
	uc.Log.Info("frontDeskUsecase.TodayAppointments called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("date", day),
	)

	appointments, err := uc.FrontDeskClient.TodayAppointments(ctx, day)
	if err != nil {
		uc.Log.Error("frontDeskUsecase.TodayAppointments error fetching appointments",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return sortAppointments(appointments), nil
}

func (uc *frontDeskUsecase) CheckIn(ctx context.Context, appointmentID string, request *requests.CheckIn) (*responses.Appointment, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("frontDeskUsecase.CheckIn called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	appointment, err := uc.FrontDeskClient.CheckIn(ctx, appointmentID, request)
	if err != nil {
		uc.Log.Error("frontDeskUsecase.CheckIn error checking in",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("frontDeskUsecase.CheckIn succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)
	return appointment, nil
}

func (uc *frontDeskUsecase) DailyStats(ctx context.Context, date string) (*responses.DailyStats, error) {
	day, err := uc.resolveDate(date)
	if err != nil {
		return nil, err
	}
	stats, err := uc.FrontDeskClient.DailyStats(ctx, day)
	if err != nil {
		return nil, err
	}
	if stats.Date == "" {
		stats.Date = day
	}
	return stats, nil
}

// Dashboard fetches the appointment list and the counters concurrently.
// Either failure fails the whole dashboard.
func (uc *frontDeskUsecase) Dashboard(ctx context.Context, date string) (*responses.FrontDeskDashboard, error) {
	requestID := utils.GetRequestID(ctx)
	day, err := uc.resolveDate(date)
	if err != nil {
		return nil, err
	}
	uc.Log.Info("frontDeskUsecase.Dashboard called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("date", day),
	)

	var (
		appointments []responses.Appointment
		stats        *responses.DailyStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		appointments, err = uc.FrontDeskClient.TodayAppointments(gctx, day)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = uc.FrontDeskClient.DailyStats(gctx, day)
		return err
	})
	if err := g.Wait(); err != nil {
		uc.Log.Error("frontDeskUsecase.Dashboard error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	dashboard := &responses.FrontDeskDashboard{
		Appointments: sortAppointments(appointments),
	}
	if stats != nil {
		dashboard.Stats = *stats
	}
	if dashboard.Stats.Date == "" {
		dashboard.Stats.Date = day
	}

	uc.Log.Info("frontDeskUsecase.Dashboard succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("appointment_count", len(dashboard.Appointments)),
	)
	return dashboard, nil
}

// resolveDate defaults to today in the clinic's timezone.
func (uc *frontDeskUsecase) resolveDate(date string) (string, error) {
	if date != "" {
		if _, err := time.Parse(dateLayout, date); err != nil {
			return "", exceptions.ErrURLParamValidation(err, constvars.URLQueryParamDate)
		}
		return date, nil
	}

	now := uc.now()
	if uc.InternalConfig != nil && uc.InternalConfig.App.Timezone != "" {
		if loc, err := time.LoadLocation(uc.InternalConfig.App.Timezone); err == nil {
			now = now.In(loc)
		}
	}
	return now.Format(dateLayout), nil
}

func sortAppointments(appointments []responses.Appointment) []responses.Appointment {
	if appointments == nil {
		return []responses.Appointment{}
	}
	sort.SliceStable(appointments, func(i, j int) bool {
		return appointments[i].StartTime < appointments[j].StartTime
	})
	return appointments
}
