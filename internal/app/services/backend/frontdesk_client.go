package backend

import (
	"context"
	"fmt"
	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/dto/responses"
	"net/url"

	"go.uber.org/zap"
)

type frontDeskClient struct {
	Transport *Transport
	Log       *zap.Logger
}

func NewFrontDeskClient(transport *Transport, logger *zap.Logger) contracts.FrontDeskClient {
	return &frontDeskClient{
		Transport: transport,
		Log:       logger,
	}
}

func dateQuery(date string) url.Values {
	if date == "" {
		return nil
	}
	return url.Values{constvars.URLQueryParamDate: []string{date}}
}

func (c *frontDeskClient) TodayAppointments(ctx context.Context, date string) ([]responses.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("frontDeskClient.TodayAppointments called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	result := new(responses.BackendList[responses.Appointment])
	err := c.Transport.Do(ctx, Call{
		Method:   constvars.MethodGet,
		Resource: constvars.ResourceFrontDeskAppointments,
		Path:     constvars.ResourceFrontDeskAppointments + "/today",
		Query:    dateQuery(date),
		Out:      result,
	})
	if err != nil {
		return nil, err
	}
	return result.Data, nil
}

func (c *frontDeskClient) CheckIn(ctx context.Context, appointmentID string, request *requests.CheckIn) (*responses.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("frontDeskClient.CheckIn called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	appointment := new(responses.Appointment)
	err := c.Transport.Do(ctx, Call{
		Method:   constvars.MethodPost,
		Resource: constvars.ResourceFrontDeskAppointments,
		Path:     fmt.Sprintf("%s/%s/check-in", constvars.ResourceFrontDeskAppointments, url.PathEscape(appointmentID)),
		Body:     request,
		Out:      appointment,
	})
	if err != nil {
		c.Log.Error("frontDeskClient.CheckIn error calling backend",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return appointment, nil
}

func (c *frontDeskClient) DailyStats(ctx context.Context, date string) (*responses.DailyStats, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("frontDeskClient.DailyStats called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	stats := new(responses.DailyStats)
	err := c.Transport.Do(ctx, Call{
		Method:   constvars.MethodGet,
		Resource: constvars.ResourceFrontDeskStats,
		Path:     constvars.ResourceFrontDeskStats,
		Query:    dateQuery(date),
		Out:      stats,
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
