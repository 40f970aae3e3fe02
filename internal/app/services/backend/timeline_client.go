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

type timelineClient struct {
	Transport *Transport
	Log       *zap.Logger
}

func NewTimelineClient(transport *Transport, logger *zap.Logger) contracts.TimelineClient {
	return &timelineClient{
		Transport: transport,
		Log:       logger,
	}
}

func (c *timelineClient) ListEvents(ctx context.Context, patientID string) ([]responses.TimelineEvent, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("timelineClient.ListEvents called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	path := fmt.Sprintf(constvars.ResourcePatientTimelineFormat, url.PathEscape(patientID))
	result := new(responses.BackendList[responses.TimelineEvent])
	err := c.Transport.Do(ctx, Call{
		Method:   constvars.MethodGet,
		Resource: path,
		Path:     path,
		Out:      result,
	})
	if err != nil {
		return nil, err
	}
	return result.Data, nil
}

func (c *timelineClient) AddEvent(ctx context.Context, patientID string, request *requests.CreateTimelineEvent) (*responses.TimelineEvent, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("timelineClient.AddEvent called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	path := fmt.Sprintf(constvars.ResourcePatientTimelineFormat, url.PathEscape(patientID))
	event := new(responses.TimelineEvent)
	err := c.Transport.Do(ctx, Call{
		Method:   constvars.MethodPost,
		Resource: path,
		Path:     path,
		Body:     request,
		Out:      event,
	})
	if err != nil {
		c.Log.Error("timelineClient.AddEvent error calling backend",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return event, nil
}
