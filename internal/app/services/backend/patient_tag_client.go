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

type patientTagClient struct {
	Transport *Transport
	Log       *zap.Logger
}

func NewPatientTagClient(transport *Transport, logger *zap.Logger) contracts.PatientTagClient {
	return &patientTagClient{
		Transport: transport,
		Log:       logger,
	}
}

func (c *patientTagClient) ListTags(ctx context.Context, patientID string) ([]responses.PatientTag, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("patientTagClient.ListTags called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	path := fmt.Sprintf(constvars.ResourcePatientTagsFormat, url.PathEscape(patientID))
	result := new(responses.BackendList[responses.PatientTag])
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

func (c *patientTagClient) AssignTag(ctx context.Context, patientID string, request *requests.AssignPatientTag) (*responses.PatientTag, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("patientTagClient.AssignTag called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.String(constvars.LoggingTagIDKey, request.TagID),
	)

	path := fmt.Sprintf(constvars.ResourcePatientTagsFormat, url.PathEscape(patientID))
	tag := new(responses.PatientTag)
	err := c.Transport.Do(ctx, Call{
		Method:   constvars.MethodPost,
		Resource: path,
		Path:     path,
		Body:     request,
		Out:      tag,
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (c *patientTagClient) RemoveTag(ctx context.Context, patientID, tagID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("patientTagClient.RemoveTag called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.String(constvars.LoggingTagIDKey, tagID),
	)

	path := fmt.Sprintf(constvars.ResourcePatientTagsFormat, url.PathEscape(patientID))
	return c.Transport.Do(ctx, Call{
		Method:   constvars.MethodDelete,
		Resource: path,
		Path:     path + "/" + url.PathEscape(tagID),
	})
}
