package backend

import (
	"context"
	"fmt"
	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/dto/responses"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

type expedixClient struct {
	Transport *Transport
	Log       *zap.Logger
}

func NewExpedixClient(transport *Transport, logger *zap.Logger) contracts.ExpedixClient {
	return &expedixClient{
		Transport: transport,
		Log:       logger,
	}
}

func (c *expedixClient) ListPatients(ctx context.Context, request *requests.FindAllPatients) (*responses.BackendList[responses.Patient], error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("expedixClient.ListPatients called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	query := url.Values{}
	if request.Search != "" {
		query.Set(constvars.URLQueryParamSearch, request.Search)
	}
	query.Set(constvars.URLQueryParamPage, strconv.Itoa(request.Page))
	query.Set(constvars.URLQueryParamPageSize, strconv.Itoa(request.PageSize))

	result := new(responses.BackendList[responses.Patient])
	err := c.Transport.Do(ctx, Call{
		Method:   constvars.MethodGet,
		Resource: constvars.ResourceExpedixPatients,
		Path:     constvars.ResourceExpedixPatients,
		Query:    query,
		Out:      result,
	})
	if err != nil {
		c.Log.Error("expedixClient.ListPatients error calling backend",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	c.Log.Info("expedixClient.ListPatients succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingPatientCountKey, len(result.Data)),
	)
	return result, nil
}

func (c *expedixClient) GetPatient(ctx context.Context, patientID string) (*responses.Patient, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("expedixClient.GetPatient called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	patient := new(responses.Patient)
	err := c.Transport.Do(ctx, Call{
		Method:   constvars.MethodGet,
		Resource: constvars.ResourceExpedixPatients,
		Path:     fmt.Sprintf("%s/%s", constvars.ResourceExpedixPatients, url.PathEscape(patientID)),
		Out:      patient,
	})
	if err != nil {
		c.Log.Error("expedixClient.GetPatient error calling backend",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return patient, nil
}

func (c *expedixClient) CreatePatient(ctx context.Context, request *requests.CreatePatient) (*responses.Patient, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("expedixClient.CreatePatient called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	patient := new(responses.Patient)
	err := c.Transport.Do(ctx, Call{
		Method:   constvars.MethodPost,
		Resource: constvars.ResourceExpedixPatients,
		Path:     constvars.ResourceExpedixPatients,
		Body:     request,
		Out:      patient,
	})
	if err != nil {
		c.Log.Error("expedixClient.CreatePatient error calling backend",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	c.Log.Info("expedixClient.CreatePatient succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patient.ID),
	)
	return patient, nil
}

func (c *expedixClient) UpdatePatient(ctx context.Context, patientID string, request *requests.UpdatePatient) (*responses.Patient, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("expedixClient.UpdatePatient called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	patient := new(responses.Patient)
	err := c.Transport.Do(ctx, Call{
		Method:   constvars.MethodPut,
		Resource: constvars.ResourceExpedixPatients,
		Path:     fmt.Sprintf("%s/%s", constvars.ResourceExpedixPatients, url.PathEscape(patientID)),
		Body:     request,
		Out:      patient,
	})
	if err != nil {
		c.Log.Error("expedixClient.UpdatePatient error calling backend",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return patient, nil
}
