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

type formXClient struct {
	Transport *Transport
	Log       *zap.Logger
}

func NewFormXClient(transport *Transport, logger *zap.Logger) contracts.FormXClient {
	return &formXClient{
		Transport: transport,
		Log:       logger,
	}
}

func (c *formXClient) ListTemplates(ctx context.Context) ([]responses.FormTemplate, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("formXClient.ListTemplates called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	result := new(responses.BackendList[responses.FormTemplate])
	err := c.Transport.Do(ctx, Call{
		Method:   constvars.MethodGet,
		Resource: constvars.ResourceFormXTemplates,
		Path:     constvars.ResourceFormXTemplates,
		Out:      result,
	})
	if err != nil {
		c.Log.Error("formXClient.ListTemplates error calling backend",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return result.Data, nil
}

func (c *formXClient) GetTemplate(ctx context.Context, templateID string) (*responses.FormTemplate, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("formXClient.GetTemplate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTemplateIDKey, templateID),
	)

	template := new(responses.FormTemplate)
	err := c.Transport.Do(ctx, Call{
		Method:   constvars.MethodGet,
		Resource: constvars.ResourceFormXTemplates,
		Path:     fmt.Sprintf("%s/%s", constvars.ResourceFormXTemplates, url.PathEscape(templateID)),
		Out:      template,
	})
	if err != nil {
		c.Log.Error("formXClient.GetTemplate error calling backend",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return template, nil
}

func (c *formXClient) CreateTemplate(ctx context.Context, request *requests.FormXTemplate) (*responses.FormTemplate, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("formXClient.CreateTemplate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	template := new(responses.FormTemplate)
	err := c.Transport.Do(ctx, Call{
		Method:   constvars.MethodPost,
		Resource: constvars.ResourceFormXTemplates,
		Path:     constvars.ResourceFormXTemplates,
		Body:     request,
		Out:      template,
	})
	if err != nil {
		c.Log.Error("formXClient.CreateTemplate error calling backend",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	c.Log.Info("formXClient.CreateTemplate succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTemplateIDKey, template.ID),
	)
	return template, nil
}

func (c *formXClient) UpdateTemplate(ctx context.Context, templateID string, request *requests.FormXTemplate) (*responses.FormTemplate, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("formXClient.UpdateTemplate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTemplateIDKey, templateID),
	)

	template := new(responses.FormTemplate)
	err := c.Transport.Do(ctx, Call{
		Method:   constvars.MethodPut,
		Resource: constvars.ResourceFormXTemplates,
		Path:     fmt.Sprintf("%s/%s", constvars.ResourceFormXTemplates, url.PathEscape(templateID)),
		Body:     request,
		Out:      template,
	})
	if err != nil {
		c.Log.Error("formXClient.UpdateTemplate error calling backend",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return template, nil
}

func (c *formXClient) CreateSubmission(ctx context.Context, request *requests.FormXSubmission) (*responses.FormSubmission, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("formXClient.CreateSubmission called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTemplateIDKey, request.TemplateID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
	)

	submission := new(responses.FormSubmission)
	err := c.Transport.Do(ctx, Call{
		Method:   constvars.MethodPost,
		Resource: constvars.ResourceFormXSubmissions,
		Path:     constvars.ResourceFormXSubmissions,
		Body:     request,
		Out:      submission,
	})
	if err != nil {
		c.Log.Error("formXClient.CreateSubmission error calling backend",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return submission, nil
}

func (c *formXClient) ListSubmissions(ctx context.Context, templateID string) ([]responses.FormSubmission, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("formXClient.ListSubmissions called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTemplateIDKey, templateID),
	)

	result := new(responses.BackendList[responses.FormSubmission])
	err := c.Transport.Do(ctx, Call{
		Method:   constvars.MethodGet,
		Resource: constvars.ResourceFormXSubmissions,
		Path:     constvars.ResourceFormXSubmissions,
		Query:    url.Values{"template_id": []string{templateID}},
		Out:      result,
	})
	if err != nil {
		c.Log.Error("formXClient.ListSubmissions error calling backend",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	c.Log.Info("formXClient.ListSubmissions succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingSubmissionCountKey, len(result.Data)),
	)
	return result.Data, nil
}
