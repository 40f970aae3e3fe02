package backend

import (
	"context"
	"fmt"
	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/pkg/clinimetrix"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/dto/responses"
	"net/url"

	"go.uber.org/zap"
)

type clinimetrixClient struct {
	Transport *Transport
	Log       *zap.Logger
}

func NewClinimetrixClient(transport *Transport, logger *zap.Logger) contracts.ClinimetrixClient {
	return &clinimetrixClient{
		Transport: transport,
		Log:       logger,
	}
}

func (c *clinimetrixClient) ListTemplates(ctx context.Context) ([]clinimetrix.TemplateSummary, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("clinimetrixClient.ListTemplates called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	result := new(responses.BackendList[clinimetrix.TemplateSummary])
	err := c.Transport.Do(ctx, Call{
		Method:   constvars.MethodGet,
		Resource: constvars.ResourceClinimetrixTemplates,
		Path:     constvars.ResourceClinimetrixTemplates,
		Out:      result,
	})
	if err != nil {
		c.Log.Error("clinimetrixClient.ListTemplates error calling backend",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	c.Log.Info("clinimetrixClient.ListTemplates succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingTemplateCountKey, len(result.Data)),
	)
	return result.Data, nil
}

func (c *clinimetrixClient) GetTemplate(ctx context.Context, templateID string) (*clinimetrix.Template, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("clinimetrixClient.GetTemplate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTemplateIDKey, templateID),
	)

	template := new(clinimetrix.Template)
	err := c.Transport.Do(ctx, Call{
		Method:   constvars.MethodGet,
		Resource: constvars.ResourceClinimetrixTemplates,
		Path:     fmt.Sprintf("%s/%s", constvars.ResourceClinimetrixTemplates, url.PathEscape(templateID)),
		Out:      template,
	})
	if err != nil {
		c.Log.Error("clinimetrixClient.GetTemplate error calling backend",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return template, nil
}

func (c *clinimetrixClient) CreateAssessment(ctx context.Context, request *requests.CreateRemoteAssessment) (*responses.RemoteAssessment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("clinimetrixClient.CreateAssessment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTemplateIDKey, request.TemplateID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
	)

	assessment := new(responses.RemoteAssessment)
	err := c.Transport.Do(ctx, Call{
		Method:   constvars.MethodPost,
		Resource: constvars.ResourceClinimetrixAssessments,
		Path:     constvars.ResourceClinimetrixAssessments,
		Body:     request,
		Out:      assessment,
	})
	if err != nil {
		c.Log.Error("clinimetrixClient.CreateAssessment error calling backend",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return assessment, nil
}

// SaveProgress is a PUT so a lost response can be retried safely; the
// backend keeps whichever revision is highest.
func (c *clinimetrixClient) SaveProgress(ctx context.Context, remoteAssessmentID string, request *requests.SaveAssessmentProgress) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("clinimetrixClient.SaveProgress called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, remoteAssessmentID),
		zap.Int64(constvars.LoggingRevisionKey, request.Revision),
	)

	err := c.Transport.Do(ctx, Call{
		Method:   constvars.MethodPut,
		Resource: constvars.ResourceClinimetrixAssessments,
		Path:     fmt.Sprintf("%s/%s/progress", constvars.ResourceClinimetrixAssessments, url.PathEscape(remoteAssessmentID)),
		Body:     request,
	})
	if err != nil {
		c.Log.Error("clinimetrixClient.SaveProgress error calling backend",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (c *clinimetrixClient) SubmitAssessment(ctx context.Context, remoteAssessmentID string, request *requests.SubmitAssessment) (*responses.AssessmentResults, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("clinimetrixClient.SubmitAssessment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, remoteAssessmentID),
	)

	results := new(responses.AssessmentResults)
	err := c.Transport.Do(ctx, Call{
		Method:   constvars.MethodPost,
		Resource: constvars.ResourceClinimetrixAssessments,
		Path:     fmt.Sprintf("%s/%s/submit", constvars.ResourceClinimetrixAssessments, url.PathEscape(remoteAssessmentID)),
		Body:     request,
		Out:      results,
	})
	if err != nil {
		c.Log.Error("clinimetrixClient.SubmitAssessment error calling backend",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	c.Log.Info("clinimetrixClient.SubmitAssessment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, remoteAssessmentID),
	)
	return results, nil
}
