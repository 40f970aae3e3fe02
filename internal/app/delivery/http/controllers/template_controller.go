package controllers

import (
	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/utils"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

type TemplateController struct {
	Log             *zap.Logger
	TemplateUsecase contracts.TemplateUsecase
}

var (
	templateControllerInstance *TemplateController
	onceTemplateController     sync.Once
)

func NewTemplateController(logger *zap.Logger, templateUsecase contracts.TemplateUsecase) *TemplateController {
	onceTemplateController.Do(func() {
		templateControllerInstance = &TemplateController{
			Log:             logger,
			TemplateUsecase: templateUsecase,
		}
	})
	return templateControllerInstance
}

func (ctrl *TemplateController) ListTemplates(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("TemplateController.ListTemplates called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	result, err := ctrl.TemplateUsecase.ListTemplates(r.Context())
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "TemplateController.ListTemplates", err)
		return
	}

	ctrl.Log.Info("TemplateController.ListTemplates succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingTemplateCountKey, len(result)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetScaleTemplatesSuccessMessage, result)
}

func (ctrl *TemplateController) GetTemplate(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	templateID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamTemplateID)
	if !ok {
		return
	}

	ctrl.Log.Info("TemplateController.GetTemplate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTemplateIDKey, templateID),
	)

	result, err := ctrl.TemplateUsecase.GetTemplate(r.Context(), templateID)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "TemplateController.GetTemplate", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.FindScaleTemplateSuccessMessage, result)
}

// InvalidateTemplate drops the cached copy so the next read refetches it.
func (ctrl *TemplateController) InvalidateTemplate(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	templateID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamTemplateID)
	if !ok {
		return
	}

	ctrl.Log.Info("TemplateController.InvalidateTemplate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTemplateIDKey, templateID),
	)

	if err := ctrl.TemplateUsecase.InvalidateTemplate(r.Context(), templateID); err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "TemplateController.InvalidateTemplate", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.InvalidateScaleCacheSuccessMessage, nil)
}
