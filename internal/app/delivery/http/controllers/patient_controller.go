package controllers

import (
	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/exceptions"
	"mindhub-service/internal/pkg/utils"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"
)

type PatientController struct {
	Log            *zap.Logger
	PatientUsecase contracts.PatientUsecase
}

var (
	patientControllerInstance *PatientController
	oncePatientController     sync.Once
)

func NewPatientController(logger *zap.Logger, patientUsecase contracts.PatientUsecase) *PatientController {
	oncePatientController.Do(func() {
		patientControllerInstance = &PatientController{
			Log:            logger,
			PatientUsecase: patientUsecase,
		}
	})
	return patientControllerInstance
}

func (ctrl *PatientController) FindAll(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("PatientController.FindAll called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	paginationData := utils.BuildPaginationRequest(r)
	request := &requests.FindAllPatients{
		Search:   strings.TrimSpace(r.URL.Query().Get(constvars.URLQueryParamSearch)),
		Page:     paginationData.Page,
		PageSize: paginationData.PageSize,
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	result, total, err := ctrl.PatientUsecase.FindAll(r.Context(), request)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "PatientController.FindAll", err)
		return
	}

	ctrl.Log.Info("PatientController.FindAll succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingPatientCountKey, len(result)),
	)
	pagination := utils.BuildPaginationResponse(total, request.Page, request.PageSize, r.URL.Path)
	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, constvars.GetPatientsSuccessMessage, pagination, result)
}

func (ctrl *PatientController) FindByID(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	patientID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamPatientID)
	if !ok {
		return
	}

	result, err := ctrl.PatientUsecase.FindByID(r.Context(), patientID)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "PatientController.FindByID", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.FindPatientSuccessMessage, result)
}

func (ctrl *PatientController) Create(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("PatientController.Create called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.CreatePatient)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	result, err := ctrl.PatientUsecase.Create(r.Context(), request)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "PatientController.Create", err)
		return
	}

	ctrl.Log.Info("PatientController.Create succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, result.ID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreatePatientSuccessMessage, result)
}

func (ctrl *PatientController) Update(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	patientID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamPatientID)
	if !ok {
		return
	}

	request := new(requests.UpdatePatient)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	result, err := ctrl.PatientUsecase.Update(r.Context(), patientID, request)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "PatientController.Update", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdatePatientSuccessMessage, result)
}

func (ctrl *PatientController) ListTags(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	patientID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamPatientID)
	if !ok {
		return
	}

	result, err := ctrl.PatientUsecase.ListTags(r.Context(), patientID)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "PatientController.ListTags", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetPatientTagsSuccessMessage, result)
}

func (ctrl *PatientController) AssignTag(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	patientID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamPatientID)
	if !ok {
		return
	}

	request := new(requests.AssignPatientTag)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	result, err := ctrl.PatientUsecase.AssignTag(r.Context(), patientID, request)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "PatientController.AssignTag", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.AssignPatientTagSuccessMessage, result)
}

func (ctrl *PatientController) RemoveTag(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	patientID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamPatientID)
	if !ok {
		return
	}
	tagID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamTagID)
	if !ok {
		return
	}

	ctrl.Log.Info("PatientController.RemoveTag called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.String(constvars.LoggingTagIDKey, tagID),
	)

	if err := ctrl.PatientUsecase.RemoveTag(r.Context(), patientID, tagID); err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "PatientController.RemoveTag", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RemovePatientTagSuccessMessage, nil)
}

func (ctrl *PatientController) ListTimeline(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	patientID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamPatientID)
	if !ok {
		return
	}

	result, err := ctrl.PatientUsecase.ListTimeline(r.Context(), patientID)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "PatientController.ListTimeline", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetTimelineSuccessMessage, result)
}

func (ctrl *PatientController) AddTimelineEvent(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	patientID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamPatientID)
	if !ok {
		return
	}

	request := new(requests.CreateTimelineEvent)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	result, err := ctrl.PatientUsecase.AddTimelineEvent(r.Context(), patientID, request)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "PatientController.AddTimelineEvent", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.AddTimelineEventSuccessMessage, result)
}
