package controllers

import (
	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/dto/responses"
	"mindhub-service/internal/pkg/exceptions"
	"mindhub-service/internal/pkg/utils"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

type AssessmentController struct {
	Log               *zap.Logger
	AssessmentUsecase contracts.AssessmentUsecase
}

var (
	assessmentControllerInstance *AssessmentController
	onceAssessmentController     sync.Once
)

func NewAssessmentController(logger *zap.Logger, assessmentUsecase contracts.AssessmentUsecase) *AssessmentController {
	onceAssessmentController.Do(func() {
		assessmentControllerInstance = &AssessmentController{
			Log:               logger,
			AssessmentUsecase: assessmentUsecase,
		}
	})
	return assessmentControllerInstance
}

func (ctrl *AssessmentController) StartAssessment(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("AssessmentController.StartAssessment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.StartAssessment)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		ctrl.Log.Error("AssessmentController.StartAssessment invalid body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	result, err := ctrl.AssessmentUsecase.StartAssessment(r.Context(), request)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "AssessmentController.StartAssessment", err)
		return
	}

	ctrl.Log.Info("AssessmentController.StartAssessment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, result.ID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.StartAssessmentSuccessMessage, result)
}

func (ctrl *AssessmentController) FindAll(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("AssessmentController.FindAll called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	paginationData := utils.BuildPaginationRequest(r)
	request := &requests.FindAllAssessments{
		PatientID: r.URL.Query().Get(constvars.URLParamPatientID),
		Status:    r.URL.Query().Get(constvars.URLQueryParamStatus),
		Page:      paginationData.Page,
		PageSize:  paginationData.PageSize,
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	result, total, err := ctrl.AssessmentUsecase.FindAll(r.Context(), request)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "AssessmentController.FindAll", err)
		return
	}

	ctrl.Log.Info("AssessmentController.FindAll succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingSessionCountKey, len(result)),
	)
	pagination := utils.BuildPaginationResponse(total, request.Page, request.PageSize, r.URL.Path)
	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, constvars.ListAssessmentsSuccessMessage, pagination, result)
}

func (ctrl *AssessmentController) GetAssessment(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	assessmentID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamAssessmentID)
	if !ok {
		return
	}

	result, err := ctrl.AssessmentUsecase.GetAssessment(r.Context(), assessmentID)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "AssessmentController.GetAssessment", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.FindAssessmentSuccessMessage, result)
}

func (ctrl *AssessmentController) AnswerItem(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	assessmentID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamAssessmentID)
	if !ok {
		return
	}

	request := new(requests.AnswerItem)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("AssessmentController.AnswerItem called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
		zap.String(constvars.LoggingItemIDKey, request.ItemID),
	)

	result, err := ctrl.AssessmentUsecase.AnswerItem(r.Context(), assessmentID, request)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "AssessmentController.AnswerItem", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.AnswerItemSuccessMessage, result)
}

// Next moves forward. On the last item it completes the assessment instead,
// answering 202 when the submission had to be queued.
func (ctrl *AssessmentController) Next(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	assessmentID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamAssessmentID)
	if !ok {
		return
	}

	result, queued, err := ctrl.AssessmentUsecase.Next(r.Context(), assessmentID)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "AssessmentController.Next", err)
		return
	}

	ctrl.respondCompletion(w, result, queued, constvars.NavigateAssessmentSuccessMessage)
}

func (ctrl *AssessmentController) Previous(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	assessmentID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamAssessmentID)
	if !ok {
		return
	}

	result, err := ctrl.AssessmentUsecase.Previous(r.Context(), assessmentID)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "AssessmentController.Previous", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.NavigateAssessmentSuccessMessage, result)
}

func (ctrl *AssessmentController) JumpTo(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	assessmentID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamAssessmentID)
	if !ok {
		return
	}

	request := new(requests.JumpTo)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	result, err := ctrl.AssessmentUsecase.JumpTo(r.Context(), assessmentID, request)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "AssessmentController.JumpTo", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.NavigateAssessmentSuccessMessage, result)
}

func (ctrl *AssessmentController) SaveAssessment(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	assessmentID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamAssessmentID)
	if !ok {
		return
	}

	ctrl.Log.Info("AssessmentController.SaveAssessment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)

	result, err := ctrl.AssessmentUsecase.SaveAssessment(r.Context(), assessmentID)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "AssessmentController.SaveAssessment", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SaveAssessmentSuccessMessage, result)
}

// AutoSaveAssessment always answers 200; a skipped save is reported in the
// body so the browser timer keeps running.
func (ctrl *AssessmentController) AutoSaveAssessment(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	assessmentID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamAssessmentID)
	if !ok {
		return
	}

	result, err := ctrl.AssessmentUsecase.AutoSaveAssessment(r.Context(), assessmentID)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "AssessmentController.AutoSaveAssessment", err)
		return
	}

	message := constvars.SaveAssessmentSuccessMessage
	if result.Skipped {
		message = constvars.AutosaveSkippedMessage
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, message, result)
}

func (ctrl *AssessmentController) CompleteAssessment(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	assessmentID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamAssessmentID)
	if !ok {
		return
	}

	ctrl.Log.Info("AssessmentController.CompleteAssessment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
	)

	result, queued, err := ctrl.AssessmentUsecase.CompleteAssessment(r.Context(), assessmentID)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "AssessmentController.CompleteAssessment", err)
		return
	}

	ctrl.respondCompletion(w, result, queued, constvars.CompleteAssessmentSuccessMessage)
}

func (ctrl *AssessmentController) AbandonAssessment(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	assessmentID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamAssessmentID)
	if !ok {
		return
	}

	result, err := ctrl.AssessmentUsecase.AbandonAssessment(r.Context(), assessmentID)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "AssessmentController.AbandonAssessment", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.AbandonAssessmentSuccessMessage, result)
}

func (ctrl *AssessmentController) GetReport(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	assessmentID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamAssessmentID)
	if !ok {
		return
	}

	result, err := ctrl.AssessmentUsecase.GetReport(r.Context(), assessmentID)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "AssessmentController.GetReport", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAssessmentReportSuccessMessage, result)
}

func (ctrl *AssessmentController) respondCompletion(w http.ResponseWriter, result *responses.Assessment, queued bool, message string) {
	switch {
	case queued:
		utils.BuildSuccessResponse(w, constvars.StatusAccepted, constvars.CompleteAssessmentQueuedMessage, result)
	case result.CompletedAt != nil:
		utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CompleteAssessmentSuccessMessage, result)
	default:
		utils.BuildSuccessResponse(w, constvars.StatusOK, message, result)
	}
}
