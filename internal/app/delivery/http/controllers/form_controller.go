package controllers

import (
	"io"
	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/exceptions"
	"mindhub-service/internal/pkg/utils"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

const (
	attachmentFormField    = "file"
	multipartMemoryInBytes = 8 << 20
)

type FormController struct {
	Log         *zap.Logger
	FormUsecase contracts.FormUsecase
}

var (
	formControllerInstance *FormController
	onceFormController     sync.Once
)

func NewFormController(logger *zap.Logger, formUsecase contracts.FormUsecase) *FormController {
	onceFormController.Do(func() {
		formControllerInstance = &FormController{
			Log:         logger,
			FormUsecase: formUsecase,
		}
	})
	return formControllerInstance
}

func (ctrl *FormController) CreateDraft(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	ctrl.Log.Info("FormController.CreateDraft called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.CreateFormDraft)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	result, err := ctrl.FormUsecase.CreateDraft(r.Context(), request)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "FormController.CreateDraft", err)
		return
	}

	ctrl.Log.Info("FormController.CreateDraft succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDraftIDKey, result.ID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateFormDraftSuccessMessage, result)
}

func (ctrl *FormController) GetDraft(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	draftID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamDraftID)
	if !ok {
		return
	}

	result, err := ctrl.FormUsecase.GetDraft(r.Context(), draftID)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "FormController.GetDraft", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.FindFormDraftSuccessMessage, result)
}

func (ctrl *FormController) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	draftID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamDraftID)
	if !ok {
		return
	}

	request := new(requests.UpdateFormDraft)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	result, err := ctrl.FormUsecase.UpdateDraft(r.Context(), draftID, request)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "FormController.UpdateDraft", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdateFormDraftSuccessMessage, result)
}

func (ctrl *FormController) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	draftID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamDraftID)
	if !ok {
		return
	}

	ctrl.Log.Info("FormController.DeleteDraft called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDraftIDKey, draftID),
	)

	if err := ctrl.FormUsecase.DeleteDraft(r.Context(), draftID); err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "FormController.DeleteDraft", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DeleteFormDraftSuccessMessage, nil)
}

func (ctrl *FormController) AddField(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	draftID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamDraftID)
	if !ok {
		return
	}

	request := new(requests.AddFormField)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	result, err := ctrl.FormUsecase.AddField(r.Context(), draftID, request)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "FormController.AddField", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.UpdateFormDraftSuccessMessage, result)
}

func (ctrl *FormController) UpdateField(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	draftID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamDraftID)
	if !ok {
		return
	}
	fieldID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamFieldID)
	if !ok {
		return
	}

	request := new(requests.FormField)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	result, err := ctrl.FormUsecase.UpdateField(r.Context(), draftID, fieldID, request)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "FormController.UpdateField", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdateFormDraftSuccessMessage, result)
}

func (ctrl *FormController) RemoveField(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	draftID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamDraftID)
	if !ok {
		return
	}
	fieldID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamFieldID)
	if !ok {
		return
	}

	result, err := ctrl.FormUsecase.RemoveField(r.Context(), draftID, fieldID)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "FormController.RemoveField", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdateFormDraftSuccessMessage, result)
}

func (ctrl *FormController) MoveField(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	draftID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamDraftID)
	if !ok {
		return
	}

	request := new(requests.MoveFormField)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	result, err := ctrl.FormUsecase.MoveField(r.Context(), draftID, request)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "FormController.MoveField", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdateFormDraftSuccessMessage, result)
}

func (ctrl *FormController) PublishDraft(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	draftID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamDraftID)
	if !ok {
		return
	}

	ctrl.Log.Info("FormController.PublishDraft called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDraftIDKey, draftID),
	)

	result, err := ctrl.FormUsecase.PublishDraft(r.Context(), draftID)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "FormController.PublishDraft", err)
		return
	}

	ctrl.Log.Info("FormController.PublishDraft succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTemplateIDKey, result.RemoteTemplateID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PublishFormDraftSuccessMessage, result)
}

func (ctrl *FormController) ListTemplates(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())

	result, err := ctrl.FormUsecase.ListTemplates(r.Context())
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "FormController.ListTemplates", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetFormTemplatesSuccessMessage, result)
}

func (ctrl *FormController) GetTemplate(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	templateID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamTemplateID)
	if !ok {
		return
	}

	result, err := ctrl.FormUsecase.GetTemplate(r.Context(), templateID)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "FormController.GetTemplate", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.FindFormTemplateSuccessMessage, result)
}

// UploadAttachment takes a multipart "file" part for a file field of the
// template and answers with a presigned URL to reference in the submission.
func (ctrl *FormController) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	templateID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamTemplateID)
	if !ok {
		return
	}

	ctrl.Log.Info("FormController.UploadAttachment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTemplateIDKey, templateID),
	)

	if err := r.ParseMultipartForm(multipartMemoryInBytes); err != nil {
		ctrl.Log.Error("FormController.UploadAttachment error parsing multipart form",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(attachmentFormField)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}

	result, err := ctrl.FormUsecase.UploadAttachment(r.Context(), &requests.UploadAttachment{
		TemplateID:  templateID,
		FileName:    header.Filename,
		ContentType: header.Header.Get(constvars.HeaderContentType),
		Size:        header.Size,
		Content:     content,
	})
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "FormController.UploadAttachment", err)
		return
	}

	ctrl.Log.Info("FormController.UploadAttachment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingObjectNameKey, result.ObjectKey),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.UploadAttachmentSuccessMessage, result)
}

func (ctrl *FormController) SubmitForm(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	templateID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamTemplateID)
	if !ok {
		return
	}

	request := new(requests.SubmitForm)
	if err := utils.DecodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("FormController.SubmitForm called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTemplateIDKey, templateID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
	)

	result, err := ctrl.FormUsecase.SubmitForm(r.Context(), templateID, request)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "FormController.SubmitForm", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.SubmitFormSuccessMessage, result)
}

func (ctrl *FormController) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	templateID, ok := requireURLParam(ctrl.Log, w, r, constvars.URLParamTemplateID)
	if !ok {
		return
	}

	result, err := ctrl.FormUsecase.ListSubmissions(r.Context(), templateID)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, requestID, "FormController.ListSubmissions", err)
		return
	}

	ctrl.Log.Info("FormController.ListSubmissions succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingSubmissionCountKey, len(result)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetFormSubmissionsSuccessMessage, result)
}
