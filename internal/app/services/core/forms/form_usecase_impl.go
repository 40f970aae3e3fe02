package forms

import (
	"bytes"
	"context"
	"errors"
	"mindhub-service/internal/app/config"
	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/app/models"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/dto/responses"
	"mindhub-service/internal/pkg/exceptions"
	"mindhub-service/internal/pkg/formx"
	"mindhub-service/internal/pkg/utils"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

var (
	formUsecaseInstance contracts.FormUsecase
	onceFormUsecase     sync.Once
)

type formUsecase struct {
	FormDraftRepository contracts.FormDraftRepository
	FormXClient         contracts.FormXClient
	Storage             contracts.Storage
	InternalConfig      *config.InternalConfig
	Log                 *zap.Logger
	now                 func() time.Time
}

func NewFormUsecase(
	formDraftRepository contracts.FormDraftRepository,
	formXClient contracts.FormXClient,
	storage contracts.Storage,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.FormUsecase {
	onceFormUsecase.Do(func() {
		formUsecaseInstance = &formUsecase{
			FormDraftRepository: formDraftRepository,
			FormXClient:         formXClient,
			Storage:             storage,
			InternalConfig:      internalConfig,
			Log:                 logger,
			now:                 func() time.Time { return time.Now().UTC() },
		}
	})
	return formUsecaseInstance
}

func (uc *formUsecase) CreateDraft(ctx context.Context, request *requests.CreateFormDraft) (*responses.FormDraft, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("formUsecase.CreateDraft called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	draft := &models.FormDraft{
		ID:          utils.GenerateID(),
		Title:       strings.TrimSpace(request.Title),
		Description: request.Description,
		Category:    request.Category,
		Fields:      []formx.FieldDefinition{},
		Status:      models.FormDraftStatusDraft,
		ClinicID:    utils.GetClinicID(ctx),
		CreatedBy:   utils.GetUserID(ctx),
	}
	draft.SetCreatedAtUpdatedAt()

	if err := uc.FormDraftRepository.Create(ctx, draft); err != nil {
		uc.Log.Error("formUsecase.CreateDraft error creating draft",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("formUsecase.CreateDraft succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDraftIDKey, draft.ID),
	)
	return toDraftResponse(draft), nil
}

func (uc *formUsecase) GetDraft(ctx context.Context, draftID string) (*responses.FormDraft, error) {
	draft, err := uc.findDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	return toDraftResponse(draft), nil
}

func (uc *formUsecase) UpdateDraft(ctx context.Context, draftID string, request *requests.UpdateFormDraft) (*responses.FormDraft, error) {
	return uc.edit(ctx, "UpdateDraft", draftID, func(draft *models.FormDraft) error {
		if request.Title != nil {
			draft.Title = strings.TrimSpace(*request.Title)
		}
		if request.Description != nil {
			draft.Description = *request.Description
		}
		if request.Category != nil {
			draft.Category = *request.Category
		}
		return nil
	})
}

// DeleteDraft only removes unpublished drafts; a published form has a live
// template in FormX that submissions point to.
func (uc *formUsecase) DeleteDraft(ctx context.Context, draftID string) error {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("formUsecase.DeleteDraft called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDraftIDKey, draftID),
	)

	draft, err := uc.findDraft(ctx, draftID)
	if err != nil {
		return err
	}
	if draft.Status == models.FormDraftStatusPublished {
		return exceptions.ErrFormAlreadyPublished(nil)
	}
	return uc.FormDraftRepository.Delete(ctx, draftID)
}

func (uc *formUsecase) AddField(ctx context.Context, draftID string, request *requests.AddFormField) (*responses.FormDraft, error) {
	return uc.edit(ctx, "AddField", draftID, func(draft *models.FormDraft) error {
		field := toFieldDefinition(request.Field)
		field.ID = utils.GenerateID()
		fields, err := formx.AddField(draft.Fields, field, request.Position)
		if err != nil {
			return mapFieldError(err, field.ID)
		}
		draft.Fields = fields
		return nil
	})
}

func (uc *formUsecase) UpdateField(ctx context.Context, draftID, fieldID string, request *requests.FormField) (*responses.FormDraft, error) {
	return uc.edit(ctx, "UpdateField", draftID, func(draft *models.FormDraft) error {
		field := toFieldDefinition(*request)
		field.ID = fieldID
		fields, err := formx.UpdateField(draft.Fields, fieldID, field)
		if err != nil {
			return mapFieldError(err, fieldID)
		}
		draft.Fields = fields
		return nil
	})
}

func (uc *formUsecase) RemoveField(ctx context.Context, draftID, fieldID string) (*responses.FormDraft, error) {
	return uc.edit(ctx, "RemoveField", draftID, func(draft *models.FormDraft) error {
		fields, err := formx.RemoveField(draft.Fields, fieldID)
		if err != nil {
			return mapFieldError(err, fieldID)
		}
		draft.Fields = fields
		return nil
	})
}

func (uc *formUsecase) MoveField(ctx context.Context, draftID string, request *requests.MoveFormField) (*responses.FormDraft, error) {
	return uc.edit(ctx, "MoveField", draftID, func(draft *models.FormDraft) error {
		fields, err := formx.MoveField(draft.Fields, request.From, request.To)
		if err != nil {
			return mapFieldError(err, "")
		}
		draft.Fields = fields
		return nil
	})
}

// PublishDraft creates the FormX template on first publish and updates it
// afterwards.
func (uc *formUsecase) PublishDraft(ctx context.Context, draftID string) (*responses.FormDraft, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("formUsecase.PublishDraft called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDraftIDKey, draftID),
	)

	draft, err := uc.findDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}

	definition := draft.Definition()
	if err := formx.ValidateDefinition(definition); err != nil {
		uc.Log.Info("formUsecase.PublishDraft definition rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDraftIDKey, draftID),
			zap.Error(err),
		)
		customErr := exceptions.ErrFormDefinitionInvalid(err)
		var definitionErr *formx.DefinitionError
		if errors.As(err, &definitionErr) {
			customErr = customErr.WithDetails(definitionErr.Problems)
		}
		return nil, customErr
	}

	payload := &requests.FormXTemplate{
		Title:       definition.Title,
		Description: definition.Description,
		Category:    definition.Category,
		Fields:      definition.Fields,
		Status:      string(models.FormDraftStatusPublished),
	}

	var remote *responses.FormTemplate
	if draft.RemoteTemplateID == "" {
		remote, err = uc.FormXClient.CreateTemplate(ctx, payload)
	} else {
		remote, err = uc.FormXClient.UpdateTemplate(ctx, draft.RemoteTemplateID, payload)
	}
	if err != nil {
		uc.Log.Error("formUsecase.PublishDraft error publishing to FormX",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDraftIDKey, draftID),
			zap.Error(err),
		)
		return nil, err
	}

	publishedAt := uc.now()
	draft.RemoteTemplateID = remote.ID
	draft.Status = models.FormDraftStatusPublished
	draft.PublishedAt = &publishedAt
	draft.SetUpdatedAt()
	if err := uc.FormDraftRepository.Update(ctx, draft); err != nil {
		uc.Log.Error("formUsecase.PublishDraft error storing remote id",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("formUsecase.PublishDraft succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDraftIDKey, draftID),
		zap.String(constvars.LoggingTemplateIDKey, remote.ID),
	)
	return toDraftResponse(draft), nil
}

func (uc *formUsecase) ListTemplates(ctx context.Context) ([]responses.FormTemplate, error) {
	return uc.FormXClient.ListTemplates(ctx)
}

func (uc *formUsecase) GetTemplate(ctx context.Context, templateID string) (*responses.FormTemplate, error) {
	return uc.FormXClient.GetTemplate(ctx, templateID)
}

// UploadAttachment stores a file for a file field. The declared content type
// is ignored; the type is sniffed from the bytes.
func (uc *formUsecase) UploadAttachment(ctx context.Context, request *requests.UploadAttachment) (*responses.Attachment, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("formUsecase.UploadAttachment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTemplateIDKey, request.TemplateID),
	)

	cfg := uc.InternalConfig.Forms
	maxBytes := int64(cfg.AttachmentMaxUploadSizeInMB) << 20
	size := int64(len(request.Content))
	if maxBytes > 0 && size > maxBytes {
		return nil, exceptions.ErrAttachmentTooLarge(nil, maxBytes)
	}

	detected := mimetype.Detect(request.Content)
	if !isAllowedType(detected, cfg.AllowedAttachmentTypes) {
		uc.Log.Info("formUsecase.UploadAttachment type rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("detected_type", detected.String()),
		)
		return nil, exceptions.ErrAttachmentTypeNotAllowed(nil, detected.String())
	}

	contentType := detected.String()
	objectName := utils.GenerateAttachmentObjectName(request.TemplateID, request.FileName)
	bucket := uc.InternalConfig.Minio.BucketName
	if _, err := uc.Storage.UploadObject(ctx, bucket, objectName, bytes.NewReader(request.Content), size, contentType); err != nil {
		uc.Log.Error("formUsecase.UploadAttachment error uploading",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingObjectNameKey, objectName),
			zap.Error(err),
		)
		return nil, err
	}

	expiry := time.Duration(uc.InternalConfig.Minio.MinioPreSignedUrlObjectExpiryTimeInHours) * time.Hour
	url, err := uc.Storage.PresignedGetURL(ctx, bucket, objectName, expiry)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("formUsecase.UploadAttachment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingObjectNameKey, objectName),
	)
	return &responses.Attachment{
		ObjectKey:   objectName,
		URL:         url,
		ContentType: contentType,
		Size:        size,
		ExpiresAt:   uc.now().Add(expiry),
	}, nil
}

func (uc *formUsecase) SubmitForm(ctx context.Context, templateID string, request *requests.SubmitForm) (*responses.FormSubmission, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("formUsecase.SubmitForm called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTemplateIDKey, templateID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
	)

	template, err := uc.FormXClient.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	if err := formx.ValidateSubmission(template.Fields, request.Values); err != nil {
		customErr := exceptions.ErrFormSubmissionInvalid(err)
		var submissionErr *formx.SubmissionError
		if errors.As(err, &submissionErr) {
			customErr = customErr.WithDetails(submissionErr.Fields)
		}
		return nil, customErr
	}

	submission, err := uc.FormXClient.CreateSubmission(ctx, &requests.FormXSubmission{
		TemplateID:  templateID,
		PatientID:   request.PatientID,
		Values:      request.Values,
		SubmittedBy: utils.GetUserID(ctx),
	})
	if err != nil {
		uc.Log.Error("formUsecase.SubmitForm error creating submission",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("formUsecase.SubmitForm succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTemplateIDKey, templateID),
	)
	return submission, nil
}

func (uc *formUsecase) ListSubmissions(ctx context.Context, templateID string) ([]responses.FormSubmission, error) {
	return uc.FormXClient.ListSubmissions(ctx, templateID)
}

// edit loads a draft, applies fn and stores the result. Published drafts
// stay published; PublishDraft pushes the edits to FormX.
func (uc *formUsecase) edit(ctx context.Context, operation, draftID string, fn func(draft *models.FormDraft) error) (*responses.FormDraft, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("formUsecase."+operation+" called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDraftIDKey, draftID),
	)

	draft, err := uc.findDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := fn(draft); err != nil {
		return nil, err
	}

	draft.SetUpdatedAt()
	if err := uc.FormDraftRepository.Update(ctx, draft); err != nil {
		uc.Log.Error("formUsecase."+operation+" error updating draft",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return toDraftResponse(draft), nil
}

func (uc *formUsecase) findDraft(ctx context.Context, draftID string) (*models.FormDraft, error) {
	draft, err := uc.FormDraftRepository.FindByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if !utils.GetRecordScope(ctx).Allows(draft.ClinicID, draft.CreatedBy) {
		uc.Log.Warn("formUsecase.findDraft draft outside caller scope",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingDraftIDKey, draftID),
			zap.String(constvars.LoggingUserIDKey, utils.GetUserID(ctx)),
		)
		return nil, exceptions.ErrRecordOutOfScope(nil, draftID)
	}
	return draft, nil
}

func mapFieldError(err error, fieldID string) error {
	switch {
	case errors.Is(err, formx.ErrFieldNotFound):
		return exceptions.ErrFormFieldNotFound(err, fieldID)
	case errors.Is(err, formx.ErrIndexOutOfRange):
		return exceptions.ErrPositionOutOfRange(err)
	case errors.Is(err, formx.ErrDuplicateFieldID), errors.Is(err, formx.ErrFieldIDImmutable), errors.Is(err, formx.ErrFieldIDRequired):
		return exceptions.ErrInputValidation(err)
	default:
		return exceptions.ErrServerProcess(err)
	}
}

// isAllowedType matches the sniffed type and its parents (e.g. a docx is
// also a zip) against the configured allow list.
func isAllowedType(detected *mimetype.MIME, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for mime := detected; mime != nil; mime = mime.Parent() {
		for _, a := range allowed {
			if mime.Is(a) {
				return true
			}
		}
	}
	return false
}

func toFieldDefinition(field requests.FormField) formx.FieldDefinition {
	options := make([]formx.FieldOption, 0, len(field.Options))
	for _, option := range field.Options {
		options = append(options, formx.FieldOption{Label: option.Label, Value: option.Value})
	}
	return formx.FieldDefinition{
		Label:       strings.TrimSpace(field.Label),
		Type:        formx.FieldType(field.Type),
		Required:    field.Required,
		Placeholder: field.Placeholder,
		HelpText:    field.HelpText,
		Options:     options,
		Validation: formx.Validation{
			MinLength: field.Validation.MinLength,
			MaxLength: field.Validation.MaxLength,
			Min:       field.Validation.Min,
			Max:       field.Validation.Max,
			Pattern:   field.Validation.Pattern,
		},
	}
}

func toDraftResponse(draft *models.FormDraft) *responses.FormDraft {
	fields := draft.Fields
	if fields == nil {
		fields = []formx.FieldDefinition{}
	}
	return &responses.FormDraft{
		ID:               draft.ID,
		Title:            draft.Title,
		Description:      draft.Description,
		Category:         draft.Category,
		Fields:           fields,
		Status:           string(draft.Status),
		RemoteTemplateID: draft.RemoteTemplateID,
		CreatedBy:        draft.CreatedBy,
		CreatedAt:        draft.CreatedAt,
		UpdatedAt:        draft.UpdatedAt,
		PublishedAt:      draft.PublishedAt,
	}
}
