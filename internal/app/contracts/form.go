package contracts

import (
	"context"
	"mindhub-service/internal/app/models"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/dto/responses"
)

type FormUsecase interface {
	CreateDraft(ctx context.Context, request *requests.CreateFormDraft) (*responses.FormDraft, error)
	GetDraft(ctx context.Context, draftID string) (*responses.FormDraft, error)
	UpdateDraft(ctx context.Context, draftID string, request *requests.UpdateFormDraft) (*responses.FormDraft, error)
	DeleteDraft(ctx context.Context, draftID string) error
	AddField(ctx context.Context, draftID string, request *requests.AddFormField) (*responses.FormDraft, error)
	UpdateField(ctx context.Context, draftID, fieldID string, request *requests.FormField) (*responses.FormDraft, error)
	RemoveField(ctx context.Context, draftID, fieldID string) (*responses.FormDraft, error)
	MoveField(ctx context.Context, draftID string, request *requests.MoveFormField) (*responses.FormDraft, error)
	PublishDraft(ctx context.Context, draftID string) (*responses.FormDraft, error)
	ListTemplates(ctx context.Context) ([]responses.FormTemplate, error)
	GetTemplate(ctx context.Context, templateID string) (*responses.FormTemplate, error)
	UploadAttachment(ctx context.Context, request *requests.UploadAttachment) (*responses.Attachment, error)
	SubmitForm(ctx context.Context, templateID string, request *requests.SubmitForm) (*responses.FormSubmission, error)
	ListSubmissions(ctx context.Context, templateID string) ([]responses.FormSubmission, error)
}

type FormDraftRepository interface {
	Create(ctx context.Context, draft *models.FormDraft) error
	FindByID(ctx context.Context, draftID string) (*models.FormDraft, error)
	Update(ctx context.Context, draft *models.FormDraft) error
	Delete(ctx context.Context, draftID string) error
}
