package contracts

import (
	"context"
	"mindhub-service/internal/app/models"
	"mindhub-service/internal/pkg/dto/requests"
	"mindhub-service/internal/pkg/dto/responses"
	"time"
)

type AssessmentUsecase interface {
	StartAssessment(ctx context.Context, request *requests.StartAssessment) (*responses.Assessment, error)
	FindAll(ctx context.Context, request *requests.FindAllAssessments) ([]responses.AssessmentSummary, int, error)
	GetAssessment(ctx context.Context, assessmentID string) (*responses.Assessment, error)
	AnswerItem(ctx context.Context, assessmentID string, request *requests.AnswerItem) (*responses.Assessment, error)
	Next(ctx context.Context, assessmentID string) (*responses.Assessment, bool, error)
	Previous(ctx context.Context, assessmentID string) (*responses.Assessment, error)
	JumpTo(ctx context.Context, assessmentID string, request *requests.JumpTo) (*responses.Assessment, error)
	SaveAssessment(ctx context.Context, assessmentID string) (*responses.SaveAssessment, error)
	AutoSaveAssessment(ctx context.Context, assessmentID string) (*responses.SaveAssessment, error)
	CompleteAssessment(ctx context.Context, assessmentID string) (*responses.Assessment, bool, error)
	AbandonAssessment(ctx context.Context, assessmentID string) (*responses.Assessment, error)
	GetReport(ctx context.Context, assessmentID string) (*responses.Attachment, error)
	FlushIdleSessions(ctx context.Context) (int, error)
	ApplySubmissionResults(ctx context.Context, assessmentID string, results *responses.AssessmentResults) error
	MarkSubmissionFailed(ctx context.Context, assessmentID string) error
}

type AssessmentRepository interface {
	Create(ctx context.Context, session *models.AssessmentSession) error
	FindByID(ctx context.Context, assessmentID string) (*models.AssessmentSession, error)
	FindAll(ctx context.Context, request *requests.FindAllAssessments) ([]models.AssessmentSession, int, error)
	// UpdateState writes everything except the saved revision, guarded by
	// the revision the caller read.
	UpdateState(ctx context.Context, session *models.AssessmentSession, expectedRevision int64) error
	MarkSaved(ctx context.Context, assessmentID string, revision int64, savedAt time.Time, auto bool) (bool, error)
	FindIdleDirty(ctx context.Context, idleBefore time.Time, limit int) ([]models.AssessmentSession, error)
}
