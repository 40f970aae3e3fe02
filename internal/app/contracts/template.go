package contracts

import (
	"context"
	"mindhub-service/internal/pkg/clinimetrix"
)

type TemplateUsecase interface {
	ListTemplates(ctx context.Context) ([]clinimetrix.TemplateSummary, error)
	GetTemplate(ctx context.Context, templateID string) (*clinimetrix.Template, error)
	InvalidateTemplate(ctx context.Context, templateID string) error
}
