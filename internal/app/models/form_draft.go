package models

import (
	"mindhub-service/internal/pkg/formx"
	"time"
)

type FormDraftStatus string

const (
	FormDraftStatusDraft     FormDraftStatus = "draft"
	FormDraftStatusPublished FormDraftStatus = "published"
)

type FormDraft struct {
	ID               string                  `bson:"_id"`
	Title            string                  `bson:"title"`
	Description      string                  `bson:"description,omitempty"`
	Category         string                  `bson:"category,omitempty"`
	Fields           []formx.FieldDefinition `bson:"fields"`
	Status           FormDraftStatus         `bson:"status"`
	RemoteTemplateID string                  `bson:"remote_template_id,omitempty"`
	ClinicID         string                  `bson:"clinic_id"`
	CreatedBy        string                  `bson:"created_by"`
	PublishedAt      *time.Time              `bson:"published_at,omitempty"`
	TimeModel        `bson:",inline"`
}

func (d *FormDraft) Definition() formx.Definition {
	return formx.Definition{
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Fields:      d.Fields,
	}
}
