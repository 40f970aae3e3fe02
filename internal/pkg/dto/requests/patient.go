package requests

type FindAllPatients struct {
	Search   string `validate:"omitempty,max=100"`
	Page     int
	PageSize int
}

type CreatePatient struct {
	FirstName        string   `json:"first_name" validate:"required,max=100"`
	PaternalLastName string   `json:"paternal_last_name" validate:"required,max=100"`
	MaternalLastName string   `json:"maternal_last_name" validate:"max=100"`
	BirthDate        string   `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Gender           string   `json:"gender" validate:"required,oneof=masculine feminine other"`
	Email            string   `json:"email" validate:"omitempty,email"`
	Phone            string   `json:"phone" validate:"omitempty,phone_number"`
	CURP             string   `json:"curp" validate:"omitempty,len=18"`
	Notes            string   `json:"notes" validate:"max=2000"`
	Tags             []string `json:"tags"`
}

type UpdatePatient struct {
	FirstName        *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	PaternalLastName *string `json:"paternal_last_name,omitempty" validate:"omitempty,max=100"`
	MaternalLastName *string `json:"maternal_last_name,omitempty" validate:"omitempty,max=100"`
	BirthDate        *string `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Gender           *string `json:"gender,omitempty" validate:"omitempty,oneof=masculine feminine other"`
	Email            *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone            *string `json:"phone,omitempty" validate:"omitempty,phone_number"`
	Notes            *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type AssignPatientTag struct {
	TagID string `json:"tag_id" validate:"required"`
}

type CreateTimelineEvent struct {
	Type        string                 `json:"type" validate:"required,oneof=note appointment assessment form prescription document"`
	Title       string                 `json:"title" validate:"required,max=200"`
	Description string                 `json:"description" validate:"max=4000"`
	OccurredAt  string                 `json:"occurred_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Metadata    map[string]interface{} `json:"metadata"`
}
