package responses

type Patient struct {
	ID               string   `json:"id"`
	FirstName        string   `json:"first_name"`
	PaternalLastName string   `json:"paternal_last_name"`
	MaternalLastName string   `json:"maternal_last_name,omitempty"`
	BirthDate        string   `json:"birth_date,omitempty"`
	Age              int      `json:"age,omitempty"`
	Gender           string   `json:"gender,omitempty"`
	Email            string   `json:"email,omitempty"`
	Phone            string   `json:"phone,omitempty"`
	CURP             string   `json:"curp,omitempty"`
	Notes            string   `json:"notes,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	CreatedAt        string   `json:"created_at,omitempty"`
	UpdatedAt        string   `json:"updated_at,omitempty"`
}

type PatientTag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type TimelineEvent struct {
	ID          string                 `json:"id"`
	PatientID   string                 `json:"patient_id"`
	Type        string                 `json:"type"`
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	OccurredAt  string                 `json:"occurred_at"`
	CreatedBy   string                 `json:"created_by,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}
