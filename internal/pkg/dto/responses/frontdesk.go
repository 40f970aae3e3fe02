package responses

type Appointment struct {
	ID          string `json:"id"`
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
	ClinicianID string `json:"clinician_id,omitempty"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time,omitempty"`
	Status      string `json:"status"`
	Type        string `json:"type,omitempty"`
	CheckedInAt string `json:"checked_in_at,omitempty"`
}

type DailyStats struct {
	Date              string  `json:"date"`
	TotalAppointments int     `json:"total_appointments"`
	CheckedIn         int     `json:"checked_in"`
	Completed         int     `json:"completed"`
	Cancelled         int     `json:"cancelled"`
	NoShows           int     `json:"no_shows"`
	Revenue           float64 `json:"revenue,omitempty"`
}

// FrontDeskDashboard bundles the day's appointments with the counters.
type FrontDeskDashboard struct {
	Appointments []Appointment `json:"appointments"`
	Stats        DailyStats    `json:"stats"`
}
