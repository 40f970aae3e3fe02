package constvars

const (
	ResponseUnknown = "unknown"

	// Scales
	GetScaleTemplatesSuccessMessage    = "catálogo de escalas obtenido correctamente"
	FindScaleTemplateSuccessMessage    = "escala obtenida correctamente"
	InvalidateScaleCacheSuccessMessage = "caché de la escala invalidada correctamente"

	// Assessments
	StartAssessmentSuccessMessage     = "evaluación iniciada correctamente"
	FindAssessmentSuccessMessage      = "evaluación obtenida correctamente"
	AnswerItemSuccessMessage          = "respuesta registrada correctamente"
	NavigateAssessmentSuccessMessage  = "navegación realizada correctamente"
	SaveAssessmentSuccessMessage      = "progreso guardado correctamente"
	AutosaveSkippedMessage            = "guardado automático omitido"
	CompleteAssessmentSuccessMessage  = "evaluación completada correctamente"
	CompleteAssessmentQueuedMessage   = "evaluación en cola para envío, se completará en breve"
	AbandonAssessmentSuccessMessage   = "evaluación descartada correctamente"
	ListAssessmentsSuccessMessage     = "evaluaciones obtenidas correctamente"
	GetAssessmentReportSuccessMessage = "reporte de evaluación generado correctamente"

	// Forms
	CreateFormDraftSuccessMessage    = "borrador de formulario creado correctamente"
	FindFormDraftSuccessMessage      = "borrador de formulario obtenido correctamente"
	UpdateFormDraftSuccessMessage    = "borrador de formulario actualizado correctamente"
	DeleteFormDraftSuccessMessage    = "borrador de formulario eliminado correctamente"
	PublishFormDraftSuccessMessage   = "formulario publicado correctamente"
	GetFormTemplatesSuccessMessage   = "formularios obtenidos correctamente"
	FindFormTemplateSuccessMessage   = "formulario obtenido correctamente"
	UploadAttachmentSuccessMessage   = "archivo cargado correctamente"
	SubmitFormSuccessMessage         = "formulario enviado correctamente"
	GetFormSubmissionsSuccessMessage = "respuestas de formulario obtenidas correctamente"

	// Patients
	GetPatientsSuccessMessage      = "pacientes obtenidos correctamente"
	FindPatientSuccessMessage      = "paciente obtenido correctamente"
	CreatePatientSuccessMessage    = "paciente creado correctamente"
	UpdatePatientSuccessMessage    = "paciente actualizado correctamente"
	GetPatientTagsSuccessMessage   = "etiquetas obtenidas correctamente"
	AssignPatientTagSuccessMessage = "etiqueta asignada correctamente"
	RemovePatientTagSuccessMessage = "etiqueta eliminada correctamente"
	GetTimelineSuccessMessage      = "historial obtenido correctamente"
	AddTimelineEventSuccessMessage = "evento agregado al historial correctamente"

	// Front desk
	GetTodayAppointmentsSuccessMessage  = "citas del día obtenidas correctamente"
	CheckInSuccessMessage               = "llegada del paciente registrada correctamente"
	GetDailyStatsSuccessMessage         = "estadísticas del día obtenidas correctamente"
	GetFrontDeskDashboardSuccessMessage = "tablero de recepción obtenido correctamente"

	// Ops
	HealthCheckSuccessMessage      = "servicio disponible"
	FlushAutosaveSuccessMessage    = "sesiones pendientes guardadas correctamente"
	DrainSubmissionsSuccessMessage = "cola de envíos procesada correctamente"
)
