package constvars

// Validation messages for users, map it with respective tag field
var CustomValidationErrorMessages = map[string]string{
	"required": "es obligatorio",
	"email":    "debe ser un correo electrónico válido",
	"uuid":     "debe ser un identificador válido",
	"min":      "debe tener al menos %s caracteres",
	"max":      "debe tener como máximo %s caracteres",
	"gte":      "debe ser mayor o igual a %s",
	"lte":      "debe ser menor o igual a %s",
	"oneof":    "debe ser uno de: %s",
	"datetime": "debe tener el formato de fecha %s",
	"dive":     "contiene valores inválidos",
}

var TagsWithParams = map[string]bool{
	"min":      true,
	"max":      true,
	"gte":      true,
	"lte":      true,
	"oneof":    true,
	"datetime": true,
}

// Error categories returned to clients in the "error" field
const (
	ErrCategoryAuthentication = "AUTHENTICATION_REQUIRED"
	ErrCategoryForbidden      = "FORBIDDEN"
	ErrCategoryValidation     = "VALIDATION_ERROR"
	ErrCategoryNotFound       = "NOT_FOUND"
	ErrCategoryConflict       = "CONFLICT"
	ErrCategoryNetwork        = "NETWORK_ERROR"
	ErrCategoryUpstream       = "UPSTREAM_ERROR"
	ErrCategoryRateLimited    = "RATE_LIMITED"
	ErrCategoryTimeout        = "TIMEOUT"
	ErrCategoryInternal       = "INTERNAL_ERROR"
)

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "no fue posible procesar tu solicitud"
	ErrClientSomethingWrongWithApplication = "ocurrió un error inesperado en la aplicación"
	ErrClientServerLongRespond             = "el servidor tardó demasiado en responder, intenta de nuevo"
	ErrClientNotAuthorized                 = "no tienes permiso para acceder a esta función"
	ErrClientNotLoggedIn                   = "tu sesión expiró, inicia sesión nuevamente"
	ErrClientNetworkFailure                = "error de conexión con el servidor, verifica tu conexión e intenta de nuevo"
	ErrClientResourceNotFound              = "el recurso solicitado no existe"
	ErrClientTooManyRequests               = "demasiadas solicitudes, espera un momento e intenta de nuevo"
	ErrClientInvalidAPIKey                 = "clave de acceso inválida"

	ErrClientTemplateInvalid           = "la plantilla de la escala no es válida"
	ErrClientTemplateEmpty             = "la escala no contiene reactivos"
	ErrClientAssessmentCompleted       = "la evaluación ya fue completada"
	ErrClientAssessmentNotActive       = "la evaluación no está activa"
	ErrClientAssessmentSubmitting      = "la evaluación se está enviando, espera a que termine"
	ErrClientTemplateVersionChanged    = "la escala cambió de versión, inicia una nueva evaluación"
	ErrClientRequiredItemUnanswered    = "esta pregunta es obligatoria, selecciona una respuesta para continuar"
	ErrClientRequiredItemsMissing      = "faltan preguntas obligatorias por responder"
	ErrClientAlreadyAtFirstItem        = "ya te encuentras en la primera pregunta"
	ErrClientPositionOutOfRange        = "la posición solicitada no existe en la escala"
	ErrClientInvalidResponse           = "la respuesta no es válida para esta pregunta"
	ErrClientUnknownItem               = "la pregunta indicada no pertenece a esta escala"
	ErrClientSaveInProgress            = "ya hay un guardado en curso, intenta de nuevo en unos segundos"
	ErrClientAssessmentModified        = "la evaluación fue modificada en otra pestaña, recarga para continuar"
	ErrClientReportNotAvailable        = "el reporte estará disponible cuando la evaluación se complete"
	ErrClientFormDefinitionInvalid     = "la definición del formulario no es válida"
	ErrClientFormFieldNotFound         = "el campo indicado no existe en el formulario"
	ErrClientFormAlreadyPublished      = "el formulario ya fue publicado"
	ErrClientFormSubmissionInvalid     = "la respuesta del formulario no es válida"
	ErrClientAttachmentTooLarge        = "el archivo excede el tamaño máximo permitido"
	ErrClientAttachmentTypeNotAllowed  = "el tipo de archivo no está permitido"
	ErrClientBackendRejectedRequest    = "el servidor rechazó la solicitud"
	ErrClientFinanceServiceUnavailable = "el servicio de finanzas no está disponible en este momento"
	ErrClientDependencyUnavailable     = "uno o más servicios no están disponibles"
)

// Error messages for developers
const (
	ErrDevInvalidInput               = "invalid input"
	ErrDevValidationFailed           = "validation failed"
	ErrDevCannotParseJSON            = "cannot parse JSON"
	ErrDevCannotMarshalJSON          = "cannot marshal JSON"
	ErrDevCannotParseMultipartForm   = "cannot parse multipart form"
	ErrDevURLParamValidationFailed   = "validation failed for url param %s"
	ErrDevServerDeadlineExceeded     = "deadline exceeded"
	ErrDevServerProcess              = "server failed to process the request"
	ErrDevReadBody                   = "failed to read body"
	ErrDevCreateHTTPRequest          = "failed to create HTTP request"
	ErrDevAuthSigningMethod          = "unexpected signing method: %v"
	ErrDevAuthTokenMissing           = "bearer token missing"
	ErrDevAuthTokenInvalidOrExpired  = "bearer token invalid or expired"
	ErrDevAuthPermissionDenied       = "permission denied by rbac policy"
	ErrDevAuthGenerateToken          = "failed to generate service token"
	ErrDevAPIKeyInvalid              = "invalid api key"
	ErrDevRateLimited                = "request rate limit exceeded"
	ErrDevDBFailedToInsertDocument   = "failed to insert document into database"
	ErrDevDBFailedToUpdateDocument   = "failed to update document in database"
	ErrDevDBFailedToFindDocument     = "failed when do find document on database"
	ErrDevDBFailedToDeleteDocument   = "failed to delete document from database"
	ErrDevDBFailedToIterateDocuments = "failed to iterate documents"
	ErrDevDBDocumentNotFound         = "document not found: %s"
	ErrDevRedisGetData               = "failed to get data from redis"
	ErrDevRedisSetData               = "failed to set data into redis"
	ErrDevRedisDeleteData            = "failed to delete data from redis"
	ErrDevRedisUnlock                = "failed to release redis lock"
	ErrDevMinioFailedToCreateObject  = "failed to create object in bucket %s"
	ErrDevMinioFailedToPresignObject = "failed to presign object in bucket %s"
	ErrDevRabbitMQPublishMessage     = "failed to publish message to queue %s"
	ErrDevRabbitMQConsumeMessage     = "failed to consume message from queue %s"

	ErrDevBackendUnauthorized  = "clinical backend rejected credentials for %s"
	ErrDevBackendForbidden     = "clinical backend forbade access to %s"
	ErrDevBackendNotFound      = "clinical backend resource not found: %s"
	ErrDevBackendRejected      = "clinical backend rejected request to %s with status %d"
	ErrDevBackendUnavailable   = "clinical backend unavailable for %s"
	ErrDevBackendDecodeFailure = "failed to decode clinical backend response from %s"

	ErrDevTemplateInvalid         = "scale template failed validation"
	ErrDevAssessmentCompleted     = "assessment already completed"
	ErrDevAssessmentNotActive     = "assessment is not in progress"
	ErrDevAssessmentSubmitting    = "assessment %s submission in progress"
	ErrDevTemplateVersionChanged  = "template %s is at version %s, session started on %s"
	ErrDevRecordOutOfScope        = "record %s is outside the caller's clinic or ownership"
	ErrDevRequiredItemUnanswered  = "required item %s has no response"
	ErrDevRequiredItemsMissing    = "required items missing responses"
	ErrDevAlreadyAtFirstItem      = "already at first item"
	ErrDevPositionOutOfRange      = "position out of range"
	ErrDevInvalidResponse         = "invalid response for item %s"
	ErrDevUnknownItem             = "unknown item %s"
	ErrDevSaveInProgress          = "save lock held for assessment %s"
	ErrDevAssessmentModified      = "assessment %s changed since revision %d"
	ErrDevReportNotAvailable      = "assessment %s has no report yet"
	ErrDevFormDefinitionInvalid   = "form definition failed validation"
	ErrDevFormFieldNotFound       = "form field %s not found"
	ErrDevFormAlreadyPublished    = "form draft already published"
	ErrDevFormSubmissionInvalid   = "form submission failed validation"
	ErrDevAttachmentTooLarge      = "attachment exceeds %d bytes"
	ErrDevAttachmentTypeRejected  = "attachment type %s not allowed"
	ErrDevFinanceProxyUnavailable = "finance upstream unavailable"
	ErrDevDependencyUnavailable   = "dependency health check failed"
)

const (
	ErrFileLocationUnknown = "file location unknown"
)
