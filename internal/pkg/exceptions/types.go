package exceptions

import (
	"fmt"
	"mindhub-service/internal/pkg/constvars"
)

var (
	// Request handling
	ErrURLParamValidation = func(err error, paramName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevURLParamValidationFailed, paramName))
	}
	ErrInputValidation = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, FormatFirstValidationError(err), constvars.ErrDevValidationFailed)
	}
	ErrCannotParseJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseJSON)
	}
	ErrCannotMarshalJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotMarshalJSON)
	}
	ErrCannotParseMultipartForm = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseMultipartForm)
	}
	ErrServerDeadlineExceeded = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusGatewayTimeout, constvars.ErrClientServerLongRespond, constvars.ErrDevServerDeadlineExceeded)
	}
	ErrServerProcess = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevServerProcess)
	}
	ErrTooManyRequests = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusTooManyRequests, constvars.ErrClientTooManyRequests, constvars.ErrDevRateLimited)
	}

	// Auth
	ErrTokenMissing = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthTokenMissing)
	}
	ErrTokenInvalidOrExpired = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthTokenInvalidOrExpired)
	}
	ErrTokenGenerate = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevAuthGenerateToken)
	}
	ErrPermissionDenied = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusForbidden, constvars.ErrClientNotAuthorized, constvars.ErrDevAuthPermissionDenied)
	}
	ErrInvalidAPIKey = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientInvalidAPIKey, constvars.ErrDevAPIKeyInvalid)
	}

	// MongoDB
	ErrMongoDBInsertDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToInsertDocument)
	}
	ErrMongoDBUpdateDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToUpdateDocument)
	}
	ErrMongoDBFindDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToFindDocument)
	}
	ErrMongoDBDeleteDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToDeleteDocument)
	}
	ErrMongoDBIterateDocuments = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToIterateDocuments)
	}
	ErrMongoDBNotDocument = func(err error, documentID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientResourceNotFound, fmt.Sprintf(constvars.ErrDevDBDocumentNotFound, documentID))
	}
	// ErrRecordOutOfScope answers like a missing document so other clinics'
	// ids are not confirmed.
	ErrRecordOutOfScope = func(err error, documentID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientResourceNotFound, fmt.Sprintf(constvars.ErrDevRecordOutOfScope, documentID))
	}

	// Redis
	ErrRedisGet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisGetData)
	}
	ErrRedisSet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisSetData)
	}
	ErrRedisDelete = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisDeleteData)
	}
	ErrRedisUnlock = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisUnlock)
	}

	// MinIO
	ErrMinioCreateObject = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMinioFailedToCreateObject, bucketName))
	}
	ErrMinioPresignObject = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMinioFailedToPresignObject, bucketName))
	}

	// RabbitMQ
	ErrRabbitMQPublishMessage = func(err error, queueName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRabbitMQPublishMessage, queueName))
	}
	ErrRabbitMQConsumeMessage = func(err error, queueName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRabbitMQConsumeMessage, queueName))
	}

	// HTTP
	ErrCreateHTTPRequest = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCreateHTTPRequest)
	}
	ErrReadBody = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevReadBody)
	}

	// Clinical backend
	ErrBackendUnauthorized = func(err error, resource string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotLoggedIn, fmt.Sprintf(constvars.ErrDevBackendUnauthorized, resource))
	}
	ErrBackendForbidden = func(err error, resource string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusForbidden, constvars.ErrClientNotAuthorized, fmt.Sprintf(constvars.ErrDevBackendForbidden, resource))
	}
	ErrBackendNotFound = func(err error, resource string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientResourceNotFound, fmt.Sprintf(constvars.ErrDevBackendNotFound, resource))
	}
	ErrBackendRejected = func(err error, clientMessage, resource string, statusCode int) *CustomError {
		return BuildCategorizedError(err, statusCode, constvars.ErrCategoryUpstream, clientMessage, fmt.Sprintf(constvars.ErrDevBackendRejected, resource, statusCode))
	}
	ErrBackendUnavailable = func(err error, resource string) *CustomError {
		return BuildCategorizedError(err, constvars.StatusBadGateway, constvars.ErrCategoryNetwork, constvars.ErrClientNetworkFailure, fmt.Sprintf(constvars.ErrDevBackendUnavailable, resource))
	}
	ErrBackendDecode = func(err error, resource string) *CustomError {
		return BuildCategorizedError(err, constvars.StatusBadGateway, constvars.ErrCategoryUpstream, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevBackendDecodeFailure, resource))
	}
	ErrFinanceProxyUnavailable = func(err error) *CustomError {
		return BuildCategorizedError(err, constvars.StatusBadGateway, constvars.ErrCategoryNetwork, constvars.ErrClientFinanceServiceUnavailable, constvars.ErrDevFinanceProxyUnavailable)
	}
	ErrDependencyUnavailable = func(err error) *CustomError {
		return BuildCategorizedError(err, constvars.StatusServiceUnavailable, constvars.ErrCategoryNetwork, constvars.ErrClientDependencyUnavailable, constvars.ErrDevDependencyUnavailable)
	}

	// Scales and assessments
	ErrTemplateInvalid = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnprocessableEntity, constvars.ErrClientTemplateInvalid, constvars.ErrDevTemplateInvalid)
	}
	ErrAssessmentCompleted = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusConflict, constvars.ErrClientAssessmentCompleted, constvars.ErrDevAssessmentCompleted)
	}
	ErrAssessmentNotActive = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusConflict, constvars.ErrClientAssessmentNotActive, constvars.ErrDevAssessmentNotActive)
	}
	ErrAssessmentSubmitting = func(err error, assessmentID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusConflict, constvars.ErrClientAssessmentSubmitting, fmt.Sprintf(constvars.ErrDevAssessmentSubmitting, assessmentID))
	}
	ErrTemplateVersionChanged = func(err error, templateID, current, started string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusConflict, constvars.ErrClientTemplateVersionChanged, fmt.Sprintf(constvars.ErrDevTemplateVersionChanged, templateID, current, started))
	}
	ErrRequiredItemUnanswered = func(err error, itemID string) *CustomError {
		return BuildCategorizedError(err, constvars.StatusUnprocessableEntity, constvars.ErrCategoryValidation, constvars.ErrClientRequiredItemUnanswered, fmt.Sprintf(constvars.ErrDevRequiredItemUnanswered, itemID))
	}
	ErrRequiredItemsMissing = func(err error) *CustomError {
		return BuildCategorizedError(err, constvars.StatusUnprocessableEntity, constvars.ErrCategoryValidation, constvars.ErrClientRequiredItemsMissing, constvars.ErrDevRequiredItemsMissing)
	}
	ErrAlreadyAtFirstItem = func(err error) *CustomError {
		return BuildCategorizedError(err, constvars.StatusConflict, constvars.ErrCategoryValidation, constvars.ErrClientAlreadyAtFirstItem, constvars.ErrDevAlreadyAtFirstItem)
	}
	ErrPositionOutOfRange = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientPositionOutOfRange, constvars.ErrDevPositionOutOfRange)
	}
	ErrInvalidResponse = func(err error, itemID string) *CustomError {
		return BuildCategorizedError(err, constvars.StatusUnprocessableEntity, constvars.ErrCategoryValidation, constvars.ErrClientInvalidResponse, fmt.Sprintf(constvars.ErrDevInvalidResponse, itemID))
	}
	ErrUnknownItem = func(err error, itemID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientUnknownItem, fmt.Sprintf(constvars.ErrDevUnknownItem, itemID))
	}
	ErrSaveInProgress = func(err error, assessmentID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusConflict, constvars.ErrClientSaveInProgress, fmt.Sprintf(constvars.ErrDevSaveInProgress, assessmentID))
	}
	ErrAssessmentModified = func(err error, assessmentID string, revision int64) *CustomError {
		return BuildNewCustomError(err, constvars.StatusConflict, constvars.ErrClientAssessmentModified, fmt.Sprintf(constvars.ErrDevAssessmentModified, assessmentID, revision))
	}
	ErrReportNotAvailable = func(err error, assessmentID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientReportNotAvailable, fmt.Sprintf(constvars.ErrDevReportNotAvailable, assessmentID))
	}

	// Forms
	ErrFormDefinitionInvalid = func(err error) *CustomError {
		return BuildCategorizedError(err, constvars.StatusUnprocessableEntity, constvars.ErrCategoryValidation, constvars.ErrClientFormDefinitionInvalid, constvars.ErrDevFormDefinitionInvalid)
	}
	ErrFormFieldNotFound = func(err error, fieldID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientFormFieldNotFound, fmt.Sprintf(constvars.ErrDevFormFieldNotFound, fieldID))
	}
	ErrFormAlreadyPublished = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusConflict, constvars.ErrClientFormAlreadyPublished, constvars.ErrDevFormAlreadyPublished)
	}
	ErrFormSubmissionInvalid = func(err error) *CustomError {
		return BuildCategorizedError(err, constvars.StatusUnprocessableEntity, constvars.ErrCategoryValidation, constvars.ErrClientFormSubmissionInvalid, constvars.ErrDevFormSubmissionInvalid)
	}
	ErrAttachmentTooLarge = func(err error, maxBytes int64) *CustomError {
		return BuildCategorizedError(err, constvars.StatusRequestTooLarge, constvars.ErrCategoryValidation, constvars.ErrClientAttachmentTooLarge, fmt.Sprintf(constvars.ErrDevAttachmentTooLarge, maxBytes))
	}
	ErrAttachmentTypeNotAllowed = func(err error, contentType string) *CustomError {
		return BuildCategorizedError(err, constvars.StatusUnsupportedMedia, constvars.ErrCategoryValidation, constvars.ErrClientAttachmentTypeNotAllowed, fmt.Sprintf(constvars.ErrDevAttachmentTypeRejected, contentType))
	}
)
