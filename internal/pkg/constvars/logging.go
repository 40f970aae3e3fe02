package constvars

const (
	LoggingRequestIDKey          = "request_id"
	LoggingRequestKey            = "request"
	LoggingResponseKey           = "response"
	LoggingErrorCodeKey          = "error_code"
	LoggingErrorMessageKey       = "error_message"
	LoggingOperationKey          = "operation"
	LoggingDurationKey           = "duration"
	LoggingSuccessKey            = "success"
	LoggingMethodKey             = "method"
	LoggingEndpointKey           = "endpoint"
	LoggingStatusCodeKey         = "status_code"
	LoggingRemoteAddrKey         = "remote_addr"
	LoggingUserAgentKey          = "user_agent"
	LoggingQueryKey              = "query"
	LoggingURLKey                = "url"
	LoggingAttemptKey            = "attempt"
	LoggingRedisKey              = "redis_key"
	LoggingLockValueKey          = "lock_value"
	LoggingLockExpirationTimeKey = "lock_expiration_time"
	LoggingLockStoredValueKey    = "lock_stored_value"
	LoggingLockExpectedValueKey  = "lock_expected_value"
	LoggingQueueNameKey          = "queue_name"
	LoggingMessageIDKey          = "message_id"
	LoggingFailedCountKey        = "failed_count"
	LoggingBucketNameKey         = "bucket_name"
	LoggingObjectNameKey         = "object_name"

	LoggingAssessmentIDKey    = "assessment_id"
	LoggingUserIDKey          = "user_id"
	LoggingTemplateIDKey      = "template_id"
	LoggingDraftIDKey         = "draft_id"
	LoggingFieldIDKey         = "field_id"
	LoggingItemIDKey          = "item_id"
	LoggingPatientIDKey       = "patient_id"
	LoggingTagIDKey           = "tag_id"
	LoggingAppointmentIDKey   = "appointment_id"
	LoggingRevisionKey        = "revision"
	LoggingSavedRevisionKey   = "saved_revision"
	LoggingSaveTriggerKey     = "save_trigger"
	LoggingSectionIndexKey    = "section_index"
	LoggingItemIndexKey       = "item_index"
	LoggingTemplateCountKey   = "template_count"
	LoggingItemCountKey       = "item_count"
	LoggingSessionCountKey    = "session_count"
	LoggingPatientCountKey    = "patient_count"
	LoggingSubmissionCountKey = "submission_count"
)
