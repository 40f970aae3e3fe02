package constvars

const (
	MongoCollectionAssessmentSessions = "assessment_sessions"
	MongoCollectionFormDrafts         = "form_drafts"
)

const (
	RedisKeyTemplateCacheFormat   = "clinimetrix:template:%s"
	RedisKeyAssessmentSaveFormat  = "assessment:save:%s"
	RedisKeyAutosaveWorkerLeader  = "assessment:autosave:leader"
	RedisKeySubmissionWorkerLock  = "assessment:submission:leader"
	MinioFormAttachmentPathFormat = "forms/%s/attachments/%s%s"
	MinioAssessmentReportFormat   = "assessments/%s/report.json"
)
