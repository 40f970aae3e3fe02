package config

type InternalConfig struct {
	App        App           `mapstructure:"app"`
	JWT        AppJWT        `mapstructure:"jwt"`
	Backend    AppBackend    `mapstructure:"backend"`
	Assessment AppAssessment `mapstructure:"assessment"`
	Forms      AppForms      `mapstructure:"forms"`
	Queue      AppQueue      `mapstructure:"queue"`
	Minio      AppMinio      `mapstructure:"minio"`
	RateLimit  AppRateLimit  `mapstructure:"rate_limit"`
	Security   AppSecurity   `mapstructure:"security"`
}

type App struct {
	Env                        string   `mapstructure:"env"`
	Port                       string   `mapstructure:"port"`
	Version                    string   `mapstructure:"version"`
	Address                    string   `mapstructure:"address"`
	Timezone                   string   `mapstructure:"timezone"`
	EndpointPrefix             string   `mapstructure:"endpoint_prefix"`
	FrontendDomains            []string `mapstructure:"frontend_domains"`
	MaxRequests                int      `mapstructure:"max_requests"`
	MaxTimeRequestsPerSeconds  int      `mapstructure:"max_time_requests_per_seconds"`
	ShutdownTimeoutInSeconds   int      `mapstructure:"shutdown_timeout_in_seconds"`
	RequestTimeoutInSeconds    int      `mapstructure:"request_timeout_in_seconds"`
	RequestBodyLimitInMegabyte int      `mapstructure:"request_body_limit_in_megabyte"`
}

type AppJWT struct {
	// Secret verifies the HS256 user tokens issued by the auth provider.
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
	// ServiceTokenAlg selects the signing algorithm for service tokens (ES256|RS256).
	ServiceTokenAlg string `mapstructure:"service_token_alg"`
	// ServiceTokenKey is the private key PEM used to mint service tokens.
	ServiceTokenKey          string `mapstructure:"service_token_key"`
	ServiceTokenSubject      string `mapstructure:"service_token_subject"`
	ServiceTokenAudience     string `mapstructure:"service_token_audience"`
	ServiceTokenTTLInMinutes int    `mapstructure:"service_token_ttl_in_minutes"`
}

type AppBackend struct {
	BaseUrl                      string  `mapstructure:"base_url"`
	FinanceBaseUrl               string  `mapstructure:"finance_base_url"`
	HTTPTimeoutInSeconds         int     `mapstructure:"http_timeout_in_seconds"`
	MaxRetries                   int     `mapstructure:"max_retries"`
	RetryBaseDelayInMilliseconds int     `mapstructure:"retry_base_delay_in_milliseconds"`
	RateLimitPerSecond           float64 `mapstructure:"rate_limit_per_second"`
	RateLimitBurst               int     `mapstructure:"rate_limit_burst"`
}

type AppAssessment struct {
	TemplateCacheTTLInMinutes int `mapstructure:"template_cache_ttl_in_minutes"`
	AutoSaveIntervalInSeconds int `mapstructure:"auto_save_interval_in_seconds"`
	SaveLockTTLInSeconds      int `mapstructure:"save_lock_ttl_in_seconds"`
	// AutosaveWorkerCronSpec schedules the flush of dirty sessions left by closed tabs.
	AutosaveWorkerCronSpec  string `mapstructure:"autosave_worker_cron_spec"`
	AutosaveWorkerBatchSize int    `mapstructure:"autosave_worker_batch_size"`
	// IdleAfterInSeconds is how long a dirty session must go untouched before
	// the worker saves it on the browser's behalf.
	IdleAfterInSeconds int `mapstructure:"idle_after_in_seconds"`
}

type AppForms struct {
	AttachmentMaxUploadSizeInMB int      `mapstructure:"attachment_max_upload_size_in_mb"`
	AllowedAttachmentTypes      []string `mapstructure:"allowed_attachment_types"`
}

type AppQueue struct {
	SubmissionQueue          string `mapstructure:"submission_queue"`
	SubmissionDeadQueue      string `mapstructure:"submission_dead_queue"`
	SubmissionWorkerCronSpec string `mapstructure:"submission_worker_cron_spec"`
	// MaxQueue defines how many items the worker processes per tick
	MaxQueue int `mapstructure:"max_queue"`
	// ThrottleRetry is the failedCount threshold before sending to DLQ
	ThrottleRetry int `mapstructure:"throttle_retry"`
}

type AppMinio struct {
	BucketName                               string `mapstructure:"bucket_name"`
	MinioPreSignedUrlObjectExpiryTimeInHours int    `mapstructure:"minio_pre_signed_url_object_expiry_time_in_hours"`
}

type AppRateLimit struct {
	FinancePerIPPerSecond float64 `mapstructure:"finance_per_ip_per_second"`
	FinancePerIPBurst     int     `mapstructure:"finance_per_ip_burst"`
}

type AppSecurity struct {
	CasbinModelPath  string `mapstructure:"casbin_model_path"`
	CasbinPolicyPath string `mapstructure:"casbin_policy_path"`
	// OpsAPIKeyHash is the bcrypt hash of the key required on /ops routes.
	OpsAPIKeyHash string `mapstructure:"ops_api_key_hash"`
}
