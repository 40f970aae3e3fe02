package config

import (
	"errors"
	"fmt"
	"mindhub-service/internal/pkg/utils"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "mindhub"),
			Username: utils.GetEnvString("MONGODB_USERNAME", ""),
			Password: utils.GetEnvString("MONGODB_PASSWORD", ""),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Port:       utils.GetEnvString("MINIO_PORT", "9000"),
			Host:       utils.GetEnvString("MINIO_HOST", "localhost"),
			Username:   utils.GetEnvString("MINIO_USERNAME", ""),
			Password:   utils.GetEnvString("MINIO_PASSWORD", ""),
			BucketName: utils.GetEnvString("MINIO_BUCKET_NAME", "mindhub"),
			UseSSL:     utils.GetEnvBool("MINIO_USE_SSL", false),
		},
		Sentry: Sentry{
			DSN:              utils.GetEnvString("SENTRY_DSN", ""),
			TracesSampleRate: 0.1,
		},
	}
}

// NewInternalConfig loads the application settings from an optional
// config.yaml, overridden by MINDHUB_* environment variables.
func NewInternalConfig() (*InternalConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix("MINDHUB")
	v.SetEnvKeyReplacer(replacer())
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return loadInternalConfig(v)
}

func replacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

func loadInternalConfig(v *viper.Viper) (*InternalConfig, error) {
	cfg := new(InternalConfig)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", ":8080")
	v.SetDefault("app.version", "v1")
	v.SetDefault("app.address", "localhost")
	v.SetDefault("app.timezone", "America/Mexico_City")
	v.SetDefault("app.endpoint_prefix", "api")
	v.SetDefault("app.frontend_domains", []string{"http://localhost:3000"})
	v.SetDefault("app.max_requests", 100)
	v.SetDefault("app.max_time_requests_per_seconds", 60)
	v.SetDefault("app.shutdown_timeout_in_seconds", 10)
	v.SetDefault("app.request_timeout_in_seconds", 30)
	v.SetDefault("app.request_body_limit_in_megabyte", 10)

	v.SetDefault("jwt.service_token_alg", "ES256")
	v.SetDefault("jwt.service_token_subject", "mindhub-service")
	v.SetDefault("jwt.service_token_audience", "mindhub-backend")
	v.SetDefault("jwt.service_token_ttl_in_minutes", 15)

	v.SetDefault("backend.http_timeout_in_seconds", 15)
	v.SetDefault("backend.max_retries", 3)
	v.SetDefault("backend.retry_base_delay_in_milliseconds", 1000)
	v.SetDefault("backend.rate_limit_per_second", 20)
	v.SetDefault("backend.rate_limit_burst", 40)

	v.SetDefault("assessment.template_cache_ttl_in_minutes", 30)
	v.SetDefault("assessment.auto_save_interval_in_seconds", 30)
	v.SetDefault("assessment.save_lock_ttl_in_seconds", 15)
	v.SetDefault("assessment.autosave_worker_cron_spec", "@every 1m")
	v.SetDefault("assessment.autosave_worker_batch_size", 50)
	v.SetDefault("assessment.idle_after_in_seconds", 60)

	v.SetDefault("forms.attachment_max_upload_size_in_mb", 5)
	v.SetDefault("forms.allowed_attachment_types", []string{"application/pdf", "image/jpeg", "image/png"})

	v.SetDefault("queue.submission_queue", "assessment_submission_queue")
	v.SetDefault("queue.submission_dead_queue", "assessment_submission_dlq")
	v.SetDefault("queue.submission_worker_cron_spec", "@every 30s")
	v.SetDefault("queue.max_queue", 20)
	v.SetDefault("queue.throttle_retry", 5)

	v.SetDefault("minio.minio_pre_signed_url_object_expiry_time_in_hours", 1)

	v.SetDefault("rate_limit.finance_per_ip_per_second", 5)
	v.SetDefault("rate_limit.finance_per_ip_burst", 10)

	v.SetDefault("security.casbin_model_path", "resources/rbac_model.conf")
	v.SetDefault("security.casbin_policy_path", "resources/rbac_policy.csv")

	// Keys without a default are invisible to AutomaticEnv during Unmarshal.
	for _, key := range []string{
		"jwt.secret", "jwt.issuer", "jwt.service_token_key",
		"backend.base_url", "backend.finance_base_url",
		"minio.bucket_name", "security.ops_api_key_hash",
	} {
		v.SetDefault(key, "")
	}
}

func (c *InternalConfig) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Backend.BaseUrl) == "" {
		problems = append(problems, "backend.base_url is required")
	}
	if c.Assessment.AutoSaveIntervalInSeconds <= 0 {
		problems = append(problems, "assessment.auto_save_interval_in_seconds must be positive")
	}
	if c.Assessment.SaveLockTTLInSeconds <= 0 {
		problems = append(problems, "assessment.save_lock_ttl_in_seconds must be positive")
	}
	if c.Assessment.TemplateCacheTTLInMinutes <= 0 {
		problems = append(problems, "assessment.template_cache_ttl_in_minutes must be positive")
	}
	if c.Backend.HTTPTimeoutInSeconds <= 0 {
		problems = append(problems, "backend.http_timeout_in_seconds must be positive")
	}
	if c.Backend.MaxRetries < 0 {
		problems = append(problems, "backend.max_retries cannot be negative")
	}
	if c.Queue.ThrottleRetry <= 0 {
		problems = append(problems, "queue.throttle_retry must be positive")
	}
	if c.App.ShutdownTimeoutInSeconds <= 0 {
		problems = append(problems, "app.shutdown_timeout_in_seconds must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
