package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_BEARER_TOKEN_KEY         ContextKey = "bearer_token"
	CONTEXT_USER_ID_KEY              ContextKey = "user_id"
	CONTEXT_USER_ROLE_KEY            ContextKey = "user_role"
	CONTEXT_CLINIC_ID_KEY            ContextKey = "clinic_id"
	CONTEXT_API_KEY_AUTH             ContextKey = "api_key_auth"
	CONTEXT_SERVICE_ACCOUNT_KEY      ContextKey = "service_account"
)

const (
	REQUEST_ID_PREFIX = "MINDHUB_SVC_"
)

const (
	AppPaginationUrlFormat = "%s?page=%d&page_size=%d"
	AppDefaultPageSize     = 20
	AppMaxPageSize         = 100
)

const (
	MindhubRoleAdmin        = "admin"
	MindhubRoleClinician    = "clinician"
	MindhubRoleReceptionist = "receptionist"
	MindhubRoleService      = "service"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)
