package config

// EnvPrefix scopes every environment variable this service reads.
const EnvPrefix = "PETSHOP"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv          = "PETSHOP_APP_ENV"
	EnvPort            = "PETSHOP_APP_PORT"
	EnvRedisURL        = "PETSHOP_REDIS_URL"
	EnvGuestStorePath  = "PETSHOP_GUEST_STORE_PATH"
	EnvUpstreamBaseURL = "PETSHOP_UPSTREAM_BASE_URL"
)
