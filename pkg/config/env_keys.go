package config

const (
	EnvPrefix = "dbackf"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv         = "DBACKF_APP_ENV"
	EnvPort           = "DBACKF_APP_PORT"
	EnvBackendBaseURL = "DBACKF_BACKEND_BASE_URL"
	EnvRedisURL       = "DBACKF_REDIS_URL"
)
