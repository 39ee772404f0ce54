package config

// EnvPrefix is handed to envconfig; every field also carries its full name.
const EnvPrefix = "ROWDYSDEN"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StorageDriverLocal = "local"
	StorageDriverMinio = "minio"
)

const (
	EnvAppEnv   = "ROWDYSDEN_APP_ENV"
	EnvPort     = "ROWDYSDEN_APP_PORT"
	EnvLogLevel = "ROWDYSDEN_LOG_LEVEL"

	EnvDBDSN  = "ROWDYSDEN_DB_DSN"
	EnvDBHost = "ROWDYSDEN_DB_HOST"
	EnvDBUser = "ROWDYSDEN_DB_USER"
	EnvDBName = "ROWDYSDEN_DB_NAME"

	EnvRedisURL      = "ROWDYSDEN_REDIS_URL"
	EnvSessionSecret = "ROWDYSDEN_SESSION_SECRET"

	EnvStorageDriver  = "ROWDYSDEN_STORAGE_DRIVER"
	EnvMinioEndpoint  = "ROWDYSDEN_MINIO_ENDPOINT"
	EnvMinioAccessKey = "ROWDYSDEN_MINIO_ACCESS_KEY"
	EnvMinioSecretKey = "ROWDYSDEN_MINIO_SECRET_KEY"
	EnvMinioBucket    = "ROWDYSDEN_MINIO_BUCKET"

	EnvStrictTransitions = "ROWDYSDEN_ORDER_STRICT_TRANSITIONS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
