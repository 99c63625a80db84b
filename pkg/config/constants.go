package config

// EnvPrefix is passed to envconfig; every field carries an explicit DRPS_ name.
const EnvPrefix = "DRPS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	defaultSQLiteDSN = "file:drps.db?cache=shared&_fk=1"
)

const (
	EnvAppEnv  = "DRPS_APP_ENV"
	EnvPort    = "DRPS_APP_PORT"
	EnvLogFile = "DRPS_LOG_FILE"

	EnvDBDSN  = "DRPS_DB_DSN"
	EnvDBHost = "DRPS_DB_HOST"
	EnvDBUser = "DRPS_DB_USER"
	EnvDBName = "DRPS_DB_NAME"

	EnvRedisURL = "DRPS_REDIS_URL"

	EnvJWTSecret  = "DRPS_JWT_SECRET"
	EnvJWTIssuer  = "DRPS_JWT_ISSUER"
	EnvJWTExpMins = "DRPS_JWT_EXPIRATION_MINUTES"

	EnvAdminEmail        = "DRPS_ADMIN_EMAIL"
	EnvAdminPasswordHash = "DRPS_ADMIN_PASSWORD_HASH"

	EnvWhatsAppNumber = "DRPS_ADMIN_WHATSAPP_NUMBER"
	EnvUseSQLite      = "DRPS_USE_SQLITE"
	EnvCORSOrigins    = "DRPS_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
