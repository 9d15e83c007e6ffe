package config

// EnvPrefix namespaces every variable read by Load.
const EnvPrefix = "GREENHOUSE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv       = "GREENHOUSE_APP_ENV"
	EnvPort         = "GREENHOUSE_APP_PORT"
	EnvLogLevel     = "GREENHOUSE_LOG_LEVEL"
	EnvLogFormat    = "GREENHOUSE_LOG_FORMAT"
	EnvDBDSN        = "GREENHOUSE_DB_DSN"
	EnvDBHost       = "GREENHOUSE_DB_HOST"
	EnvDBUser       = "GREENHOUSE_DB_USER"
	EnvDBName       = "GREENHOUSE_DB_NAME"
	EnvRedisURL     = "GREENHOUSE_REDIS_URL"
	EnvJWTSecret    = "GREENHOUSE_JWT_SECRET"
	EnvJWTIssuer    = "GREENHOUSE_JWT_ISSUER"
	EnvCartTTL      = "GREENHOUSE_CART_TTL"
	EnvCartMaxQty   = "GREENHOUSE_CART_MAX_LINE_QTY"
	EnvOrderAPIURL  = "GREENHOUSE_ORDER_API_URL"
	EnvOrderAPIKey  = "GREENHOUSE_ORDER_API_KEY"
	EnvCORSOrigins  = "GREENHOUSE_CORS_ORIGINS"
	EnvDBDriver     = "GREENHOUSE_DB_DRIVER"
	EnvSQLitePath   = "GREENHOUSE_SQLITE_PATH"
	EnvAutoMigrate  = "GREENHOUSE_AUTO_MIGRATE"
	EnvOrderTimeout = "GREENHOUSE_ORDER_API_TIMEOUT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
