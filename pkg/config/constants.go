package config

// EnvPrefix is the envconfig prefix shared by every variable.
const EnvPrefix = "PHARMACARE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced outside envconfig tags (tests, error messages).
const (
	EnvAppEnv     = "PHARMACARE_APP_ENV"
	EnvPort       = "PHARMACARE_APP_PORT"
	EnvDBDSN      = "PHARMACARE_DB_DSN"
	EnvDBHost     = "PHARMACARE_DB_HOST"
	EnvDBUser     = "PHARMACARE_DB_USER"
	EnvDBName     = "PHARMACARE_DB_NAME"
	EnvRedisURL   = "PHARMACARE_REDIS_URL"
	EnvJWTSecret  = "PHARMACARE_JWT_SECRET"
	EnvJWTIssuer  = "PHARMACARE_JWT_ISSUER"
	EnvJWTExpMins = "PHARMACARE_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
