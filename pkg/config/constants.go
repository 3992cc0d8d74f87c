package config

// EnvPrefix is intentionally empty: every field carries its fully
// qualified BIDHAUS_* variable name in its envconfig tag.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)
