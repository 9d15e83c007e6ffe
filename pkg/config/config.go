package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Cart         CartConfig
	OrderAPI     OrderAPIConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.DB.IsSQLite() {
		return &cfg, nil
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GREENHOUSE_APP_ENV" required:"true"`
	Port         string `envconfig:"GREENHOUSE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GREENHOUSE_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"GREENHOUSE_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"GREENHOUSE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN        string `envconfig:"GREENHOUSE_DB_DSN"`
	Driver     string `envconfig:"GREENHOUSE_DB_DRIVER" default:"postgres"`
	SQLitePath string `envconfig:"GREENHOUSE_SQLITE_PATH" default:"file:greenhouse.db?cache=shared"`

	LegacyHost     string `envconfig:"GREENHOUSE_DB_HOST"`
	LegacyPort     int    `envconfig:"GREENHOUSE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GREENHOUSE_DB_USER"`
	LegacyPassword string `envconfig:"GREENHOUSE_DB_PASSWORD"`
	LegacyName     string `envconfig:"GREENHOUSE_DB_NAME"`
	LegacySSLMode  string `envconfig:"GREENHOUSE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GREENHOUSE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GREENHOUSE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GREENHOUSE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GREENHOUSE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the catalog runs on the embedded SQLite driver.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"GREENHOUSE_REDIS_URL"`
	Address      string        `envconfig:"GREENHOUSE_REDIS_ADDR"`
	Password     string        `envconfig:"GREENHOUSE_REDIS_PASSWORD"`
	DB           int           `envconfig:"GREENHOUSE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GREENHOUSE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GREENHOUSE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GREENHOUSE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GREENHOUSE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GREENHOUSE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig holds what is needed to verify bearer tokens minted by the identity provider.
type JWTConfig struct {
	Secret            string `envconfig:"GREENHOUSE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GREENHOUSE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"GREENHOUSE_JWT_EXPIRATION_MINUTES" default:"60"`
}

type CartConfig struct {
	TTL        time.Duration `envconfig:"GREENHOUSE_CART_TTL" default:"720h"`
	MaxLineQty int           `envconfig:"GREENHOUSE_CART_MAX_LINE_QTY" default:"999"`
}

type OrderAPIConfig struct {
	BaseURL string        `envconfig:"GREENHOUSE_ORDER_API_URL" required:"true"`
	APIKey  string        `envconfig:"GREENHOUSE_ORDER_API_KEY"`
	Timeout time.Duration `envconfig:"GREENHOUSE_ORDER_API_TIMEOUT" default:"10s"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"GREENHOUSE_CORS_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GREENHOUSE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
