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
	Session      SessionConfig
	Password     PasswordConfig
	Storage      StorageConfig
	Orders       OrdersConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MigrateConfig is the subset the migration tool needs. It skips session and
// storage validation so migrations can run from a bare DB environment.
type MigrateConfig struct {
	App AppConfig
	DB  DBConfig
}

func LoadMigrate() (*MigrateConfig, error) {
	var cfg MigrateConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing migrate config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ROWDYSDEN_APP_ENV" required:"true"`
	Port         string `envconfig:"ROWDYSDEN_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"ROWDYSDEN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ROWDYSDEN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"ROWDYSDEN_DB_DSN"`

	LegacyHost     string `envconfig:"ROWDYSDEN_DB_HOST"`
	LegacyPort     int    `envconfig:"ROWDYSDEN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ROWDYSDEN_DB_USER"`
	LegacyPassword string `envconfig:"ROWDYSDEN_DB_PASSWORD"`
	LegacyName     string `envconfig:"ROWDYSDEN_DB_NAME"`
	LegacySSLMode  string `envconfig:"ROWDYSDEN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ROWDYSDEN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ROWDYSDEN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ROWDYSDEN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ROWDYSDEN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"ROWDYSDEN_DB_SLOW_QUERY" default:"500ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ROWDYSDEN_REDIS_URL"`
	Address      string        `envconfig:"ROWDYSDEN_REDIS_ADDR"`
	Password     string        `envconfig:"ROWDYSDEN_REDIS_PASSWORD"`
	DB           int           `envconfig:"ROWDYSDEN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ROWDYSDEN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ROWDYSDEN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ROWDYSDEN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ROWDYSDEN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ROWDYSDEN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SessionConfig drives the signed guest-session cookie.
type SessionConfig struct {
	Secret     string `envconfig:"ROWDYSDEN_SESSION_SECRET" required:"true"`
	CookieName string `envconfig:"ROWDYSDEN_SESSION_COOKIE_NAME" default:"rowdysden_session"`
	MaxAgeDays int    `envconfig:"ROWDYSDEN_SESSION_MAX_AGE_DAYS" default:"30"`
	Secure     bool   `envconfig:"ROWDYSDEN_SESSION_SECURE" default:"false"`
}

// MaxAge returns the cookie lifetime in seconds.
func (s SessionConfig) MaxAge() int {
	if s.MaxAgeDays <= 0 {
		return 0
	}
	return int((time.Duration(s.MaxAgeDays) * 24 * time.Hour).Seconds())
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ROWDYSDEN_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ROWDYSDEN_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ROWDYSDEN_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ROWDYSDEN_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ROWDYSDEN_ARGON_KEY_LEN" default:"32"`
}

type StorageConfig struct {
	Driver      string `envconfig:"ROWDYSDEN_STORAGE_DRIVER" default:"local"`
	LocalDir    string `envconfig:"ROWDYSDEN_STORAGE_LOCAL_DIR" default:"uploads"`
	PublicPath  string `envconfig:"ROWDYSDEN_STORAGE_PUBLIC_PATH" default:"/uploads"`
	MaxUploadMB int    `envconfig:"ROWDYSDEN_MAX_UPLOAD_MB" default:"10"`

	MinioEndpoint  string `envconfig:"ROWDYSDEN_MINIO_ENDPOINT"`
	MinioAccessKey string `envconfig:"ROWDYSDEN_MINIO_ACCESS_KEY"`
	MinioSecretKey string `envconfig:"ROWDYSDEN_MINIO_SECRET_KEY"`
	MinioBucket    string `envconfig:"ROWDYSDEN_MINIO_BUCKET"`
	MinioRegion    string `envconfig:"ROWDYSDEN_MINIO_REGION"`
	MinioUseSSL    bool   `envconfig:"ROWDYSDEN_MINIO_USE_SSL" default:"true"`
	PublicBaseURL  string `envconfig:"ROWDYSDEN_STORAGE_PUBLIC_BASE_URL"`
}

// MaxUploadBytes converts the configured megabyte limit.
func (s StorageConfig) MaxUploadBytes() int64 {
	if s.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return int64(s.MaxUploadMB) << 20
}

func (s StorageConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Driver)) {
	case StorageDriverLocal:
		return nil
	case StorageDriverMinio:
		missing := []string{}
		if s.MinioEndpoint == "" {
			missing = append(missing, EnvMinioEndpoint)
		}
		if s.MinioAccessKey == "" {
			missing = append(missing, EnvMinioAccessKey)
		}
		if s.MinioSecretKey == "" {
			missing = append(missing, EnvMinioSecretKey)
		}
		if s.MinioBucket == "" {
			missing = append(missing, EnvMinioBucket)
		}
		if len(missing) > 0 {
			return fmt.Errorf("minio storage requires %s", strings.Join(missing, ", "))
		}
		return nil
	default:
		return fmt.Errorf("unknown storage driver %q", s.Driver)
	}
}

type OrdersConfig struct {
	StrictTransitions bool `envconfig:"ROWDYSDEN_ORDER_STRICT_TRANSITIONS" default:"true"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"ROWDYSDEN_CORS_ALLOWED_ORIGINS" default:"*"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ROWDYSDEN_AUTO_MIGRATE" default:"false"`
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
