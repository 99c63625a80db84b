package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Admin         AdminConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Checkout      CheckoutConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DRPS_APP_ENV" required:"true"`
	Port         string `envconfig:"DRPS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DRPS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DRPS_LOG_WARN_STACK" default:"false"`
	LogFile      string `envconfig:"DRPS_LOG_FILE"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DRPS_DB_DSN"`
	Driver string `envconfig:"DRPS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DRPS_DB_HOST"`
	LegacyPort     int    `envconfig:"DRPS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DRPS_DB_USER"`
	LegacyPassword string `envconfig:"DRPS_DB_PASSWORD"`
	LegacyName     string `envconfig:"DRPS_DB_NAME"`
	LegacySSLMode  string `envconfig:"DRPS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DRPS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DRPS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DRPS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DRPS_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	// SlowQuery logs statements slower than this at warn level; zero disables it.
	SlowQuery time.Duration `envconfig:"DRPS_DB_SLOW_QUERY" default:"250ms"`
}

// IsSQLite reports whether the configured driver is the embedded sqlite driver.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"DRPS_REDIS_URL"`
	Address      string        `envconfig:"DRPS_REDIS_ADDR"`
	Password     string        `envconfig:"DRPS_REDIS_PASSWORD"`
	DB           int           `envconfig:"DRPS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DRPS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DRPS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DRPS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DRPS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DRPS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DRPS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DRPS_JWT_ISSUER" default:"doctorpiscinas"`
	ExpirationMinutes int    `envconfig:"DRPS_JWT_EXPIRATION_MINUTES" default:"60"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// AdminConfig holds the single back-office account. PasswordHash is an argon2id
// encoded hash produced by cmd/hashpw.
type AdminConfig struct {
	Email        string `envconfig:"DRPS_ADMIN_EMAIL" required:"true"`
	PasswordHash string `envconfig:"DRPS_ADMIN_PASSWORD_HASH" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DRPS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DRPS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DRPS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DRPS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DRPS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"DRPS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"DRPS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"DRPS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type CheckoutConfig struct {
	WhatsAppNumber   string        `envconfig:"DRPS_ADMIN_WHATSAPP_NUMBER" default:"5491122334455"`
	CouponTimeout    time.Duration `envconfig:"DRPS_COUPON_LOOKUP_TIMEOUT" default:"5s"`
	PlacementTimeout time.Duration `envconfig:"DRPS_ORDER_PLACEMENT_TIMEOUT" default:"5s"`
	CartTTL          time.Duration `envconfig:"DRPS_CART_TTL" default:"720h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"DRPS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DRPS_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"DRPS_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = defaultSQLiteDSN
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
